package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/algotrons/quiz-api/internal/service"
	"github.com/algotrons/quiz-api/internal/utils"
)

// StatisticsHandler serves aggregated quiz and question statistics.
type StatisticsHandler struct {
	service service.StatisticsService
	logger  zerolog.Logger
}

// NewStatisticsHandler builds a statistics handler instance.
func NewStatisticsHandler(service service.StatisticsService, logger zerolog.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		service: service,
		logger:  logger.With().Str("component", "statistics_handler").Logger(),
	}
}

// Register attaches the statistics routes to the provided router group.
func (h *StatisticsHandler) Register(router fiber.Router) {
	router.Get("/quiz/:quizId", h.quizStats)
	router.Get("/quiz/:quizId/questions", h.questionStats)
}

func (h *StatisticsHandler) quizStats(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.QuizStats(c.Context(), quizID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "quiz statistics retrieved", stats)
}

func (h *StatisticsHandler) questionStats(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	stats, err := h.service.QuestionStats(c.Context(), quizID)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "question statistics retrieved", stats)
}

func (h *StatisticsHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
