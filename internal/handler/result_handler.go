package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/service"
	"github.com/algotrons/quiz-api/internal/utils"
)

// ResultHandler manages submission and attempt-history endpoints.
type ResultHandler struct {
	scoring         service.ScoringService
	results         service.ResultService
	logger          zerolog.Logger
	defaultPageSize int
}

// NewResultHandler builds a result handler instance.
func NewResultHandler(scoring service.ScoringService, results service.ResultService, defaultPageSize int, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		scoring:         scoring,
		results:         results,
		logger:          logger.With().Str("component", "result_handler").Logger(),
		defaultPageSize: defaultPageSize,
	}
}

// Register attaches the result routes to the provided router group.
func (h *ResultHandler) Register(router fiber.Router) {
	router.Post("", h.submit)
	router.Get("/attempted", h.attempted)
	router.Get("/:id", h.get)
}

func (h *ResultHandler) submit(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity missing")
	}

	var payload dto.SubmitQuizRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.scoring.Submit(c.Context(), userID, payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission scored", result)
}

func (h *ResultHandler) attempted(c *fiber.Ctx) error {
	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity missing")
	}

	page, err := parseQueryInt(c, "page")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid page")
	}
	pageSize, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	pageSize = pageSizeOrDefault(pageSize, h.defaultPageSize)

	window, err := h.results.AttemptedResults(c.Context(), userID, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "attempted results retrieved", utils.NewPagedResponse(window.Items, window.CurrentPage, window.TotalPages, window.Total))
}

func (h *ResultHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	result, err := h.results.Get(c.Context(), id)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result retrieved", result)
}

func (h *ResultHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrQuizNotReady):
		return utils.SendError(c, fiber.StatusConflict, "quiz question set is incomplete")
	case errors.Is(err, service.ErrPaymentRequired):
		return utils.SendError(c, fiber.StatusPaymentRequired, "payment required for this quiz")
	case errors.Is(err, service.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
