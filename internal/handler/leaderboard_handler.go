package handler

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/algotrons/quiz-api/internal/middleware"
	"github.com/algotrons/quiz-api/internal/service"
	"github.com/algotrons/quiz-api/internal/utils"
)

// LeaderboardHandler serves ranked views of a quiz, both paginated reads and
// a websocket stream that pushes fresh standings on an interval.
type LeaderboardHandler struct {
	ranking         service.RankingService
	logger          zerolog.Logger
	defaultPageSize int
	pushEvery       time.Duration
}

// NewLeaderboardHandler builds a leaderboard handler instance.
func NewLeaderboardHandler(ranking service.RankingService, defaultPageSize int, pushEvery time.Duration, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		ranking:         ranking,
		logger:          logger.With().Str("component", "leaderboard_handler").Logger(),
		defaultPageSize: defaultPageSize,
		pushEvery:       pushEvery,
	}
}

// Register attaches the leaderboard routes including the websocket upgrade.
func (h *LeaderboardHandler) Register(router fiber.Router) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/ws", websocket.New(h.handleConnection))
	router.Get("/:quizId", h.leaderboard)
	router.Get("/:quizId/rank", h.rank)
}

func (h *LeaderboardHandler) leaderboard(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
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

	board, err := h.ranking.Leaderboard(c.Context(), quizID, page, pageSize)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "leaderboard retrieved", board)
}

// rank resolves a single attempt's dense rank. With a result_id query the
// lookup is by attempt; otherwise an attempt policy is required and the
// lookup is for the authenticated user.
func (h *LeaderboardHandler) rank(c *fiber.Ctx) error {
	quizID, err := parseUintParam(c, "quizId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	resultID, err := parseQueryUint(c, "result_id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid result_id")
	}

	if resultID != nil {
		rank, err := h.ranking.ResultRank(c.Context(), quizID, *resultID)
		if err != nil {
			return h.handleError(c, err)
		}
		return utils.SendSuccess(c, "rank retrieved", rank)
	}

	userID := userIDFromContext(c)
	if userID == 0 {
		return utils.SendError(c, fiber.StatusUnauthorized, "user identity missing")
	}

	policy, err := service.ParseAttemptPolicy(c.Query("policy"))
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rank, err := h.ranking.UserRank(c.Context(), quizID, userID, policy)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "rank retrieved", rank)
}

func (h *LeaderboardHandler) handleConnection(conn *websocket.Conn) {
	quizID := websocketQuizID(conn)
	if quizID == 0 {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(fiber.StatusBadRequest, "quiz_id required"))
		_ = conn.Close()
		return
	}

	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	h.logger.Info().Uint("quiz_id", quizID).Msg("leaderboard stream connected")
	h.stream(baseCtx, conn, quizID)
	h.logger.Info().Uint("quiz_id", quizID).Msg("leaderboard stream disconnected")
}

// stream pushes the first page of standings on connect and again on every
// tick until the peer goes away.
func (h *LeaderboardHandler) stream(ctx context.Context, conn *websocket.Conn, quizID uint) {
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(h.pushEvery)
	defer ticker.Stop()

	for {
		board, err := h.ranking.Leaderboard(ctx, quizID, 1, h.defaultPageSize)
		if err != nil {
			h.logger.Warn().Err(err).Uint("quiz_id", quizID).Msg("leaderboard stream refresh failed")
			return
		}

		payload, err := json.Marshal(board)
		if err != nil {
			h.logger.Warn().Err(err).Msg("failed to encode leaderboard frame")
			return
		}

		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}

		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (h *LeaderboardHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrQuizNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "quiz not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrInvalidInput):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func websocketQuizID(conn *websocket.Conn) uint {
	value := strings.TrimSpace(conn.Query("quiz_id"))
	if value == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}
