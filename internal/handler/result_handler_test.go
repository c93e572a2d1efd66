package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/handler"
	"github.com/algotrons/quiz-api/internal/pagination"
	"github.com/algotrons/quiz-api/internal/service"
)

type mockScoringService struct {
	lastUserID  uint
	lastPayload dto.SubmitQuizRequest
	response    dto.ResultResponse
	err         error
}

func (m *mockScoringService) Submit(_ context.Context, userID uint, payload dto.SubmitQuizRequest) (dto.ResultResponse, error) {
	m.lastUserID = userID
	m.lastPayload = payload
	if m.err != nil {
		return dto.ResultResponse{}, m.err
	}
	return m.response, nil
}

type mockResultService struct {
	window pagination.Window[dto.ResultResponse]
	result dto.ResultResponse
	err    error
}

func (m *mockResultService) AttemptedResults(_ context.Context, _ uint, _, _ int) (pagination.Window[dto.ResultResponse], error) {
	return m.window, m.err
}

func (m *mockResultService) Get(_ context.Context, _ uint) (dto.ResultResponse, error) {
	return m.result, m.err
}

func newResultApp(scoring *mockScoringService, results *mockResultService, userID uint) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/results", func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	handler.NewResultHandler(scoring, results, 10, zerolog.New(io.Discard)).Register(group)
	return app
}

func submitRequest(t *testing.T, payload dto.SubmitQuizRequest) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/results", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestResultHandlerSubmitSuccess(t *testing.T) {
	answer := "A"
	scoring := &mockScoringService{response: dto.ResultResponse{ID: 3, QuizID: 1, UserID: 42, TotalMarksGot: 7}}
	app := newResultApp(scoring, &mockResultService{}, 42)

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: &answer}},
	}

	resp, err := app.Test(submitRequest(t, payload))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Equal(t, uint(42), scoring.lastUserID)
	require.Equal(t, uint(1), scoring.lastPayload.QuizID)

	var response struct {
		Success bool               `json:"success"`
		Data    dto.ResultResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	require.True(t, response.Success)
	require.InDelta(t, 7.0, response.Data.TotalMarksGot, 0.0001)
}

func TestResultHandlerSubmitRequiresIdentity(t *testing.T) {
	app := newResultApp(&mockScoringService{}, &mockResultService{}, 0)

	resp, err := app.Test(submitRequest(t, dto.SubmitQuizRequest{QuizID: 1}))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestResultHandlerSubmitErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{name: "payment required", err: service.ErrPaymentRequired, status: fiber.StatusPaymentRequired},
		{name: "quiz missing", err: service.ErrQuizNotFound, status: fiber.StatusNotFound},
		{name: "quiz not ready", err: service.ErrQuizNotReady, status: fiber.StatusConflict},
		{name: "invalid input", err: service.ErrInvalidInput, status: fiber.StatusBadRequest},
	}

	answer := "A"
	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: &answer}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newResultApp(&mockScoringService{err: tc.err}, &mockResultService{}, 42)

			resp, err := app.Test(submitRequest(t, payload))
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestResultHandlerAttempted(t *testing.T) {
	results := &mockResultService{
		window: pagination.Window[dto.ResultResponse]{
			Items:       []dto.ResultResponse{{ID: 1}, {ID: 2}},
			CurrentPage: 1,
			TotalPages:  1,
			Total:       2,
		},
	}
	app := newResultApp(&mockScoringService{}, results, 42)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results/attempted", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data struct {
			Items []dto.ResultResponse `json:"items"`
			Total int                  `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&response))
	require.Len(t, response.Data.Items, 2)
	require.Equal(t, 2, response.Data.Total)
}
