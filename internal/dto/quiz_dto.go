package dto

import (
	"time"

	"github.com/algotrons/quiz-api/internal/models"
)

// QuizCreateRequest describes the payload for creating a quiz definition.
type QuizCreateRequest struct {
	Name             string   `json:"name" validate:"required,min=2,max=255"`
	QuestionCount    int      `json:"question_count" validate:"required,gt=0"`
	RightMark        float64  `json:"right_mark" validate:"gte=0"`
	NegativeMark     float64  `json:"negative_mark" validate:"gte=0"`
	TimeLimitMinutes int      `json:"time_limit_minutes" validate:"required,gt=0"`
	IsPaid           bool     `json:"is_paid"`
	Amount           *float64 `json:"amount" validate:"omitempty,gt=0"`
}

// QuizUpdateRequest carries partial updates for an existing quiz.
type QuizUpdateRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2,max=255"`
	QuestionCount    *int     `json:"question_count" validate:"omitempty,gt=0"`
	RightMark        *float64 `json:"right_mark" validate:"omitempty,gte=0"`
	NegativeMark     *float64 `json:"negative_mark" validate:"omitempty,gte=0"`
	TimeLimitMinutes *int     `json:"time_limit_minutes" validate:"omitempty,gt=0"`
	IsPaid           *bool    `json:"is_paid"`
	Amount           *float64 `json:"amount" validate:"omitempty,gt=0"`
}

// QuizListQuery describes the paging and search parameters for quiz listings.
type QuizListQuery struct {
	Page     int    `query:"page"`
	PageSize int    `query:"limit"`
	Search   string `query:"search"`
}

// QuizResponse is returned to API clients when viewing quizzes.
type QuizResponse struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	QuestionCount    int       `json:"question_count"`
	RightMark        float64   `json:"right_mark"`
	NegativeMark     float64   `json:"negative_mark"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	IsPaid           bool      `json:"is_paid"`
	Amount           *float64  `json:"amount,omitempty"`
	Ready            bool      `json:"ready"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// QuizDetailResponse includes the taker-facing question set.
type QuizDetailResponse struct {
	QuizResponse
	Questions []QuestionResponse `json:"questions"`
}

// NewQuizResponse converts a Quiz model into a DTO.
func NewQuizResponse(model models.Quiz) QuizResponse {
	return QuizResponse{
		ID:               model.ID,
		Name:             model.Name,
		QuestionCount:    model.QuestionCount,
		RightMark:        model.RightMark,
		NegativeMark:     model.NegativeMark,
		TimeLimitMinutes: model.TimeLimitMinutes,
		IsPaid:           model.IsPaid,
		Amount:           model.Amount,
		Ready:            model.IsReady(),
		CreatedAt:        model.CreatedAt,
		UpdatedAt:        model.UpdatedAt,
	}
}

// NewQuizResponseSlice converts a slice of quiz models.
func NewQuizResponseSlice(quizzes []models.Quiz) []QuizResponse {
	responses := make([]QuizResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		responses = append(responses, NewQuizResponse(quiz))
	}
	return responses
}
