package dto

import (
	"time"

	"github.com/algotrons/quiz-api/internal/models"
)

// SubmittedAnswer is one answer in a quiz submission. UserAnswer is nil when
// the question was rendered but not attempted.
type SubmittedAnswer struct {
	QuestionID uint    `json:"question_id" validate:"required,gt=0"`
	UserAnswer *string `json:"user_answer"`
}

// SubmitQuizRequest is the payload for scoring one attempt.
type SubmitQuizRequest struct {
	QuizID  uint              `json:"quiz_id" validate:"required,gt=0"`
	Answers []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
}

// AnswerEntryResponse mirrors a stored answer-sheet entry.
type AnswerEntryResponse struct {
	QuestionID uint    `json:"question_id"`
	Answer     string  `json:"answer"`
	UserAnswer *string `json:"user_answer"`
	IsCorrect  *bool   `json:"is_correct"`
}

// ResultResponse is returned to API clients when viewing a scored attempt.
type ResultResponse struct {
	ID                uint                  `json:"id"`
	QuizID            uint                  `json:"quiz_id"`
	QuizName          string                `json:"quiz_name,omitempty"`
	UserID            uint                  `json:"user_id"`
	UserName          string                `json:"user_name,omitempty"`
	TotalMarksGot     float64               `json:"total_marks_got"`
	RightAnswerCount  int                   `json:"right_answer_count"`
	WrongAnswerCount  int                   `json:"wrong_answer_count"`
	QuestionAttempted int                   `json:"question_attempted"`
	QuestionAnswer    []AnswerEntryResponse `json:"question_answer"`
	CreatedAt         time.Time             `json:"created_at"`
}

// NewResultResponse converts a Result model into a DTO.
func NewResultResponse(model models.Result) ResultResponse {
	entries := model.Answers()
	sheet := make([]AnswerEntryResponse, 0, len(entries))
	for _, entry := range entries {
		sheet = append(sheet, AnswerEntryResponse{
			QuestionID: entry.QuestionID,
			Answer:     entry.Answer,
			UserAnswer: entry.UserAnswer,
			IsCorrect:  entry.IsCorrect,
		})
	}

	return ResultResponse{
		ID:                model.ID,
		QuizID:            model.QuizID,
		QuizName:          model.Quiz.Name,
		UserID:            model.UserID,
		UserName:          model.User.FullName,
		TotalMarksGot:     model.TotalMarksGot,
		RightAnswerCount:  model.RightAnswerCount,
		WrongAnswerCount:  model.WrongAnswerCount,
		QuestionAttempted: model.QuestionAttempted,
		QuestionAnswer:    sheet,
		CreatedAt:         model.CreatedAt,
	}
}

// NewResultResponseSlice converts a slice of result models.
func NewResultResponseSlice(results []models.Result) []ResultResponse {
	responses := make([]ResultResponse, 0, len(results))
	for _, result := range results {
		responses = append(responses, NewResultResponse(result))
	}
	return responses
}
