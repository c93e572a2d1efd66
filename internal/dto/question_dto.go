package dto

import (
	"time"

	"github.com/algotrons/quiz-api/internal/models"
)

// QuestionInput is one question supplied when building or editing a quiz's
// question bank. ID is only set on updates.
type QuestionInput struct {
	ID       uint   `json:"id"`
	Question string `json:"question" validate:"required,min=3"`
	OptionA  string `json:"option_a" validate:"required"`
	OptionB  string `json:"option_b" validate:"required"`
	OptionC  string `json:"option_c" validate:"required"`
	OptionD  string `json:"option_d" validate:"required"`
	Answer   string `json:"answer" validate:"required,oneof=A B C D"`
}

// QuestionBatchRequest carries the full question set for a quiz. The number
// of questions must match the quiz's configured question count.
type QuestionBatchRequest struct {
	QuizID    uint            `json:"quiz_id" validate:"required,gt=0"`
	Questions []QuestionInput `json:"questions" validate:"required,min=1,dive"`
}

// QuestionResponse is the taker-facing view of a question: the canonical
// answer is deliberately absent.
type QuestionResponse struct {
	ID        uint      `json:"id"`
	QuizID    uint      `json:"quiz_id"`
	Question  string    `json:"question"`
	OptionA   string    `json:"option_a"`
	OptionB   string    `json:"option_b"`
	OptionC   string    `json:"option_c"`
	OptionD   string    `json:"option_d"`
	CreatedAt time.Time `json:"created_at"`
}

// NewQuestionResponse converts a Question model into a DTO.
func NewQuestionResponse(model models.Question) QuestionResponse {
	return QuestionResponse{
		ID:        model.ID,
		QuizID:    model.QuizID,
		Question:  model.Question,
		OptionA:   model.OptionA,
		OptionB:   model.OptionB,
		OptionC:   model.OptionC,
		OptionD:   model.OptionD,
		CreatedAt: model.CreatedAt,
	}
}

// NewQuestionResponseSlice converts a slice of question models.
func NewQuestionResponseSlice(questions []models.Question) []QuestionResponse {
	responses := make([]QuestionResponse, 0, len(questions))
	for _, question := range questions {
		responses = append(responses, NewQuestionResponse(question))
	}
	return responses
}
