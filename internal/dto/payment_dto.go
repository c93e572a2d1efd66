package dto

import (
	"time"

	"github.com/algotrons/quiz-api/internal/models"
)

// PaymentStatusRequest is the gateway callback payload recorded for the
// paid-quiz submission gate.
type PaymentStatusRequest struct {
	MerchantID            string  `json:"merchant_id" validate:"required"`
	MerchantTransactionID string  `json:"merchant_transaction_id" validate:"required"`
	TransactionID         string  `json:"transaction_id" validate:"required"`
	StatusCode            string  `json:"status_code" validate:"required"`
	Amount                float64 `json:"amount" validate:"required,gt=0"`
	QuizID                uint    `json:"quiz_id" validate:"required,gt=0"`
	UserID                uint    `json:"user_id" validate:"required,gt=0"`
}

// PaymentResponse echoes a stored payment row.
type PaymentResponse struct {
	ID            uint      `json:"id"`
	TransactionID string    `json:"transaction_id"`
	StatusCode    string    `json:"status_code"`
	Amount        float64   `json:"amount"`
	QuizID        uint      `json:"quiz_id"`
	UserID        uint      `json:"user_id"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewPaymentResponse converts a QuizPayment model into a DTO.
func NewPaymentResponse(model models.QuizPayment) PaymentResponse {
	return PaymentResponse{
		ID:            model.ID,
		TransactionID: model.TransactionID,
		StatusCode:    model.StatusCode,
		Amount:        model.Amount,
		QuizID:        model.QuizID,
		UserID:        model.UserID,
		Completed:     model.Completed(),
		CreatedAt:     model.CreatedAt,
	}
}
