package models

import "time"

// QuizPayment stores the gateway callback for a paid quiz purchase. The
// scoring engine only checks that a completed row exists for a (quiz, user)
// pair; reconciliation happens outside this service.
type QuizPayment struct {
	ID                    uint      `gorm:"primaryKey" json:"id"`
	MerchantID            string    `gorm:"size:128;not null" json:"merchant_id"`
	MerchantTransactionID string    `gorm:"size:128;not null" json:"merchant_transaction_id"`
	TransactionID         string    `gorm:"size:128;not null;uniqueIndex" json:"transaction_id"`
	StatusCode            string    `gorm:"size:64;not null" json:"status_code"`
	Amount                float64   `gorm:"not null" json:"amount"`
	QuizID                uint      `gorm:"not null;index" json:"quiz_id"`
	UserID                uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// PaymentStatusSuccess is the gateway code for a completed payment.
const PaymentStatusSuccess = "PAYMENT_SUCCESS"

// Completed reports whether the payment went through.
func (p QuizPayment) Completed() bool {
	return p.StatusCode == PaymentStatusSuccess
}
