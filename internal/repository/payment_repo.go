package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/models"
)

// PaymentRepository stores gateway callbacks and answers the paid-quiz gate.
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.QuizPayment) error
	FindCompleted(ctx context.Context, quizID, userID uint) (models.QuizPayment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *models.QuizPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindCompleted(ctx context.Context, quizID, userID uint) (models.QuizPayment, error) {
	var payment models.QuizPayment
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Where("user_id = ?", userID).
		Where("status_code = ?", models.PaymentStatusSuccess).
		Order("created_at DESC").
		First(&payment).Error; err != nil {
		return models.QuizPayment{}, err
	}

	return payment, nil
}
