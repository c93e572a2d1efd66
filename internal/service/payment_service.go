package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/repository"
)

// PaymentService records gateway callbacks for paid quizzes. Reconciliation
// with the gateway happens elsewhere; this service only keeps the rows the
// submission gate reads through the payment repository.
type PaymentService interface {
	RecordStatus(ctx context.Context, payload dto.PaymentStatusRequest) (dto.PaymentResponse, error)
}

type paymentService struct {
	payments  repository.PaymentRepository
	quizzes   repository.QuizRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPaymentService constructs a PaymentService instance.
func NewPaymentService(payments repository.PaymentRepository, quizzes repository.QuizRepository, validate *validator.Validate, logger zerolog.Logger) PaymentService {
	return &paymentService{
		payments:  payments,
		quizzes:   quizzes,
		validator: validate,
		logger:    logger.With().Str("component", "payment_service").Logger(),
	}
}

func (s *paymentService) RecordStatus(ctx context.Context, payload dto.PaymentStatusRequest) (dto.PaymentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PaymentResponse{}, err
	}

	if _, err := s.quizzes.GetByID(ctx, payload.QuizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.PaymentResponse{}, ErrQuizNotFound
		}
		return dto.PaymentResponse{}, err
	}

	payment := models.QuizPayment{
		MerchantID:            payload.MerchantID,
		MerchantTransactionID: payload.MerchantTransactionID,
		TransactionID:         payload.TransactionID,
		StatusCode:            payload.StatusCode,
		Amount:                payload.Amount,
		QuizID:                payload.QuizID,
		UserID:                payload.UserID,
	}

	if err := s.payments.Create(ctx, &payment); err != nil {
		return dto.PaymentResponse{}, err
	}

	s.logger.Info().
		Uint("quiz_id", payment.QuizID).
		Uint("user_id", payment.UserID).
		Str("status", payment.StatusCode).
		Msg("payment status recorded")

	return dto.NewPaymentResponse(payment), nil
}
