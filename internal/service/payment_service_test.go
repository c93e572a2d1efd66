package service

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
)

func newPaymentFixture(t *testing.T) (*memoryPaymentRepo, *memoryQuizRepo, PaymentService) {
	t.Helper()

	payments := newMemoryPaymentRepo()
	quizzes := newMemoryQuizRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())

	quizzes.seed(models.Quiz{ID: 1, Name: "Premium", IsPaid: true, Amount: floatPtr(50)})

	svc := NewPaymentService(payments, quizzes, validate, testLogger())
	return payments, quizzes, svc
}

func TestPaymentServiceRecordStatus(t *testing.T) {
	_, _, svc := newPaymentFixture(t)

	payment, err := svc.RecordStatus(context.Background(), dto.PaymentStatusRequest{
		MerchantID:            "merchant-1",
		MerchantTransactionID: "mtx-1",
		TransactionID:         "tx-1",
		StatusCode:            models.PaymentStatusSuccess,
		Amount:                50,
		QuizID:                1,
		UserID:                7,
	})
	require.NoError(t, err)
	require.NotZero(t, payment.ID)
	require.True(t, payment.Completed)
}

func TestPaymentServiceRecordStatusUnknownQuiz(t *testing.T) {
	_, _, svc := newPaymentFixture(t)

	_, err := svc.RecordStatus(context.Background(), dto.PaymentStatusRequest{
		MerchantID:            "merchant-1",
		MerchantTransactionID: "mtx-1",
		TransactionID:         "tx-1",
		StatusCode:            models.PaymentStatusSuccess,
		Amount:                50,
		QuizID:                42,
		UserID:                7,
	})
	require.ErrorIs(t, err, ErrQuizNotFound)
}
