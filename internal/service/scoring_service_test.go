package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
)

type scoringFixture struct {
	quizzes   *memoryQuizRepo
	questions *memoryQuestionRepo
	results   *memoryResultRepo
	payments  *memoryPaymentRepo
	svc       ScoringService
}

func newScoringFixture(t *testing.T, quiz models.Quiz) scoringFixture {
	t.Helper()

	quizzes := newMemoryQuizRepo()
	questions := newMemoryQuestionRepo()
	results := newMemoryResultRepo()
	payments := newMemoryPaymentRepo()
	validate := validator.New(validator.WithRequiredStructEnabled())

	quizzes.seed(quiz)

	svc := NewScoringService(quizzes, questions, results, payments, validate, nil, "", testLogger())

	return scoringFixture{
		quizzes:   quizzes,
		questions: questions,
		results:   results,
		payments:  payments,
		svc:       svc,
	}
}

func (f scoringFixture) seedQuestions(quizID uint, answers ...string) {
	for i, answer := range answers {
		f.questions.seed(models.Question{
			ID:       uint(i + 1),
			QuizID:   quizID,
			Question: "question",
			OptionA:  "a",
			OptionB:  "b",
			OptionC:  "c",
			OptionD:  "d",
			Answer:   answer,
		})
	}
}

func TestScoringServiceSubmitScoresAttempt(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, Name: "Go Basics", QuestionCount: 3, RightMark: 4, NegativeMark: 1})
	fixture.seedQuestions(1, "A", "B", "C")

	payload := dto.SubmitQuizRequest{
		QuizID: 1,
		Answers: []dto.SubmittedAnswer{
			{QuestionID: 1, UserAnswer: strPtr("A")},
			{QuestionID: 2, UserAnswer: strPtr("B")},
			{QuestionID: 3, UserAnswer: strPtr("D")},
		},
	}

	result, err := fixture.svc.Submit(context.Background(), 7, payload)
	require.NoError(t, err)
	require.Equal(t, 2, result.RightAnswerCount)
	require.Equal(t, 1, result.WrongAnswerCount)
	require.Equal(t, 3, result.QuestionAttempted)
	require.InDelta(t, 7.0, result.TotalMarksGot, 0.0001)
	require.Equal(t, uint(7), result.UserID)
	require.Len(t, result.QuestionAnswer, 3)

	// Canonical answers are snapshotted into the stored sheet.
	require.Equal(t, "A", result.QuestionAnswer[0].Answer)
	require.Equal(t, "C", result.QuestionAnswer[2].Answer)
	require.NotNil(t, result.QuestionAnswer[2].IsCorrect)
	require.False(t, *result.QuestionAnswer[2].IsCorrect)
}

func TestScoringServiceNormalizesAnswerCase(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 2, NegativeMark: 0.5})
	fixture.seedQuestions(1, "B")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr(" b ")}},
	}

	result, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)
	require.Equal(t, 1, result.RightAnswerCount)
	require.InDelta(t, 2.0, result.TotalMarksGot, 0.0001)
}

func TestScoringServiceUnattemptedQuestionsStayUndecided(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 2, RightMark: 1, NegativeMark: 1})
	fixture.seedQuestions(1, "A", "B")

	payload := dto.SubmitQuizRequest{
		QuizID: 1,
		Answers: []dto.SubmittedAnswer{
			{QuestionID: 1, UserAnswer: strPtr("A")},
			{QuestionID: 2, UserAnswer: nil},
		},
	}

	result, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)
	require.Equal(t, 1, result.QuestionAttempted)
	require.Equal(t, 1, result.RightAnswerCount)
	require.Equal(t, 0, result.WrongAnswerCount)
	require.InDelta(t, 1.0, result.TotalMarksGot, 0.0001)

	// The skipped question keeps nil markers rather than counting as wrong.
	require.Nil(t, result.QuestionAnswer[1].UserAnswer)
	require.Nil(t, result.QuestionAnswer[1].IsCorrect)
}

func TestScoringServiceSubtractsNegativeMarkMagnitude(t *testing.T) {
	// A signed negative mark stored upstream must still be subtracted.
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 4, NegativeMark: -2})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("B")}},
	}

	result, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)
	require.InDelta(t, -2.0, result.TotalMarksGot, 0.0001)
}

func TestScoringServiceRejectsForeignQuestion(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 99, UserAnswer: strPtr("A")}},
	}

	_, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, fixture.results.results)
}

func TestScoringServiceRejectsDuplicateAnswers(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 2, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A", "B")

	payload := dto.SubmitQuizRequest{
		QuizID: 1,
		Answers: []dto.SubmittedAnswer{
			{QuestionID: 1, UserAnswer: strPtr("A")},
			{QuestionID: 1, UserAnswer: strPtr("B")},
		},
	}

	_, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestScoringServiceRejectsUnknownOption(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("E")}},
	}

	_, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrInvalidInput)
	require.Empty(t, fixture.results.results)
}

func TestScoringServiceRejectsIncompleteQuiz(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 3, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A", "B")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("A")}},
	}

	_, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrQuizNotReady)
}

func TestScoringServiceUnknownQuiz(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0})

	payload := dto.SubmitQuizRequest{
		QuizID:  42,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("A")}},
	}

	_, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.ErrorIs(t, err, ErrQuizNotFound)
}

func TestScoringServicePaidQuizRequiresCompletedPayment(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0, IsPaid: true, Amount: floatPtr(50)})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("A")}},
	}

	_, err := fixture.svc.Submit(context.Background(), 3, payload)
	require.ErrorIs(t, err, ErrPaymentRequired)

	require.NoError(t, fixture.payments.Create(context.Background(), &models.QuizPayment{
		TransactionID: "tx-1",
		StatusCode:    models.PaymentStatusSuccess,
		Amount:        50,
		QuizID:        1,
		UserID:        3,
	}))

	result, err := fixture.svc.Submit(context.Background(), 3, payload)
	require.NoError(t, err)
	require.Equal(t, 1, result.RightAnswerCount)
}

func TestScoringServiceKeepsEveryAttempt(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("A")}},
	}

	first, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)
	second, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
	require.Len(t, fixture.results.results, 2)
}

func TestScoringServiceSnapshotSurvivesQuestionEdits(t *testing.T) {
	fixture := newScoringFixture(t, models.Quiz{ID: 1, QuestionCount: 1, RightMark: 1, NegativeMark: 0})
	fixture.seedQuestions(1, "A")

	payload := dto.SubmitQuizRequest{
		QuizID:  1,
		Answers: []dto.SubmittedAnswer{{QuestionID: 1, UserAnswer: strPtr("A")}},
	}

	result, err := fixture.svc.Submit(context.Background(), 1, payload)
	require.NoError(t, err)

	// Rewriting the bank afterwards must not touch the stored sheet.
	question := fixture.questions.questions[1]
	question.Answer = "D"
	fixture.questions.questions[1] = question

	stored, err := fixture.results.GetByID(context.Background(), result.ID)
	require.NoError(t, err)
	entries := stored.Answers()
	require.Len(t, entries, 1)
	require.Equal(t, "A", entries[0].Answer)
	require.NotNil(t, entries[0].IsCorrect)
	require.True(t, *entries[0].IsCorrect)
	require.WithinDuration(t, time.Now(), stored.CreatedAt, time.Minute)
}
