package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/observability"
	"github.com/algotrons/quiz-api/internal/repository"
)

// ScoringService turns a set of submitted answers into exactly one scored,
// durable result. Calls are not idempotent: every attempt is preserved.
type ScoringService interface {
	Submit(ctx context.Context, userID uint, payload dto.SubmitQuizRequest) (dto.ResultResponse, error)
}

type scoringService struct {
	quizzes   repository.QuizRepository
	questions repository.QuestionRepository
	results   repository.ResultRepository
	payments  repository.PaymentRepository
	validator *validator.Validate
	events    *nats.Conn
	subject   string
	logger    zerolog.Logger
	now       func() time.Time
}

// submissionEvent is published after every successful score.
type submissionEvent struct {
	EventID       string    `json:"event_id"`
	ResultID      uint      `json:"result_id"`
	QuizID        uint      `json:"quiz_id"`
	UserID        uint      `json:"user_id"`
	TotalMarksGot float64   `json:"total_marks_got"`
	ScoredAt      time.Time `json:"scored_at"`
}

// NewScoringService constructs the scoring engine.
func NewScoringService(quizzes repository.QuizRepository, questions repository.QuestionRepository, results repository.ResultRepository, payments repository.PaymentRepository, validate *validator.Validate, events *nats.Conn, subject string, logger zerolog.Logger) ScoringService {
	return &scoringService{
		quizzes:   quizzes,
		questions: questions,
		results:   results,
		payments:  payments,
		validator: validate,
		events:    events,
		subject:   subject,
		logger:    logger.With().Str("component", "scoring_service").Logger(),
		now:       time.Now,
	}
}

func (s *scoringService) Submit(ctx context.Context, userID uint, payload dto.SubmitQuizRequest) (dto.ResultResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ResultResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrQuizNotFound
		}
		return dto.ResultResponse{}, err
	}

	questions, err := s.questions.ListByQuiz(ctx, quiz.ID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	if len(questions) != quiz.QuestionCount {
		return dto.ResultResponse{}, ErrQuizNotReady
	}

	if quiz.IsPaid {
		if _, err := s.payments.FindCompleted(ctx, quiz.ID, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				observability.SubmissionsScored().WithLabelValues("payment_required").Inc()
				return dto.ResultResponse{}, ErrPaymentRequired
			}
			return dto.ResultResponse{}, err
		}
	}

	entries, right, wrong, attempted, err := scoreAnswers(quiz.ID, questions, payload.Answers)
	if err != nil {
		observability.SubmissionsScored().WithLabelValues("rejected").Inc()
		return dto.ResultResponse{}, err
	}

	// NegativeMark is a magnitude and is always subtracted; a signed value
	// stored upstream must not flip the formula.
	total := float64(right)*quiz.RightMark - float64(wrong)*math.Abs(quiz.NegativeMark)

	if right+wrong > attempted || attempted > len(entries) {
		return dto.ResultResponse{}, integrityErrorf(
			"resolved counts exceed attempted: right=%d wrong=%d attempted=%d entries=%d",
			right, wrong, attempted, len(entries))
	}

	result := models.Result{
		QuizID:            quiz.ID,
		UserID:            userID,
		TotalMarksGot:     total,
		RightAnswerCount:  right,
		WrongAnswerCount:  wrong,
		QuestionAttempted: attempted,
		CreatedAt:         s.now(),
	}
	result.SetAnswers(entries)

	// The single durable write: the attempt either lands whole or not at all.
	if err := s.results.Create(ctx, &result); err != nil {
		return dto.ResultResponse{}, err
	}

	created, err := s.results.GetByID(ctx, result.ID)
	if err != nil {
		return dto.ResultResponse{}, err
	}

	observability.SubmissionsScored().WithLabelValues("scored").Inc()
	s.logger.Info().
		Uint("result_id", created.ID).
		Uint("quiz_id", quiz.ID).
		Uint("user_id", userID).
		Float64("total_marks", total).
		Msg("submission scored")

	s.publishEvent(created)

	return dto.NewResultResponse(created), nil
}

// scoreAnswers resolves every submitted answer against the quiz's question
// set. The canonical answer is snapshotted into each entry so the stored
// sheet survives later edits to the question bank. Any answer referencing a
// question outside the quiz, duplicating a question, or naming a non-existent
// option rejects the whole submission.
func scoreAnswers(quizID uint, questions []models.Question, answers []dto.SubmittedAnswer) ([]models.AnswerEntry, int, int, int, error) {
	byID := make(map[uint]models.Question, len(questions))
	for _, question := range questions {
		byID[question.ID] = question
	}

	seen := make(map[uint]struct{}, len(answers))
	entries := make([]models.AnswerEntry, 0, len(answers))
	right, wrong, attempted := 0, 0, 0

	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			return nil, 0, 0, 0, invalidInputf("question %d does not belong to quiz %d", answer.QuestionID, quizID)
		}
		if _, dup := seen[answer.QuestionID]; dup {
			return nil, 0, 0, 0, invalidInputf("question %d answered more than once", answer.QuestionID)
		}
		seen[answer.QuestionID] = struct{}{}

		entry := models.AnswerEntry{
			QuestionID: question.ID,
			Answer:     question.Answer,
		}

		if answer.UserAnswer != nil {
			selected := strings.ToUpper(strings.TrimSpace(*answer.UserAnswer))
			if !models.IsValidOption(selected) {
				return nil, 0, 0, 0, invalidInputf("answer %q for question %d is not one of the options", *answer.UserAnswer, question.ID)
			}

			attempted++
			correct := question.IsCorrect(selected)
			entry.UserAnswer = &selected
			entry.IsCorrect = &correct
			if correct {
				right++
			} else {
				wrong++
			}
		}

		entries = append(entries, entry)
	}

	return entries, right, wrong, attempted, nil
}

func (s *scoringService) publishEvent(result models.Result) {
	if s.events == nil || s.subject == "" {
		return
	}

	event := submissionEvent{
		EventID:       uuid.NewString(),
		ResultID:      result.ID,
		QuizID:        result.QuizID,
		UserID:        result.UserID,
		TotalMarksGot: result.TotalMarksGot,
		ScoredAt:      result.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode submission event")
		return
	}

	if err := s.events.Publish(s.subject, payload); err != nil {
		s.logger.Warn().Err(err).Str("subject", s.subject).Msg("failed to publish submission event")
	}
}
