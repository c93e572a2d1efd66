package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/repository"
)

// QuestionService manages a quiz's question bank. The whole set is created
// or replaced in one batch so the quiz's configured question count can be
// enforced up front.
type QuestionService interface {
	ListByQuiz(ctx context.Context, quizID uint) ([]dto.QuestionResponse, error)
	Get(ctx context.Context, id uint) (dto.QuestionResponse, error)
	CreateBatch(ctx context.Context, payload dto.QuestionBatchRequest) ([]dto.QuestionResponse, error)
	UpdateBatch(ctx context.Context, payload dto.QuestionBatchRequest) ([]dto.QuestionResponse, error)
}

type questionService struct {
	questions repository.QuestionRepository
	quizzes   repository.QuizRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuestionService constructs a QuestionService instance.
func NewQuestionService(questions repository.QuestionRepository, quizzes repository.QuizRepository, validate *validator.Validate, logger zerolog.Logger) QuestionService {
	return &questionService{
		questions: questions,
		quizzes:   quizzes,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "question_service").Logger(),
	}
}

func (s *questionService) ListByQuiz(ctx context.Context, quizID uint) ([]dto.QuestionResponse, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	questions, err := s.questions.ListByQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) Get(ctx context.Context, id uint) (dto.QuestionResponse, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuestionResponse{}, ErrQuestionNotFound
		}
		return dto.QuestionResponse{}, err
	}

	return dto.NewQuestionResponse(question), nil
}

func (s *questionService) CreateBatch(ctx context.Context, payload dto.QuestionBatchRequest) ([]dto.QuestionResponse, error) {
	quiz, err := s.loadQuizForBatch(ctx, payload)
	if err != nil {
		return nil, err
	}

	existing, err := s.questions.CountByQuiz(ctx, quiz.ID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, invalidInputf("quiz %d already has a question set, use update", quiz.ID)
	}

	questions, err := s.buildQuestions(quiz.ID, payload.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.questions.CreateBatch(ctx, questions); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Int("count", len(questions)).Msg("question set created")

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) UpdateBatch(ctx context.Context, payload dto.QuestionBatchRequest) ([]dto.QuestionResponse, error) {
	quiz, err := s.loadQuizForBatch(ctx, payload)
	if err != nil {
		return nil, err
	}

	questions, err := s.buildQuestions(quiz.ID, payload.Questions)
	if err != nil {
		return nil, err
	}

	if err := s.questions.UpdateBatch(ctx, quiz.ID, questions); err != nil {
		return nil, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Int("count", len(questions)).Msg("question set updated")

	return dto.NewQuestionResponseSlice(questions), nil
}

func (s *questionService) loadQuizForBatch(ctx context.Context, payload dto.QuestionBatchRequest) (models.Quiz, error) {
	if err := s.validator.Struct(payload); err != nil {
		return models.Quiz{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, payload.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Quiz{}, ErrQuizNotFound
		}
		return models.Quiz{}, err
	}

	if len(payload.Questions) != quiz.QuestionCount {
		return models.Quiz{}, invalidInputf("quiz %d expects exactly %d questions, got %d",
			quiz.ID, quiz.QuestionCount, len(payload.Questions))
	}

	return quiz, nil
}

func (s *questionService) buildQuestions(quizID uint, inputs []dto.QuestionInput) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(inputs))
	for _, input := range inputs {
		text := strings.TrimSpace(s.sanitizer.Sanitize(input.Question))
		if text == "" {
			return nil, invalidInputf("question text empty after sanitization")
		}

		questions = append(questions, models.Question{
			ID:       input.ID,
			QuizID:   quizID,
			Question: text,
			OptionA:  strings.TrimSpace(s.sanitizer.Sanitize(input.OptionA)),
			OptionB:  strings.TrimSpace(s.sanitizer.Sanitize(input.OptionB)),
			OptionC:  strings.TrimSpace(s.sanitizer.Sanitize(input.OptionC)),
			OptionD:  strings.TrimSpace(s.sanitizer.Sanitize(input.OptionD)),
			Answer:   input.Answer,
		})
	}

	return questions, nil
}
