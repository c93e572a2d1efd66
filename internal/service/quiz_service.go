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
	"github.com/algotrons/quiz-api/internal/pagination"
	"github.com/algotrons/quiz-api/internal/repository"
)

// QuizService manages the quiz catalog.
type QuizService interface {
	List(ctx context.Context, query dto.QuizListQuery) (pagination.Window[dto.QuizResponse], error)
	Get(ctx context.Context, id uint) (dto.QuizDetailResponse, error)
	Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error)
	Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error)
	Delete(ctx context.Context, id uint) error
}

type quizService struct {
	quizzes   repository.QuizRepository
	validator *validator.Validate
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
}

// NewQuizService constructs a QuizService instance.
func NewQuizService(quizzes repository.QuizRepository, validate *validator.Validate, logger zerolog.Logger) QuizService {
	return &quizService{
		quizzes:   quizzes,
		validator: validate,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "quiz_service").Logger(),
	}
}

func (s *quizService) List(ctx context.Context, query dto.QuizListQuery) (pagination.Window[dto.QuizResponse], error) {
	quizzes, err := s.quizzes.List(ctx)
	if err != nil {
		return pagination.Window[dto.QuizResponse]{}, err
	}

	// Search filters before counting so totals reflect the filtered set.
	filtered := pagination.Filter(quizzes, query.Search, func(quiz models.Quiz) string {
		return quiz.Name
	})

	window, err := pagination.Paginate(dto.NewQuizResponseSlice(filtered), query.Page, query.PageSize)
	if err != nil {
		return pagination.Window[dto.QuizResponse]{}, invalidInputf("%v", err)
	}

	return window, nil
}

func (s *quizService) Get(ctx context.Context, id uint) (dto.QuizDetailResponse, error) {
	quiz, err := s.quizzes.GetWithQuestions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizDetailResponse{}, ErrQuizNotFound
		}
		return dto.QuizDetailResponse{}, err
	}

	return dto.QuizDetailResponse{
		QuizResponse: dto.NewQuizResponse(quiz),
		Questions:    dto.NewQuestionResponseSlice(quiz.Questions),
	}, nil
}

func (s *quizService) Create(ctx context.Context, payload dto.QuizCreateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	if payload.IsPaid && payload.Amount == nil {
		return dto.QuizResponse{}, invalidInputf("amount is required for paid quizzes")
	}

	name := strings.TrimSpace(s.sanitizer.Sanitize(payload.Name))
	if name == "" {
		return dto.QuizResponse{}, invalidInputf("quiz name empty after sanitization")
	}

	quiz := models.Quiz{
		Name:             name,
		QuestionCount:    payload.QuestionCount,
		RightMark:        payload.RightMark,
		NegativeMark:     payload.NegativeMark,
		TimeLimitMinutes: payload.TimeLimitMinutes,
		IsPaid:           payload.IsPaid,
		Amount:           payload.Amount,
	}

	if err := s.quizzes.Create(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Str("name", quiz.Name).Msg("quiz created")

	return dto.NewQuizResponse(quiz), nil
}

func (s *quizService) Update(ctx context.Context, id uint, payload dto.QuizUpdateRequest) (dto.QuizResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.QuizResponse{}, err
	}

	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.QuizResponse{}, ErrQuizNotFound
		}
		return dto.QuizResponse{}, err
	}

	if payload.Name != nil {
		name := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Name))
		if name == "" {
			return dto.QuizResponse{}, invalidInputf("quiz name empty after sanitization")
		}
		quiz.Name = name
	}
	if payload.QuestionCount != nil {
		quiz.QuestionCount = *payload.QuestionCount
	}
	if payload.RightMark != nil {
		quiz.RightMark = *payload.RightMark
	}
	if payload.NegativeMark != nil {
		quiz.NegativeMark = *payload.NegativeMark
	}
	if payload.TimeLimitMinutes != nil {
		quiz.TimeLimitMinutes = *payload.TimeLimitMinutes
	}
	if payload.IsPaid != nil {
		quiz.IsPaid = *payload.IsPaid
	}
	if payload.Amount != nil {
		quiz.Amount = payload.Amount
	}

	if quiz.IsPaid && quiz.Amount == nil {
		return dto.QuizResponse{}, invalidInputf("amount is required for paid quizzes")
	}

	if err := s.quizzes.Update(ctx, &quiz); err != nil {
		return dto.QuizResponse{}, err
	}

	s.logger.Info().Uint("quiz_id", quiz.ID).Msg("quiz updated")

	// Reload with the question set so the readiness flag reflects the bank.
	reloaded, err := s.quizzes.GetWithQuestions(ctx, quiz.ID)
	if err != nil {
		return dto.QuizResponse{}, err
	}

	return dto.NewQuizResponse(reloaded), nil
}

func (s *quizService) Delete(ctx context.Context, id uint) error {
	if err := s.quizzes.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}

	s.logger.Info().Uint("quiz_id", id).Msg("quiz deleted")

	return nil
}
