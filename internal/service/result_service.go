package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/pagination"
	"github.com/algotrons/quiz-api/internal/repository"
)

// ResultService serves a user's own attempt history and single stored
// attempts. Rank lookups live in RankingService.
type ResultService interface {
	AttemptedResults(ctx context.Context, userID uint, page, pageSize int) (pagination.Window[dto.ResultResponse], error)
	Get(ctx context.Context, id uint) (dto.ResultResponse, error)
}

type resultService struct {
	results repository.ResultRepository
	logger  zerolog.Logger
}

// NewResultService constructs a ResultService instance.
func NewResultService(results repository.ResultRepository, logger zerolog.Logger) ResultService {
	return &resultService{
		results: results,
		logger:  logger.With().Str("component", "result_service").Logger(),
	}
}

func (s *resultService) AttemptedResults(ctx context.Context, userID uint, page, pageSize int) (pagination.Window[dto.ResultResponse], error) {
	results, err := s.results.List(ctx, repository.ResultFilter{UserID: &userID})
	if err != nil {
		return pagination.Window[dto.ResultResponse]{}, err
	}

	// Most recent attempt first.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	window, err := pagination.Paginate(dto.NewResultResponseSlice(results), page, pageSize)
	if err != nil {
		return pagination.Window[dto.ResultResponse]{}, invalidInputf("%v", err)
	}

	return window, nil
}

func (s *resultService) Get(ctx context.Context, id uint) (dto.ResultResponse, error) {
	result, err := s.results.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ResultResponse{}, ErrResultNotFound
		}
		return dto.ResultResponse{}, err
	}

	return dto.NewResultResponse(result), nil
}
