package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/observability"
	"github.com/algotrons/quiz-api/internal/pagination"
	"github.com/algotrons/quiz-api/internal/repository"
)

// AttemptPolicy names which of a user's attempts a rank lookup refers to.
// A user may hold several attempts per quiz, so "my rank" is ambiguous
// without one.
type AttemptPolicy string

const (
	// AttemptBest selects the user's highest-scoring attempt.
	AttemptBest AttemptPolicy = "best"
	// AttemptLatest selects the user's most recent attempt.
	AttemptLatest AttemptPolicy = "latest"
)

// ParseAttemptPolicy validates a caller-supplied policy name.
func ParseAttemptPolicy(raw string) (AttemptPolicy, error) {
	switch AttemptPolicy(raw) {
	case AttemptBest:
		return AttemptBest, nil
	case AttemptLatest:
		return AttemptLatest, nil
	default:
		return "", invalidInputf("unknown attempt policy %q, want %q or %q", raw, AttemptBest, AttemptLatest)
	}
}

// RankingService computes dense rankings over the live result set of a quiz.
// Ranks are recomputed from the store on every call; nothing rank-related is
// persisted, so a new submission can shift previously reported ranks on the
// next read.
type RankingService interface {
	Leaderboard(ctx context.Context, quizID uint, page, pageSize int) (dto.LeaderboardResponse, error)
	ResultRank(ctx context.Context, quizID, resultID uint) (dto.RankResponse, error)
	UserRank(ctx context.Context, quizID, userID uint, policy AttemptPolicy) (dto.RankResponse, error)
}

type rankingService struct {
	results  repository.ResultRepository
	quizzes  repository.QuizRepository
	users    repository.UserRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewRankingService constructs the ranking engine. The Redis client is
// optional; without it every read recomputes from the result store.
func NewRankingService(results repository.ResultRepository, quizzes repository.QuizRepository, users repository.UserRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) RankingService {
	return &rankingService{
		results:  results,
		quizzes:  quizzes,
		users:    users,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "ranking_service").Logger(),
	}
}

// rankedResult pairs a stored attempt with its dense rank.
type rankedResult struct {
	result models.Result
	rank   int
}

// rankResults orders attempts by total marks descending and assigns dense
// ranks: tied scores share a rank and the next distinct score gets the
// previous rank plus one. Display order among ties is submission time
// ascending, id as the final tiebreak for full determinism.
func rankResults(results []models.Result) []rankedResult {
	ordered := make([]models.Result, len(results))
	copy(ordered, results)

	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].TotalMarksGot != ordered[j].TotalMarksGot {
			return ordered[i].TotalMarksGot > ordered[j].TotalMarksGot
		}
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	ranked := make([]rankedResult, 0, len(ordered))
	rank := 0
	for i, result := range ordered {
		if i == 0 || result.TotalMarksGot != ordered[i-1].TotalMarksGot {
			rank++
		}
		ranked = append(ranked, rankedResult{result: result, rank: rank})
	}

	return ranked
}

func (s *rankingService) Leaderboard(ctx context.Context, quizID uint, page, pageSize int) (dto.LeaderboardResponse, error) {
	if pageSize <= 0 {
		return dto.LeaderboardResponse{}, invalidInputf("page size must be positive, got %d", pageSize)
	}

	entries, err := s.leaderboardEntries(ctx, quizID)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	window, err := pagination.Paginate(entries, page, pageSize)
	if err != nil {
		return dto.LeaderboardResponse{}, invalidInputf("%v", err)
	}

	return dto.LeaderboardResponse{
		QuizID:      quizID,
		Entries:     window.Items,
		CurrentPage: window.CurrentPage,
		TotalPages:  window.TotalPages,
		Total:       window.Total,
	}, nil
}

func (s *rankingService) ResultRank(ctx context.Context, quizID, resultID uint) (dto.RankResponse, error) {
	result, err := s.results.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RankResponse{}, ErrResultNotFound
		}
		return dto.RankResponse{}, err
	}

	if result.QuizID != quizID {
		return dto.RankResponse{}, invalidInputf("result %d does not belong to quiz %d", resultID, quizID)
	}

	ranked, err := s.rankedResults(ctx, quizID)
	if err != nil {
		return dto.RankResponse{}, err
	}

	for _, entry := range ranked {
		if entry.result.ID == resultID {
			return dto.RankResponse{Rank: entry.rank, Result: dto.NewResultResponse(result)}, nil
		}
	}

	// The attempt exists but the ranking snapshot missed it; a concurrent
	// delete of the quiz is the only path here.
	return dto.RankResponse{}, ErrResultNotFound
}

func (s *rankingService) UserRank(ctx context.Context, quizID, userID uint, policy AttemptPolicy) (dto.RankResponse, error) {
	if policy != AttemptBest && policy != AttemptLatest {
		return dto.RankResponse{}, invalidInputf("attempt policy is required when looking up rank by user")
	}

	ranked, err := s.rankedResults(ctx, quizID)
	if err != nil {
		return dto.RankResponse{}, err
	}

	var chosen *rankedResult
	for i := range ranked {
		if ranked[i].result.UserID != userID {
			continue
		}

		switch policy {
		case AttemptBest:
			// Ranked order is score-descending, so the first match is
			// the best attempt.
			if chosen == nil {
				chosen = &ranked[i]
			}
		case AttemptLatest:
			if chosen == nil || ranked[i].result.CreatedAt.After(chosen.result.CreatedAt) {
				chosen = &ranked[i]
			}
		}
	}

	if chosen == nil {
		return dto.RankResponse{}, ErrResultNotFound
	}

	return dto.RankResponse{Rank: chosen.rank, Result: dto.NewResultResponse(chosen.result)}, nil
}

// rankedResults loads the quiz's full result set and ranks it.
func (s *rankingService) rankedResults(ctx context.Context, quizID uint) ([]rankedResult, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	results, err := s.results.List(ctx, repository.ResultFilter{QuizID: &quizID})
	if err != nil {
		return nil, err
	}

	return rankResults(results), nil
}

// leaderboardEntries produces the full ranked sequence joined with user
// display names, serving from cache when a fresh copy exists.
func (s *rankingService) leaderboardEntries(ctx context.Context, quizID uint) ([]dto.LeaderboardEntry, error) {
	cacheKey := fmt.Sprintf("leaderboard:quiz:%d", quizID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var entries []dto.LeaderboardEntry
			if unmarshalErr := json.Unmarshal([]byte(cached), &entries); unmarshalErr == nil {
				observability.RankingCache().WithLabelValues("hit").Inc()
				return entries, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
		observability.RankingCache().WithLabelValues("miss").Inc()
	}

	ranked, err := s.rankedResults(ctx, quizID)
	if err != nil {
		return nil, err
	}

	names, err := s.displayNames(ctx, ranked)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(ranked))
	for _, item := range ranked {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:          item.rank,
			ResultID:      item.result.ID,
			QuizID:        item.result.QuizID,
			UserID:        item.result.UserID,
			UserName:      names[item.result.UserID],
			TotalMarksGot: item.result.TotalMarksGot,
			RightAnswers:  item.result.RightAnswerCount,
			WrongAnswers:  item.result.WrongAnswerCount,
			Attempted:     item.result.QuestionAttempted,
			SubmittedAt:   item.result.CreatedAt,
		})
	}

	if s.cache != nil {
		if payload, err := json.Marshal(entries); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return entries, nil
}

func (s *rankingService) displayNames(ctx context.Context, ranked []rankedResult) (map[uint]string, error) {
	ids := make([]uint, 0, len(ranked))
	seen := make(map[uint]struct{}, len(ranked))
	for _, item := range ranked {
		if _, ok := seen[item.result.UserID]; ok {
			continue
		}
		seen[item.result.UserID] = struct{}{}
		ids = append(ids, item.result.UserID)
	}

	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	names := make(map[uint]string, len(users))
	for _, user := range users {
		names[user.ID] = user.FullName
	}

	return names, nil
}
