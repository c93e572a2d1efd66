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
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/repository"
)

// StatisticsService aggregates per-question correctness rates and quiz-wide
// score summaries from the stored answer sheets. Aggregation runs over an
// in-memory snapshot of the result set, so it is independent of the storage
// engine's query language.
type StatisticsService interface {
	QuestionStats(ctx context.Context, quizID uint) ([]dto.QuestionStatsEntry, error)
	QuizStats(ctx context.Context, quizID uint) (dto.QuizStatsResponse, error)
}

type statisticsService struct {
	results  repository.ResultRepository
	quizzes  repository.QuizRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
}

// NewStatisticsService constructs the aggregator.
func NewStatisticsService(results repository.ResultRepository, quizzes repository.QuizRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) StatisticsService {
	return &statisticsService{
		results:  results,
		quizzes:  quizzes,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "statistics_service").Logger(),
		tracer:   otel.Tracer("github.com/algotrons/quiz-api/internal/service/statistics"),
	}
}

func (s *statisticsService) QuestionStats(ctx context.Context, quizID uint) ([]dto.QuestionStatsEntry, error) {
	ctx, span := s.tracer.Start(ctx, "statistics.question_stats",
		trace.WithAttributes(attribute.Int64("quiz.id", int64(quizID))))
	defer span.End()

	results, err := s.quizResults(ctx, quizID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	type counts struct {
		total   int
		correct int
	}
	perQuestion := map[uint]*counts{}

	for _, result := range results {
		for _, entry := range result.Answers() {
			c, ok := perQuestion[entry.QuestionID]
			if !ok {
				c = &counts{}
				perQuestion[entry.QuestionID] = c
			}
			c.total++
			if entry.IsCorrect != nil && *entry.IsCorrect {
				c.correct++
			}
		}
	}

	ids := make([]uint, 0, len(perQuestion))
	for id := range perQuestion {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	stats := make([]dto.QuestionStatsEntry, 0, len(ids))
	for _, id := range ids {
		c := perQuestion[id]
		percent := 0.0
		if c.total > 0 {
			percent = 100 * float64(c.correct) / float64(c.total)
		}
		stats = append(stats, dto.QuestionStatsEntry{
			QuestionID:     id,
			TotalAnswers:   c.total,
			CorrectAnswers: c.correct,
			PercentCorrect: percent,
		})
	}

	span.SetAttributes(attribute.Int("statistics.question_count", len(stats)))

	return stats, nil
}

func (s *statisticsService) QuizStats(ctx context.Context, quizID uint) (dto.QuizStatsResponse, error) {
	ctx, span := s.tracer.Start(ctx, "statistics.quiz_stats",
		trace.WithAttributes(attribute.Int64("quiz.id", int64(quizID))))
	defer span.End()

	cacheKey := fmt.Sprintf("stats:quiz:%d", quizID)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.QuizStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read stats cache")
		}
	}

	results, err := s.quizResults(ctx, quizID)
	if err != nil {
		span.RecordError(err)
		return dto.QuizStatsResponse{}, err
	}

	response := dto.QuizStatsResponse{
		QuizID:           quizID,
		TotalSubmissions: len(results),
	}

	// Highest and average stay nil for an empty quiz; zero would be a lie.
	if len(results) > 0 {
		highest := results[0].TotalMarksGot
		sum := 0.0
		for _, result := range results {
			if result.TotalMarksGot > highest {
				highest = result.TotalMarksGot
			}
			sum += result.TotalMarksGot
		}
		average := sum / float64(len(results))
		response.HighestMark = &highest
		response.AverageMark = &average
	}

	span.SetAttributes(attribute.Int("statistics.submission_count", len(results)))

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store stats cache")
			}
		}
	}

	return response, nil
}

func (s *statisticsService) quizResults(ctx context.Context, quizID uint) ([]models.Result, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}

	return s.results.List(ctx, repository.ResultFilter{QuizID: &quizID})
}
