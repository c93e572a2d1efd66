package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/algotrons/quiz-api/internal/models"
)

type statsFixture struct {
	quizzes *memoryQuizRepo
	results *memoryResultRepo
	svc     StatisticsService
}

func newStatsFixture(t *testing.T, cache *redis.Client) statsFixture {
	t.Helper()

	quizzes := newMemoryQuizRepo()
	results := newMemoryResultRepo()
	quizzes.seed(models.Quiz{ID: 1, Name: "Go Basics", QuestionCount: 2})

	svc := NewStatisticsService(results, quizzes, cache, time.Minute, testLogger())

	return statsFixture{quizzes: quizzes, results: results, svc: svc}
}

func (f statsFixture) seedResult(userID uint, total float64, entries []models.AnswerEntry) {
	result := models.Result{QuizID: 1, UserID: userID, TotalMarksGot: total, CreatedAt: time.Now()}
	result.SetAnswers(entries)
	f.results.seed(result)
}

func boolPtr(v bool) *bool {
	return &v
}

func TestStatisticsServiceQuestionStats(t *testing.T) {
	fixture := newStatsFixture(t, nil)

	fixture.seedResult(1, 2, []models.AnswerEntry{
		{QuestionID: 1, Answer: "A", UserAnswer: strPtr("A"), IsCorrect: boolPtr(true)},
		{QuestionID: 2, Answer: "B", UserAnswer: strPtr("C"), IsCorrect: boolPtr(false)},
	})
	fixture.seedResult(2, 4, []models.AnswerEntry{
		{QuestionID: 1, Answer: "A", UserAnswer: strPtr("A"), IsCorrect: boolPtr(true)},
		{QuestionID: 2, Answer: "B", UserAnswer: strPtr("B"), IsCorrect: boolPtr(true)},
	})
	fixture.seedResult(3, 0, []models.AnswerEntry{
		{QuestionID: 2, Answer: "B"},
	})

	stats, err := fixture.svc.QuestionStats(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	require.Equal(t, uint(1), stats[0].QuestionID)
	require.Equal(t, 2, stats[0].TotalAnswers)
	require.Equal(t, 2, stats[0].CorrectAnswers)
	require.InDelta(t, 100.0, stats[0].PercentCorrect, 0.0001)

	// The unattempted entry still counts toward the total but never toward
	// correct answers.
	require.Equal(t, uint(2), stats[1].QuestionID)
	require.Equal(t, 3, stats[1].TotalAnswers)
	require.Equal(t, 1, stats[1].CorrectAnswers)
	require.InDelta(t, 33.333, stats[1].PercentCorrect, 0.01)

	for _, entry := range stats {
		require.GreaterOrEqual(t, entry.PercentCorrect, 0.0)
		require.LessOrEqual(t, entry.PercentCorrect, 100.0)
	}
}

func TestStatisticsServiceQuestionStatsEmptyQuiz(t *testing.T) {
	fixture := newStatsFixture(t, nil)

	stats, err := fixture.svc.QuestionStats(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, stats)
}

func TestStatisticsServiceQuizStats(t *testing.T) {
	fixture := newStatsFixture(t, nil)
	fixture.seedResult(1, 7, nil)
	fixture.seedResult(2, 3, nil)

	stats, err := fixture.svc.QuizStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, stats.TotalSubmissions)
	require.NotNil(t, stats.HighestMark)
	require.NotNil(t, stats.AverageMark)
	require.InDelta(t, 7.0, *stats.HighestMark, 0.0001)
	require.InDelta(t, 5.0, *stats.AverageMark, 0.0001)
}

func TestStatisticsServiceQuizStatsEmpty(t *testing.T) {
	fixture := newStatsFixture(t, nil)

	stats, err := fixture.svc.QuizStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalSubmissions)
	require.Nil(t, stats.HighestMark)
	require.Nil(t, stats.AverageMark)
}

func TestStatisticsServiceQuizStatsUnknownQuiz(t *testing.T) {
	fixture := newStatsFixture(t, nil)

	_, err := fixture.svc.QuizStats(context.Background(), 42)
	require.ErrorIs(t, err, ErrQuizNotFound)
}

func TestStatisticsServiceQuizStatsCaching(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	fixture := newStatsFixture(t, redisClient)
	fixture.seedResult(1, 10, nil)

	first, err := fixture.svc.QuizStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 1, first.TotalSubmissions)

	fixture.seedResult(2, 20, nil)

	cached, err := fixture.svc.QuizStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, first, cached)

	mini.FastForward(2 * time.Minute)

	fresh, err := fixture.svc.QuizStats(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 2, fresh.TotalSubmissions)
	require.InDelta(t, 20.0, *fresh.HighestMark, 0.0001)
}
