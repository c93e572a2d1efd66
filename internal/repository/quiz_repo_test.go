package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/algotrons/quiz-api/internal/models"
)

func TestQuizRepositoryListLoadsQuestions(t *testing.T) {
	db := openTestDB(t)
	repo := NewQuizRepository(db)
	ctx := context.Background()

	quiz := models.Quiz{Name: "Go Basics", QuestionCount: 1, RightMark: 1, TimeLimitMinutes: 10}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&models.Question{
		QuizID:   quiz.ID,
		Question: "Q?",
		OptionA:  "a", OptionB: "b", OptionC: "c", OptionD: "d",
		Answer: "A",
	}).Error)

	listed, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.Len(t, listed[0].Questions, 1)
	require.True(t, listed[0].IsReady())
}
