package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/models"
)

// QuestionRepository defines data operations for the question bank.
type QuestionRepository interface {
	ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error)
	GetByID(ctx context.Context, id uint) (models.Question, error)
	CountByQuiz(ctx context.Context, quizID uint) (int64, error)
	CreateBatch(ctx context.Context, questions []models.Question) error
	UpdateBatch(ctx context.Context, quizID uint, questions []models.Question) error
}

type questionRepository struct {
	db *gorm.DB
}

// NewQuestionRepository instantiates the repository.
func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func (r *questionRepository) ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.WithContext(ctx).
		Where("quiz_id = ?", quizID).
		Order("id ASC").
		Find(&questions).Error; err != nil {
		return nil, err
	}

	return questions, nil
}

func (r *questionRepository) GetByID(ctx context.Context, id uint) (models.Question, error) {
	var question models.Question
	if err := r.db.WithContext(ctx).First(&question, id).Error; err != nil {
		return models.Question{}, err
	}

	return question, nil
}

func (r *questionRepository) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("quiz_id = ?", quizID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *questionRepository) CreateBatch(ctx context.Context, questions []models.Question) error {
	if len(questions) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Create(&questions).Error
}

func (r *questionRepository) UpdateBatch(ctx context.Context, quizID uint, questions []models.Question) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The incoming set is the quiz's entire bank, so rows not present in
		// it must go; a plain upsert would leave the old set alongside the
		// new one and break the configured question count.
		if err := tx.Where("quiz_id = ?", quizID).Delete(&models.Question{}).Error; err != nil {
			return err
		}

		if len(questions) == 0 {
			return nil
		}

		for i := range questions {
			questions[i].QuizID = quizID
		}

		return tx.Create(&questions).Error
	})
}
