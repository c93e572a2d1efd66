package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/models"
)

// ResultFilter allows narrowing result queries.
type ResultFilter struct {
	QuizID *uint
	UserID *uint
}

// ResultRepository defines data operations for scored attempts. Results are
// append-only: there is deliberately no update or single-row delete here.
type ResultRepository interface {
	List(ctx context.Context, filter ResultFilter) ([]models.Result, error)
	GetByID(ctx context.Context, id uint) (models.Result, error)
	Create(ctx context.Context, result *models.Result) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository instantiates the repository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Result{}).
		Preload("Quiz").
		Preload("User")
}

// List returns matching results ordered by creation time ascending, the
// stable order the ranking engine relies on for tie display.
func (r *resultRepository) List(ctx context.Context, filter ResultFilter) ([]models.Result, error) {
	query := r.baseQuery(ctx)

	if filter.QuizID != nil {
		query = query.Where("quiz_id = ?", *filter.QuizID)
	}

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var results []models.Result
	if err := query.Order("created_at ASC, id ASC").Find(&results).Error; err != nil {
		return nil, err
	}

	return results, nil
}

func (r *resultRepository) GetByID(ctx context.Context, id uint) (models.Result, error) {
	var result models.Result
	if err := r.baseQuery(ctx).First(&result, id).Error; err != nil {
		return models.Result{}, err
	}

	return result, nil
}

func (r *resultRepository) Create(ctx context.Context, result *models.Result) error {
	return r.db.WithContext(ctx).Create(result).Error
}
