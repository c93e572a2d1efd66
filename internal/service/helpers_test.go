package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(v float64) *float64 {
	return &v
}

type memoryQuizRepo struct {
	quizzes map[uint]models.Quiz
	nextID  uint
}

func newMemoryQuizRepo() *memoryQuizRepo {
	return &memoryQuizRepo{quizzes: make(map[uint]models.Quiz), nextID: 1}
}

func (m *memoryQuizRepo) List(ctx context.Context) ([]models.Quiz, error) {
	results := make([]models.Quiz, 0, len(m.quizzes))
	for _, quiz := range m.quizzes {
		results = append(results, quiz)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryQuizRepo) GetByID(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := m.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	// Only GetWithQuestions loads the bank, same as the gorm repository.
	quiz.Questions = nil
	return quiz, nil
}

func (m *memoryQuizRepo) GetWithQuestions(ctx context.Context, id uint) (models.Quiz, error) {
	quiz, ok := m.quizzes[id]
	if !ok {
		return models.Quiz{}, gorm.ErrRecordNotFound
	}
	return quiz, nil
}

func (m *memoryQuizRepo) Create(ctx context.Context, quiz *models.Quiz) error {
	quiz.ID = m.nextID
	quiz.CreatedAt = time.Now()
	quiz.UpdatedAt = time.Now()
	m.quizzes[m.nextID] = *quiz
	m.nextID++
	return nil
}

func (m *memoryQuizRepo) Update(ctx context.Context, quiz *models.Quiz) error {
	stored, ok := m.quizzes[quiz.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	quiz.UpdatedAt = time.Now()
	// Saving the quiz row leaves the question rows untouched.
	next := *quiz
	next.Questions = stored.Questions
	m.quizzes[quiz.ID] = next
	return nil
}

func (m *memoryQuizRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := m.quizzes[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.quizzes, id)
	return nil
}

func (m *memoryQuizRepo) seed(quiz models.Quiz) models.Quiz {
	if quiz.ID == 0 {
		quiz.ID = m.nextID
	}
	if quiz.ID >= m.nextID {
		m.nextID = quiz.ID + 1
	}
	m.quizzes[quiz.ID] = quiz
	return quiz
}

type memoryQuestionRepo struct {
	questions map[uint]models.Question
	nextID    uint
}

func newMemoryQuestionRepo() *memoryQuestionRepo {
	return &memoryQuestionRepo{questions: make(map[uint]models.Question), nextID: 1}
}

func (m *memoryQuestionRepo) ListByQuiz(ctx context.Context, quizID uint) ([]models.Question, error) {
	results := make([]models.Question, 0)
	for _, question := range m.questions {
		if question.QuizID == quizID {
			results = append(results, question)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].ID < results[j].ID })
	return results, nil
}

func (m *memoryQuestionRepo) GetByID(ctx context.Context, id uint) (models.Question, error) {
	question, ok := m.questions[id]
	if !ok {
		return models.Question{}, gorm.ErrRecordNotFound
	}
	return question, nil
}

func (m *memoryQuestionRepo) CountByQuiz(ctx context.Context, quizID uint) (int64, error) {
	var count int64
	for _, question := range m.questions {
		if question.QuizID == quizID {
			count++
		}
	}
	return count, nil
}

func (m *memoryQuestionRepo) CreateBatch(ctx context.Context, questions []models.Question) error {
	for i := range questions {
		questions[i].ID = m.nextID
		m.questions[m.nextID] = questions[i]
		m.nextID++
	}
	return nil
}

func (m *memoryQuestionRepo) UpdateBatch(ctx context.Context, quizID uint, questions []models.Question) error {
	for id, question := range m.questions {
		if question.QuizID == quizID {
			delete(m.questions, id)
		}
	}
	for i := range questions {
		if questions[i].ID == 0 {
			questions[i].ID = m.nextID
			m.nextID++
		}
		questions[i].QuizID = quizID
		m.questions[questions[i].ID] = questions[i]
	}
	return nil
}

func (m *memoryQuestionRepo) seed(question models.Question) models.Question {
	if question.ID == 0 {
		question.ID = m.nextID
	}
	if question.ID >= m.nextID {
		m.nextID = question.ID + 1
	}
	m.questions[question.ID] = question
	return question
}

type memoryResultRepo struct {
	results map[uint]models.Result
	nextID  uint
}

func newMemoryResultRepo() *memoryResultRepo {
	return &memoryResultRepo{results: make(map[uint]models.Result), nextID: 1}
}

func (m *memoryResultRepo) List(ctx context.Context, filter repository.ResultFilter) ([]models.Result, error) {
	results := make([]models.Result, 0)
	for _, result := range m.results {
		if filter.QuizID != nil && result.QuizID != *filter.QuizID {
			continue
		}
		if filter.UserID != nil && result.UserID != *filter.UserID {
			continue
		}
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

func (m *memoryResultRepo) GetByID(ctx context.Context, id uint) (models.Result, error) {
	result, ok := m.results[id]
	if !ok {
		return models.Result{}, gorm.ErrRecordNotFound
	}
	return result, nil
}

func (m *memoryResultRepo) Create(ctx context.Context, result *models.Result) error {
	result.ID = m.nextID
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now()
	}
	m.results[m.nextID] = *result
	m.nextID++
	return nil
}

func (m *memoryResultRepo) seed(result models.Result) models.Result {
	if result.ID == 0 {
		result.ID = m.nextID
	}
	if result.ID >= m.nextID {
		m.nextID = result.ID + 1
	}
	m.results[result.ID] = result
	return result
}

type memoryUserRepo struct {
	users map[uint]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[uint]models.User)}
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id uint) (models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) ListByRole(ctx context.Context, role string) ([]models.User, error) {
	results := make([]models.User, 0)
	for _, user := range m.users {
		if user.Role == role {
			results = append(results, user)
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].CreatedAt.After(results[j].CreatedAt) })
	return results, nil
}

func (m *memoryUserRepo) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	results := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			results = append(results, user)
		}
	}
	return results, nil
}

func (m *memoryUserRepo) seed(user models.User) models.User {
	m.users[user.ID] = user
	return user
}

type memoryPaymentRepo struct {
	payments []models.QuizPayment
	nextID   uint
}

func newMemoryPaymentRepo() *memoryPaymentRepo {
	return &memoryPaymentRepo{nextID: 1}
}

func (m *memoryPaymentRepo) Create(ctx context.Context, payment *models.QuizPayment) error {
	payment.ID = m.nextID
	payment.CreatedAt = time.Now()
	m.payments = append(m.payments, *payment)
	m.nextID++
	return nil
}

func (m *memoryPaymentRepo) FindCompleted(ctx context.Context, quizID, userID uint) (models.QuizPayment, error) {
	for _, payment := range m.payments {
		if payment.QuizID == quizID && payment.UserID == userID && payment.Completed() {
			return payment, nil
		}
	}
	return models.QuizPayment{}, gorm.ErrRecordNotFound
}
