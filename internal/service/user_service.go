package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/algotrons/quiz-api/internal/dto"
	"github.com/algotrons/quiz-api/internal/models"
	"github.com/algotrons/quiz-api/internal/pagination"
	"github.com/algotrons/quiz-api/internal/repository"
)

// UserService exposes the account listings the admin panel needs.
type UserService interface {
	List(ctx context.Context, query dto.UserListQuery) (pagination.Window[dto.UserResponse], error)
	Get(ctx context.Context, id uint) (dto.UserResponse, error)
}

type userService struct {
	users  repository.UserRepository
	logger zerolog.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(users repository.UserRepository, logger zerolog.Logger) UserService {
	return &userService{
		users:  users,
		logger: logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) List(ctx context.Context, query dto.UserListQuery) (pagination.Window[dto.UserResponse], error) {
	users, err := s.users.ListByRole(ctx, models.RoleUser)
	if err != nil {
		return pagination.Window[dto.UserResponse]{}, err
	}

	filtered := pagination.Filter(users, query.Search, func(user models.User) string {
		return user.FullName
	})

	window, err := pagination.Paginate(dto.NewUserResponseSlice(filtered), query.Page, query.PageSize)
	if err != nil {
		return pagination.Window[dto.UserResponse]{}, invalidInputf("%v", err)
	}

	return window, nil
}

func (s *userService) Get(ctx context.Context, id uint) (dto.UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}
