package ports

import (
	"context"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// CreateUserInput carries the data needed to register a user.
type CreateUserInput struct {
	Name           string
	Email          string
	Premium        bool
	Status         domain.UserStatus // empty = active
	IdempotencyKey string
}

// CreateUserResult is returned by CreateUser.
type CreateUserResult struct {
	User *domain.User
	// AlreadyExisted is true when the Idempotency-Key matched an earlier create.
	AlreadyExisted bool
}

// UserService defines use-case operations for users.
type UserService interface {
	CreateUser(ctx context.Context, in CreateUserInput) (*CreateUserResult, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	ListActiveUsers(ctx context.Context) ([]*domain.User, error)
	ListPremiumActiveUsers(ctx context.Context) ([]*domain.User, error)
	UpdateUserStatus(ctx context.Context, id int64, status domain.UserStatus) (*domain.User, error)
	UpgradeToPremium(ctx context.Context, id int64) (*domain.User, error)
	UserHistory(ctx context.Context, id int64) ([]domain.StatusChange, error)
}
