package ports

import (
	"context"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// CreateTaskInput carries the data needed to create a task.
type CreateTaskInput struct {
	UserID         int64
	Name           string
	Description    *string
	IdempotencyKey string
}

// CreateTaskResult is returned by CreateTask.
type CreateTaskResult struct {
	Task           *domain.Task
	AlreadyExisted bool
}

// TaskService defines use-case operations for tasks.
type TaskService interface {
	CreateTask(ctx context.Context, in CreateTaskInput) (*CreateTaskResult, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	ListUserTasks(ctx context.Context, userID int64) ([]*domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error)
	TaskHistory(ctx context.Context, id int64) ([]domain.StatusChange, error)
}
