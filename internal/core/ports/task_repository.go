package ports

import (
	"context"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// TaskRepository defines persistence operations for tasks.
type TaskRepository interface {
	// Create inserts t and sets its ID. A missing owner surfaces as a
	// validation error wrapping domain.ErrUserDoesNotExist.
	Create(ctx context.Context, t *domain.Task) error
	FindByID(ctx context.Context, id int64) (*domain.Task, error)
	// ListByUser returns the tasks of userID ordered by ID.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error)
	// Update persists Status and ModifiedAt of t.
	Update(ctx context.Context, t *domain.Task) error
}
