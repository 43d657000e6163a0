package ports

import (
	"context"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// AuditRepository stores the status change trail of users and tasks.
type AuditRepository interface {
	Record(ctx context.Context, change domain.StatusChange) error
	// History returns the changes of one entity, oldest first.
	History(ctx context.Context, entity domain.EntityKind, id int64) ([]domain.StatusChange, error)
}
