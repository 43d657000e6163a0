package ports

import (
	"context"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

// UserFilter narrows a user listing. The zero value matches every user.
type UserFilter struct {
	ExcludeStatus domain.UserStatus // empty = no exclusion
	Status        domain.UserStatus // empty = any status
	PremiumOnly   bool
}

// Matches reports whether u passes the filter. Stores that cannot push the
// filter down to a query may use it directly.
func (f UserFilter) Matches(u *domain.User) bool {
	if f.ExcludeStatus != "" && u.Status == f.ExcludeStatus {
		return false
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.PremiumOnly && !u.Premium {
		return false
	}
	return true
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	// Create inserts u and sets its ID.
	Create(ctx context.Context, u *domain.User) error
	// FindByID returns domain.ErrUserNotFound when no row exists. Deleted
	// users are returned; filtering them is the caller's concern.
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// FindByIDForUpdate is FindByID holding a write lock on the row for the
	// rest of the transaction in ctx. Read-modify-write paths use it so a
	// concurrent change cannot be overwritten with a stale copy.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error)
	// List returns users matching filter ordered by ID.
	List(ctx context.Context, filter UserFilter) ([]*domain.User, error)
	// Update persists Status, Premium and ModifiedAt of u.
	Update(ctx context.Context, u *domain.User) error
}
