package ports

import "context"

// Transactor runs fn inside a single unit of work. Repositories called with
// the ctx passed to fn take part in that unit. The unit commits when fn
// returns nil and rolls back otherwise. Nested calls join the outer unit.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
