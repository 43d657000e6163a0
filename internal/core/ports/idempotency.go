package ports

import "context"

// IdempotencyStore maps client supplied idempotency keys to the ID of the
// record first created with them. Scope separates users from tasks.
type IdempotencyStore interface {
	// Lookup returns the remembered ID and true when key was seen before.
	Lookup(ctx context.Context, scope, key string) (int64, bool, error)
	// Remember stores id under key unless the key is already taken.
	Remember(ctx context.Context, scope, key string, id int64) error
	// Forget drops key so the next Remember can take it.
	Forget(ctx context.Context, scope, key string) error
}
