package domain

import "time"

// EntityKind names the aggregate a StatusChange belongs to.
type EntityKind string

const (
	EntityUser EntityKind = "user"
	EntityTask EntityKind = "task"
)

const (
	FieldStatus  = "status"
	FieldPremium = "premium"
)

// StatusChange is one audit entry recorded after a committed mutation.
// From is empty for the entry written at creation.
type StatusChange struct {
	Entity    EntityKind
	EntityID  int64
	Field     string
	From      string
	To        string
	ChangedAt time.Time
}
