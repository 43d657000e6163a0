package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrTaskNotFound = errors.New("task not found")

	// ErrValidation is the parent of every input rule violation. Callers
	// match it with errors.Is and surface the full message to the client.
	ErrValidation       = errors.New("validation failed")
	ErrUserDoesNotExist = errors.New("user does not exist")
	ErrInvalidStatus    = errors.New("invalid status")

	// ErrConstraintViolation marks a write rejected by a store integrity
	// constraint (check, not-null, foreign key).
	ErrConstraintViolation = errors.New("constraint violation")
)

// Invalid wraps reason as a validation failure.
func Invalid(reason error) error {
	return fmt.Errorf("%w: %w", ErrValidation, reason)
}

// Invalidf builds a validation failure from a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func invalidStatus(entity EntityKind, v string) error {
	return fmt.Errorf("%w: %w %q for %s", ErrValidation, ErrInvalidStatus, v, entity)
}
