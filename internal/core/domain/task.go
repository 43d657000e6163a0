package domain

import (
	"time"
	"unicode/utf8"
)

const (
	MaxTaskNameLength        = 100
	MaxTaskDescriptionLength = 500
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskDone      TaskStatus = "done"
	TaskCancelled TaskStatus = "cancelled"
)

// TaskStatuses lists every valid task status in declaration order.
var TaskStatuses = []TaskStatus{TaskPending, TaskRunning, TaskDone, TaskCancelled}

// Valid reports whether s belongs to the task status domain.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskRunning, TaskDone, TaskCancelled:
		return true
	}
	return false
}

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(v string) (TaskStatus, error) {
	s := TaskStatus(v)
	if !s.Valid() {
		return "", invalidStatus(EntityTask, v)
	}
	return s, nil
}

// Task is a unit of work owned by a user. Tasks are never deleted.
type Task struct {
	ID          int64
	UserID      int64
	Name        string
	Description *string
	Status      TaskStatus
	CreatedAt   time.Time
	ModifiedAt  *time.Time
}

// NewTask builds an unsaved pending task created at the given instant.
func NewTask(userID int64, name string, description *string, createdAt time.Time) (*Task, error) {
	if name == "" {
		return nil, Invalidf("name is required")
	}
	if n := utf8.RuneCountInString(name); n > MaxTaskNameLength {
		return nil, Invalidf("name must be at most %d characters, got %d", MaxTaskNameLength, n)
	}
	if description != nil {
		if n := utf8.RuneCountInString(*description); n > MaxTaskDescriptionLength {
			return nil, Invalidf("description must be at most %d characters, got %d", MaxTaskDescriptionLength, n)
		}
	}
	return &Task{
		UserID:      userID,
		Name:        name,
		Description: description,
		Status:      TaskPending,
		CreatedAt:   createdAt,
	}, nil
}

// SetStatus moves the task to next and stamps ModifiedAt, which always
// lands strictly after CreatedAt.
func (t *Task) SetStatus(next TaskStatus, at time.Time) error {
	if !next.Valid() {
		return invalidStatus(EntityTask, string(next))
	}
	if !at.After(t.CreatedAt) {
		at = t.CreatedAt.Add(time.Microsecond)
	}
	t.Status = next
	t.ModifiedAt = &at
	return nil
}
