package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/api/metrics"
	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

type TaskService struct {
	tx    ports.Transactor
	tasks ports.TaskRepository
	users ports.UserRepository
	audit recorder
	idem  replayer
	log   zerolog.Logger
	now   func() time.Time
}

// NewTaskService wires the task use cases. audit and idem may be nil.
func NewTaskService(
	tx ports.Transactor,
	tasks ports.TaskRepository,
	users ports.UserRepository,
	audit ports.AuditRepository,
	idem ports.IdempotencyStore,
	log zerolog.Logger,
) *TaskService {
	if audit == nil {
		audit = noopAudit{}
	}
	if idem == nil {
		idem = noopIdempotency{}
	}
	return &TaskService{
		tx:    tx,
		tasks: tasks,
		users: users,
		audit: recorder{audit: audit, log: log},
		idem:  replayer{store: idem, log: log},
		log:   log,
		now:   clock,
	}
}

// CreateTask creates a pending task for an existing, non-deleted user.
// A missing or deleted owner is a validation failure, not a lookup miss.
func (s *TaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*ports.CreateTaskResult, error) {
	if id, ok := s.idem.lookup(ctx, scopeTask, in.IdempotencyKey); ok {
		existing, err := s.tasks.FindByID(ctx, id)
		if err == nil {
			metrics.IdempotentReplaysTotal.WithLabelValues(scopeTask).Inc()
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Int64("task_id", id).Msg("idempotent replay")
			return &ports.CreateTaskResult{Task: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrTaskNotFound) {
			return nil, err
		}
		s.idem.forget(ctx, scopeTask, in.IdempotencyKey)
	}

	var t *domain.Task
	err := runTx(ctx, s.tx, "create_task", func(ctx context.Context) error {
		// The lock keeps the owner from being soft-deleted before the insert commits.
		owner, err := s.users.FindByIDForUpdate(ctx, in.UserID)
		if errors.Is(err, domain.ErrUserNotFound) || (err == nil && owner.IsDeleted()) {
			return domain.Invalid(domain.ErrUserDoesNotExist)
		}
		if err != nil {
			return err
		}
		if t, err = domain.NewTask(in.UserID, in.Name, in.Description, s.now()); err != nil {
			return err
		}
		return s.tasks.Create(ctx, t)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			s.log.Error().Err(err).Int64("user_id", in.UserID).Msg("failed to create task")
		}
		return nil, err
	}

	s.idem.remember(ctx, scopeTask, in.IdempotencyKey, t.ID)
	s.audit.record(ctx, domain.StatusChange{
		Entity:    domain.EntityTask,
		EntityID:  t.ID,
		Field:     domain.FieldStatus,
		To:        string(t.Status),
		ChangedAt: t.CreatedAt,
	})
	metrics.TasksCreatedTotal.Inc()
	s.log.Info().Int64("task_id", t.ID).Int64("user_id", t.UserID).Msg("task created")

	return &ports.CreateTaskResult{Task: t}, nil
}

func (s *TaskService) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// ListUserTasks returns every task of userID whatever the owner's status.
func (s *TaskService) ListUserTasks(ctx context.Context, userID int64) ([]*domain.Task, error) {
	return s.tasks.ListByUser(ctx, userID)
}

// UpdateTaskStatus sets the status of a task. Any status may follow any other.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id int64, status domain.TaskStatus) (*domain.Task, error) {
	var (
		t    *domain.Task
		from domain.TaskStatus
	)
	err := runTx(ctx, s.tx, "update_task_status", func(ctx context.Context) error {
		var err error
		if t, err = s.tasks.FindByID(ctx, id); err != nil {
			return err
		}
		from = t.Status
		if err = t.SetStatus(status, s.now()); err != nil {
			return err
		}
		return s.tasks.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, domain.StatusChange{
		Entity:    domain.EntityTask,
		EntityID:  t.ID,
		Field:     domain.FieldStatus,
		From:      string(from),
		To:        string(t.Status),
		ChangedAt: *t.ModifiedAt,
	})
	metrics.StatusUpdatesTotal.WithLabelValues(string(domain.EntityTask), string(t.Status)).Inc()
	s.log.Info().Int64("task_id", t.ID).Str("from", string(from)).Str("to", string(t.Status)).Msg("task status updated")

	return t, nil
}

// TaskHistory returns the recorded status changes of a task, oldest first.
func (s *TaskService) TaskHistory(ctx context.Context, id int64) ([]domain.StatusChange, error) {
	if _, err := s.tasks.FindByID(ctx, id); err != nil {
		return nil, err
	}
	changes, err := s.audit.history(ctx, domain.EntityTask, id)
	if err != nil {
		return nil, fmt.Errorf("task %d history: %w", id, err)
	}
	return changes, nil
}
