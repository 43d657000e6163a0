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

type UserService struct {
	tx    ports.Transactor
	users ports.UserRepository
	audit recorder
	idem  replayer
	log   zerolog.Logger
	now   func() time.Time
}

// NewUserService wires the user use cases. audit and idem may be nil, in
// which case history is empty and Idempotency-Key headers are ignored.
func NewUserService(
	tx ports.Transactor,
	users ports.UserRepository,
	audit ports.AuditRepository,
	idem ports.IdempotencyStore,
	log zerolog.Logger,
) *UserService {
	if audit == nil {
		audit = noopAudit{}
	}
	if idem == nil {
		idem = noopIdempotency{}
	}
	return &UserService{
		tx:    tx,
		users: users,
		audit: recorder{audit: audit, log: log},
		idem:  replayer{store: idem, log: log},
		log:   log,
		now:   clock,
	}
}

// CreateUser registers a user. If an idempotency key is provided and already
// seen, the previously created user is returned without side effects. A key
// whose user has since been deleted is dropped and a new user is created.
func (s *UserService) CreateUser(ctx context.Context, in ports.CreateUserInput) (*ports.CreateUserResult, error) {
	if id, ok := s.idem.lookup(ctx, scopeUser, in.IdempotencyKey); ok {
		existing, err := s.GetUser(ctx, id)
		if err == nil {
			metrics.IdempotentReplaysTotal.WithLabelValues(scopeUser).Inc()
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Int64("user_id", id).Msg("idempotent replay")
			return &ports.CreateUserResult{User: existing, AlreadyExisted: true}, nil
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		s.idem.forget(ctx, scopeUser, in.IdempotencyKey)
	}

	u, err := domain.NewUser(in.Name, in.Email, in.Premium, in.Status)
	if err != nil {
		return nil, err
	}

	err = runTx(ctx, s.tx, "create_user", func(ctx context.Context) error {
		return s.users.Create(ctx, u)
	})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	s.idem.remember(ctx, scopeUser, in.IdempotencyKey, u.ID)
	s.audit.record(ctx, domain.StatusChange{
		Entity:    domain.EntityUser,
		EntityID:  u.ID,
		Field:     domain.FieldStatus,
		To:        string(u.Status),
		ChangedAt: s.now(),
	})
	metrics.UsersCreatedTotal.WithLabelValues(string(u.Status)).Inc()
	s.log.Info().Int64("user_id", u.ID).Str("status", string(u.Status)).Msg("user created")

	return &ports.CreateUserResult{User: u}, nil
}

// GetUser returns the user with id. Deleted users are reported as not found.
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx, ports.UserFilter{ExcludeStatus: domain.UserDeleted})
}

func (s *UserService) ListActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx, ports.UserFilter{Status: domain.UserActive})
}

func (s *UserService) ListPremiumActiveUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx, ports.UserFilter{Status: domain.UserActive, PremiumOnly: true})
}

// lockUser is GetUser for read-modify-write paths. It must run inside a
// transaction; a user soft-deleted by a transaction that committed while
// waiting for the lock is reported as not found.
func (s *UserService) lockUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.FindByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.IsDeleted() {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

// UpdateUserStatus sets the status of a non-deleted user. Setting
// domain.UserDeleted soft-deletes it.
func (s *UserService) UpdateUserStatus(ctx context.Context, id int64, status domain.UserStatus) (*domain.User, error) {
	var (
		u    *domain.User
		from domain.UserStatus
	)
	err := runTx(ctx, s.tx, "update_user_status", func(ctx context.Context) error {
		var err error
		if u, err = s.lockUser(ctx, id); err != nil {
			return err
		}
		from = u.Status
		if err = u.SetStatus(status, s.now()); err != nil {
			return err
		}
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, domain.StatusChange{
		Entity:    domain.EntityUser,
		EntityID:  u.ID,
		Field:     domain.FieldStatus,
		From:      string(from),
		To:        string(u.Status),
		ChangedAt: *u.ModifiedAt,
	})
	metrics.StatusUpdatesTotal.WithLabelValues(string(domain.EntityUser), string(u.Status)).Inc()
	s.log.Info().Int64("user_id", u.ID).Str("from", string(from)).Str("to", string(u.Status)).Msg("user status updated")

	return u, nil
}

// UpgradeToPremium marks a non-deleted user premium. Upgrading an already
// premium user succeeds and refreshes its modification time.
func (s *UserService) UpgradeToPremium(ctx context.Context, id int64) (*domain.User, error) {
	var (
		u   *domain.User
		was bool
	)
	err := runTx(ctx, s.tx, "upgrade_to_premium", func(ctx context.Context) error {
		var err error
		if u, err = s.lockUser(ctx, id); err != nil {
			return err
		}
		was = u.Premium
		u.UpgradeToPremium(s.now())
		return s.users.Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	s.audit.record(ctx, domain.StatusChange{
		Entity:    domain.EntityUser,
		EntityID:  u.ID,
		Field:     domain.FieldPremium,
		From:      premiumLabel(was),
		To:        premiumLabel(u.Premium),
		ChangedAt: *u.ModifiedAt,
	})
	metrics.StatusUpdatesTotal.WithLabelValues(string(domain.EntityUser), domain.FieldPremium).Inc()
	s.log.Info().Int64("user_id", u.ID).Bool("was_premium", was).Msg("user upgraded to premium")

	return u, nil
}

// UserHistory returns the recorded changes of a non-deleted user, oldest first.
func (s *UserService) UserHistory(ctx context.Context, id int64) ([]domain.StatusChange, error) {
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	changes, err := s.audit.history(ctx, domain.EntityUser, id)
	if err != nil {
		return nil, fmt.Errorf("user %d history: %w", id, err)
	}
	return changes, nil
}
