package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/api/metrics"
	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

const (
	scopeUser = "user"
	scopeTask = "task"
)

// clock returns the current instant in UTC at the precision the store keeps.
func clock() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// runTx executes fn through tx and records its duration under op.
func runTx(ctx context.Context, tx ports.Transactor, op string, fn func(ctx context.Context) error) error {
	start := time.Now()
	err := tx.WithinTx(ctx, fn)
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.MutationDuration.WithLabelValues(op, result).Observe(time.Since(start).Seconds())
	return err
}

// recorder appends committed changes to the audit trail. Failures are logged
// and never reach the caller.
type recorder struct {
	audit ports.AuditRepository
	log   zerolog.Logger
}

func (r recorder) record(ctx context.Context, c domain.StatusChange) {
	if err := r.audit.Record(ctx, c); err != nil {
		metrics.DegradedCallsTotal.WithLabelValues("audit").Inc()
		r.log.Warn().Err(err).
			Str("entity", string(c.Entity)).
			Int64("id", c.EntityID).
			Str("field", c.Field).
			Msg("failed to record status change")
	}
}

func (r recorder) history(ctx context.Context, entity domain.EntityKind, id int64) ([]domain.StatusChange, error) {
	return r.audit.History(ctx, entity, id)
}

// replayer resolves Idempotency-Key headers. Failures are logged and the
// request proceeds as if no key had been sent.
type replayer struct {
	store ports.IdempotencyStore
	log   zerolog.Logger
}

func (r replayer) lookup(ctx context.Context, scope, key string) (int64, bool) {
	if key == "" {
		return 0, false
	}
	id, ok, err := r.store.Lookup(ctx, scope, key)
	if err != nil {
		metrics.DegradedCallsTotal.WithLabelValues("idempotency").Inc()
		r.log.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return 0, false
	}
	return id, ok
}

func (r replayer) remember(ctx context.Context, scope, key string, id int64) {
	if key == "" {
		return
	}
	if err := r.store.Remember(ctx, scope, key, id); err != nil {
		metrics.DegradedCallsTotal.WithLabelValues("idempotency").Inc()
		r.log.Warn().Err(err).Str("idempotency_key", key).Int64("id", id).Msg("failed to store idempotency key")
	}
}

// forget releases a key whose record can no longer be replayed, so the
// create that follows is remembered in its place.
func (r replayer) forget(ctx context.Context, scope, key string) {
	if err := r.store.Forget(ctx, scope, key); err != nil {
		metrics.DegradedCallsTotal.WithLabelValues("idempotency").Inc()
		r.log.Warn().Err(err).Str("idempotency_key", key).Msg("failed to drop stale idempotency key")
	}
}

type noopAudit struct{}

func (noopAudit) Record(context.Context, domain.StatusChange) error { return nil }

func (noopAudit) History(context.Context, domain.EntityKind, int64) ([]domain.StatusChange, error) {
	return []domain.StatusChange{}, nil
}

type noopIdempotency struct{}

func (noopIdempotency) Lookup(context.Context, string, string) (int64, bool, error) {
	return 0, false, nil
}

func (noopIdempotency) Remember(context.Context, string, string, int64) error { return nil }

func (noopIdempotency) Forget(context.Context, string, string) error { return nil }

func premiumLabel(p bool) string {
	return strconv.FormatBool(p)
}
