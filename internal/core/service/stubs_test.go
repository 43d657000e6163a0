package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stubs
// ---------------------------------------------------------------------------

// stubTx counts the outcome of every unit of work it runs.
type stubTx struct {
	begun, committed, rolledBack int
}

func (tx *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx.begun++
	if err := fn(ctx); err != nil {
		tx.rolledBack++
		return err
	}
	tx.committed++
	return nil
}

type stubUserRepo struct {
	rows      map[int64]*domain.User
	nextID    int64
	createErr error // if set, Create returns this error
	updateErr error // if set, Update returns this error
	updates   int
	locks     int // FindByIDForUpdate calls
	// onLock runs before FindByIDForUpdate reads the row, standing in for a
	// transaction that commits while the lock is awaited.
	onLock func(u *domain.User)
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{rows: make(map[int64]*domain.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.rows[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	r.locks++
	if u, ok := r.rows[id]; ok && r.onLock != nil {
		r.onLock(u)
	}
	return r.FindByID(ctx, id)
}

// List applies the filter the same way the SQL query does, ordered by ID.
func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range r.rows {
		if f.Matches(u) {
			clone := *u
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *domain.User) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	clone := *u
	r.rows[u.ID] = &clone
	return nil
}

// seed stores u as is and returns its ID.
func (r *stubUserRepo) seed(u domain.User) int64 {
	r.nextID++
	u.ID = r.nextID
	r.rows[u.ID] = &u
	return u.ID
}

type stubTaskRepo struct {
	rows      map[int64]*domain.Task
	nextID    int64
	createErr error
}

func newStubTaskRepo() *stubTaskRepo {
	return &stubTaskRepo{rows: make(map[int64]*domain.Task)}
}

func (r *stubTaskRepo) Create(_ context.Context, t *domain.Task) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	t.ID = r.nextID
	clone := *t
	r.rows[t.ID] = &clone
	return nil
}

func (r *stubTaskRepo) FindByID(_ context.Context, id int64) (*domain.Task, error) {
	t, ok := r.rows[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *stubTaskRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range r.rows {
		if t.UserID == userID {
			clone := *t
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubTaskRepo) Update(_ context.Context, t *domain.Task) error {
	clone := *t
	r.rows[t.ID] = &clone
	return nil
}

type stubAudit struct {
	recorded   []domain.StatusChange
	recordErr  error
	historyErr error
}

func (a *stubAudit) Record(_ context.Context, c domain.StatusChange) error {
	if a.recordErr != nil {
		return a.recordErr
	}
	a.recorded = append(a.recorded, c)
	return nil
}

func (a *stubAudit) History(_ context.Context, entity domain.EntityKind, id int64) ([]domain.StatusChange, error) {
	if a.historyErr != nil {
		return nil, a.historyErr
	}
	out := []domain.StatusChange{}
	for _, c := range a.recorded {
		if c.Entity == entity && c.EntityID == id {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubIdempotency struct {
	keys        map[string]int64
	lookupErr   error
	rememberErr error
	forgotten   []string
}

func newStubIdempotency() *stubIdempotency {
	return &stubIdempotency{keys: make(map[string]int64)}
}

func (s *stubIdempotency) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	if s.lookupErr != nil {
		return 0, false, s.lookupErr
	}
	id, ok := s.keys[scope+":"+key]
	return id, ok, nil
}

func (s *stubIdempotency) Remember(_ context.Context, scope, key string, id int64) error {
	if s.rememberErr != nil {
		return s.rememberErr
	}
	if _, taken := s.keys[scope+":"+key]; !taken {
		s.keys[scope+":"+key] = id
	}
	return nil
}

func (s *stubIdempotency) Forget(_ context.Context, scope, key string) error {
	delete(s.keys, scope+":"+key)
	s.forgotten = append(s.forgotten, scope+":"+key)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

// steppingClock returns a clock starting at start that advances by one
// second on every call.
func steppingClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Second)
		return now
	}
}

var t0 = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
