package postgres

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasktrack/tasks-service/internal/core/domain"
	"github.com/tasktrack/tasks-service/internal/core/ports"
)

const userColumns = `id, name, email, status, premium, modified_at`

// UserRepository implements ports.UserRepository using PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	const query = `
INSERT INTO users (name, email, status, premium, modified_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		u.Name,
		u.Email,
		string(u.Status),
		u.Premium,
		u.ModifiedAt,
	).Scan(&u.ID)
	if err != nil {
		return wrap("insert user", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id, "")
}

// FindByIDForUpdate locks the row until the surrounding transaction ends.
// Outside a transaction the lock is released as soon as the statement ends.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.User, error) {
	return r.findByID(ctx, id, ` FOR UPDATE`)
}

func (r *UserRepository) findByID(ctx context.Context, id int64, lock string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1` + lock

	u, err := scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, wrap("select user", err)
	}
	return u, nil
}

// List builds its WHERE clause from the non-zero fields of f.
func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, error) {
	var (
		where []string
		args  []any
	)
	if f.ExcludeStatus != "" {
		args = append(args, string(f.ExcludeStatus))
		where = append(where, "status <> $"+strconv.Itoa(len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if f.PremiumOnly {
		where = append(where, "premium")
	}

	query := `SELECT ` + userColumns + ` FROM users`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, wrap("list users", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate users", err)
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	const query = `
UPDATE users
SET status = $1,
    premium = $2,
    modified_at = $3
WHERE id = $4
`
	tag, err := conn(ctx, r.pool).Exec(ctx, query,
		string(u.Status),
		u.Premium,
		u.ModifiedAt,
		u.ID,
	)
	if err != nil {
		return wrap("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u      domain.User
		status string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &status, &u.Premium, &u.ModifiedAt); err != nil {
		return nil, err
	}
	u.Status = domain.UserStatus(status)
	if u.ModifiedAt != nil {
		m := u.ModifiedAt.UTC()
		u.ModifiedAt = &m
	}
	return &u, nil
}
