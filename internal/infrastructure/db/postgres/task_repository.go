package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tasktrack/tasks-service/internal/core/domain"
)

const taskColumns = `id, user_id, name, description, status, created_at, modified_at`

// TaskRepository implements ports.TaskRepository using PostgreSQL.
type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// Create inserts t. An owner id with no users row is reported as a
// validation failure wrapping domain.ErrUserDoesNotExist.
func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	const query = `
INSERT INTO tasks (user_id,
                   name,
                   description,
                   status,
                   created_at,
                   modified_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id
`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		t.UserID,
		t.Name,
		t.Description,
		string(t.Status),
		t.CreatedAt,
		t.ModifiedAt,
	).Scan(&t.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Invalid(domain.ErrUserDoesNotExist)
		}
		return wrap("insert task", err)
	}
	return nil
}

func (r *TaskRepository) FindByID(ctx context.Context, id int64) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	t, err := scanTask(conn(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, wrap("select task", err)
	}
	return t, nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY id`

	rows, err := conn(ctx, r.pool).Query(ctx, query, userID)
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	defer rows.Close()

	tasks := []*domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, wrap("scan task", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("iterate tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, t *domain.Task) error {
	const query = `
UPDATE tasks
SET status = $1,
    modified_at = $2
WHERE id = $3
`
	tag, err := conn(ctx, r.pool).Exec(ctx, query, string(t.Status), t.ModifiedAt, t.ID)
	if err != nil {
		return wrap("update task", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t      domain.Task
		status string
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &status, &t.CreatedAt, &t.ModifiedAt)
	if err != nil {
		return nil, err
	}
	t.Status = domain.TaskStatus(status)
	t.CreatedAt = t.CreatedAt.UTC()
	if t.ModifiedAt != nil {
		m := t.ModifiedAt.UTC()
		t.ModifiedAt = &m
	}
	return &t, nil
}
