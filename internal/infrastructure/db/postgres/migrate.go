package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS users (
		id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'active'
		            CHECK (status IN ('active', 'inactive', 'deleted')),
		premium     BOOLEAN NOT NULL DEFAULT FALSE,
		modified_at TIMESTAMP WITH TIME ZONE NULL
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id          BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		name        VARCHAR(100) NOT NULL,
		description VARCHAR(500) NULL,
		created_at  TIMESTAMP WITH TIME ZONE NOT NULL,
		modified_at TIMESTAMP WITH TIME ZONE NULL,
		status      VARCHAR(16) NOT NULL DEFAULT 'pending'
		            CHECK (status IN ('pending', 'running', 'done', 'cancelled')),
		user_id     BIGINT NOT NULL REFERENCES users(id)
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id);
`

// Migrate creates the users and tasks tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to execute migration: %w", err)
	}
	return nil
}
