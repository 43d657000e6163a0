package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func requiredEnv() map[string]string {
	return map[string]string{
		"POSTGRESQL_ADDON_HOST":     "db.internal",
		"POSTGRESQL_ADDON_USER":     "tasks",
		"POSTGRESQL_ADDON_PASSWORD": "secret",
		"POSTGRESQL_ADDON_DB":       "tasks",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(requiredEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Postgres.Port != 5432 || cfg.Postgres.SSLMode != "disable" || cfg.Postgres.MaxConns != 10 {
		t.Errorf("unexpected postgres defaults: %+v", cfg.Postgres)
	}
	if cfg.Mongo.URI != "" || cfg.Mongo.Database != "tasks_audit" || cfg.Mongo.AuditWorkers != 4 {
		t.Errorf("audit trail must be disabled by default: %+v", cfg.Mongo)
	}
	if cfg.Redis.Addr != "" || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("idempotency must be disabled by default: %+v", cfg.Redis)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development environment")
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := requiredEnv()
	env["PORT"] = "9090"
	env["ENV"] = "production"
	env["POSTGRESQL_ADDON_PORT"] = "6543"
	env["POSTGRES_CONNECT_TIMEOUT"] = "3s"
	env["REDIS_ADDR"] = "cache:6379"
	env["IDEMPOTENCY_TTL"] = "1h"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.IsDevelopment() {
		t.Errorf("unexpected server config: %+v", cfg)
	}
	if cfg.Postgres.Port != 6543 || cfg.Postgres.ConnectTimeout != 3*time.Second {
		t.Errorf("unexpected postgres config: %+v", cfg.Postgres)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.IdempotencyTTL != time.Hour {
		t.Errorf("unexpected redis config: %+v", cfg.Redis)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	for key := range requiredEnv() {
		env := requiredEnv()
		delete(env, key)

		if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
			t.Errorf("expected error when %s is missing", key)
		}
	}
}
