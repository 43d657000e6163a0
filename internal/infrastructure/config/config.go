package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port            string        `env:"PORT,             default=8080"`
	Env             string        `env:"ENV,              default=development"`
	LogLevel        string        `env:"LOG_LEVEL,        default=info"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT, default=10s"`

	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

// PostgresConfig keeps the POSTGRESQL_ADDON_* names of the hosting add-on.
type PostgresConfig struct {
	Host           string        `env:"POSTGRESQL_ADDON_HOST,     required"`
	Port           int           `env:"POSTGRESQL_ADDON_PORT,     default=5432"`
	User           string        `env:"POSTGRESQL_ADDON_USER,     required"`
	Password       string        `env:"POSTGRESQL_ADDON_PASSWORD, required"`
	Database       string        `env:"POSTGRESQL_ADDON_DB,       required"`
	SSLMode        string        `env:"POSTGRES_SSL_MODE,         default=disable"`
	MaxConns       int32         `env:"POSTGRES_MAX_CONNS,        default=10"`
	ConnectTimeout time.Duration `env:"POSTGRES_CONNECT_TIMEOUT,  default=10s"`
}

// MongoConfig configures the audit trail. An empty URI disables it.
// AuditWorkers set to 0 writes the trail synchronously on the request path.
type MongoConfig struct {
	URI          string `env:"MONGO_URI"`
	Database     string `env:"MONGO_DB,      default=tasks_audit"`
	AuditWorkers int    `env:"AUDIT_WORKERS, default=4"`
}

// RedisConfig configures the idempotency store. An empty Addr disables it.
type RedisConfig struct {
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// IsDevelopment reports whether the service runs in a local environment.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through l.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	return &cfg, nil
}
