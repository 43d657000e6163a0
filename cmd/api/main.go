// Command api serves the users and tasks HTTP API.
//
// @title        Tasks Service API
// @version      1.0
// @description  Users and their tasks, with soft delete, premium upgrades and a status audit trail.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	_ "github.com/tasktrack/tasks-service/docs"
	"github.com/tasktrack/tasks-service/internal/api"
	"github.com/tasktrack/tasks-service/internal/api/handler"
	"github.com/tasktrack/tasks-service/internal/core/ports"
	"github.com/tasktrack/tasks-service/internal/core/service"
	"github.com/tasktrack/tasks-service/internal/infrastructure/config"
	mongodb "github.com/tasktrack/tasks-service/internal/infrastructure/db/mongo"
	"github.com/tasktrack/tasks-service/internal/infrastructure/db/postgres"
	redisdb "github.com/tasktrack/tasks-service/internal/infrastructure/db/redis"
	"github.com/tasktrack/tasks-service/internal/infrastructure/queue"
	"github.com/tasktrack/tasks-service/pkg/logger"
)

func main() {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Setup(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "tasks-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("service stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- PostgreSQL (required) ---
	pool, err := postgres.Connect(ctx, postgres.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
		MaxConns: cfg.Postgres.MaxConns,
		Timeout:  cfg.Postgres.ConnectTimeout,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info().Str("host", cfg.Postgres.Host).Int("port", cfg.Postgres.Port).Msg("connected to postgres")

	if err := postgres.Migrate(ctx, pool); err != nil {
		return err
	}

	checks := map[string]handler.Check{"postgres": pool.Ping}

	// --- MongoDB audit trail (optional) ---
	var audit ports.AuditRepository
	if cfg.Mongo.URI != "" {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return err
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		repo := mongodb.NewAuditRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to create audit indexes")
		}
		audit = repo
		if cfg.Mongo.AuditWorkers > 0 {
			dispatcher := queue.NewAuditDispatcher(cfg.Mongo.AuditWorkers, repo, log)
			dispatcher.Start(context.WithoutCancel(ctx))
			// Runs after the server has shut down, before the client disconnects.
			defer dispatcher.Stop()
			audit = dispatcher
		}
		checks["mongodb"] = mongodb.Pinger(client)
		log.Info().Str("database", cfg.Mongo.Database).Int("workers", cfg.Mongo.AuditWorkers).Msg("audit trail enabled")
	}

	// --- Redis idempotency store (optional) ---
	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()

		idem = redisdb.NewIdempotencyStore(client, cfg.Redis.IdempotencyTTL)
		checks["redis"] = redisdb.Pinger(client)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("idempotency keys enabled")
	}

	// --- Services ---
	tx := postgres.NewTransactor(pool)
	users := postgres.NewUserRepository(pool)
	tasks := postgres.NewTaskRepository(pool)

	e := api.NewRouter(api.Deps{
		Users:  service.NewUserService(tx, users, audit, idem, log),
		Tasks:  service.NewTaskService(tx, tasks, users, audit, idem, log),
		Checks: checks,
		Log:    log,
	})

	server := &http.Server{
		Addr:    net.JoinHostPort("", cfg.Port),
		Handler: e,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("setting up http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("shut down http server")
	return nil
}
