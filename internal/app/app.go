// internal/app/app.go
package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"copywriter/internal/accounts"
	"copywriter/internal/backend"
	"copywriter/internal/common/auth"
	"copywriter/internal/common/camunda"
	"copywriter/internal/common/config"
	"copywriter/internal/common/database"
	"copywriter/internal/common/errors"
	"copywriter/internal/common/logger"
	"copywriter/internal/common/observability"
	"copywriter/internal/copywriting"
	aigenerate "copywriter/internal/workers/copywriting/ai-generate"
	generatecopy "copywriter/internal/workers/copywriting/generate-copy"

	"go.uber.org/zap"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds every long-lived component both binaries share.
type App struct {
	Config        *config.Config
	Logger        *zap.Logger
	Observability *observability.Observability
	Accounts      *accounts.Service
	Copywriting   *copywriting.Service
	Checks        map[string]Pinger

	closers []func() error
}

// Build wires stores, sessions and the generation service. Postgres falls back
// to the in-memory store and Redis is skipped when unreachable; both only warn.
func Build(ctx context.Context, cfg *config.Config, zapLog *zap.Logger, obs *observability.Observability) (*App, error) {
	a := &App{
		Config:        cfg,
		Logger:        zapLog,
		Observability: obs,
		Checks:        map[string]Pinger{},
	}
	log := logger.NewZapAdapter(zapLog)

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Checks["store"] = store

	var revocations auth.RevocationStore
	if cfg.Database.Redis.Address != "" {
		rdb, err := database.NewRedis(ctx, cfg.Database.Redis)
		if err != nil {
			zapLog.Warn("redis unavailable, logout will only clear the cookie", zap.Error(err))
		} else {
			revocations = auth.NewRedisRevocationStore(rdb.Client)
			a.Checks["redis"] = rdb
			a.closers = append(a.closers, rdb.Close)
			zapLog.Info("session revocation enabled", zap.String("address", cfg.Database.Redis.Address))
		}
	}

	issuer := auth.NewSessionIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL(), revocations)
	a.Accounts = accounts.NewService(store, issuer, cfg.Auth, log)

	opts := []copywriting.Option{copywriting.WithObservability(obs)}
	b, err := backend.New(ctx, cfg.APIs.GenAI, log)
	switch {
	case err == nil:
		opts = append(opts, copywriting.WithBackend(b))
		a.closers = append(a.closers, b.Close)
		zapLog.Info("generation backend ready",
			zap.String("provider", b.Name()),
			zap.String("model", cfg.APIs.GenAI.Model),
		)
	case errors.HasCode(err, errors.ErrCodeBackendNotConfigured):
		zapLog.Warn("generation backend not configured, ai mode falls back to templates",
			zap.String("provider", cfg.APIs.GenAI.Provider),
		)
	default:
		a.Close()
		return nil, fmt.Errorf("failed to create generation backend: %w", err)
	}
	a.Copywriting = copywriting.NewService(cfg.Generation, log, opts...)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (accounts.Store, error) {
	if a.Config.Database.Driver != config.DriverPostgres {
		a.Logger.Info("using in-memory user store")
		return accounts.NewMemoryStore(), nil
	}

	pg, err := database.ConnectPostgres(ctx, a.Config.Database.Postgres, a.Config.Database.ConnectRetries, time.Second)
	if err != nil {
		a.Logger.Warn("postgres unavailable, falling back to in-memory user store", zap.Error(err))
		return accounts.NewMemoryStore(), nil
	}

	store := accounts.NewPostgresStore(pg.DB)
	if err := store.Migrate(ctx); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("failed to migrate user store: %w", err)
	}
	a.closers = append(a.closers, pg.Close)
	a.Logger.Info("connected to postgres user store")
	return store, nil
}

// Workers is the running job-worker side of the app.
type Workers struct {
	client *camunda.Client
	pool   *camunda.Pool
}

// StartWorkers connects to the workflow engine and opens the copywriting job
// workers. It returns the number of workers actually started.
func (a *App) StartWorkers(ctx context.Context) (*Workers, int, error) {
	cfg := a.Config
	client, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		return nil, 0, err
	}
	a.Logger.Info("connected to zeebe", zap.String("address", cfg.Camunda.BrokerAddress))

	log := logger.NewZapAdapter(a.Logger)
	pool := camunda.NewPool(client.Zeebe(), a.Logger)
	started := 0

	gen, err := generatecopy.NewHandler(generatecopy.HandlerOptions{
		AppConfig:     cfg,
		Generator:     a.Copywriting,
		Observability: a.Observability,
		Logger:        log,
	})
	if err != nil {
		_ = client.Close()
		return nil, 0, err
	}
	if pool.Start(gen.GetTaskType(), gen.GetConfig().WorkerConfig(), gen.Handle) {
		started++
	}

	ai, err := aigenerate.NewHandler(aigenerate.HandlerOptions{
		AppConfig:     cfg,
		Completer:     a.Copywriting,
		Observability: a.Observability,
		Logger:        log,
	})
	if err != nil {
		pool.Close()
		_ = client.Close()
		return nil, 0, err
	}
	if pool.Start(ai.GetTaskType(), ai.GetConfig().WorkerConfig(), ai.Handle) {
		started++
	}

	a.Checks["zeebe"] = pingFunc(client.HealthCheck)
	return &Workers{client: client, pool: pool}, started, nil
}

// Close stops the workers, then the engine connection.
func (w *Workers) Close() error {
	if w == nil {
		return nil
	}
	w.pool.Close()
	return w.client.Close()
}

// Close releases every connection Build opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return stderrors.Join(errs...)
}

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }
