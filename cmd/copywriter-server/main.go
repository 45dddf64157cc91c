// cmd/copywriter-server/main.go
package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"copywriter/internal/api"
	"copywriter/internal/app"
	"copywriter/internal/common/config"
	"copywriter/internal/common/logger"
	"copywriter/internal/common/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "console").Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.Build(logger.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{cfg.Logging.Output},
	})
	defer zapLog.Sync()

	zapLog.Info("starting copywriter server",
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := observability.New(cfg.App.Name, zapLog)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	a, err := app.Build(ctx, cfg, zapLog, obs)
	if err != nil {
		zapLog.Fatal("startup failed", zap.Error(err))
	}
	defer a.Close()

	// Job workers are optional for the HTTP server; a missing engine only warns.
	var workers *app.Workers
	if cfg.Camunda.Enabled {
		w, started, err := a.StartWorkers(ctx)
		if err != nil {
			zapLog.Warn("job workers disabled, workflow engine unreachable", zap.Error(err))
		} else {
			workers = w
			zapLog.Info("job workers running", zap.Int("count", started))
		}
	}
	defer workers.Close()

	checks := make(map[string]api.Pinger, len(a.Checks))
	for name, c := range a.Checks {
		checks[name] = c
	}
	server := api.NewServer(api.Deps{
		Config:      cfg,
		Accounts:    a.Accounts,
		Copywriting: a.Copywriting,
		Logger:      zapLog,
		Checks:      checks,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      server.Handler(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zapLog.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		zapLog.Info("shutdown signal received, draining requests")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zapLog.Error("server stopped with error", zap.Error(err))
		return
	}
	zapLog.Info("copywriter server stopped gracefully")
}
