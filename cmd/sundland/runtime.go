package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/justaride/sundland-pipeline/internal/adapter/httpadapter"
	"github.com/justaride/sundland-pipeline/internal/config"
	"github.com/justaride/sundland-pipeline/internal/observability"
)

// runtime bundles the per-invocation plumbing every subcommand needs:
// config, a run-scoped logger, metrics, and the optional metrics listener.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	srv     *httpadapter.Server
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat).
		With("run_id", uuid.NewString())
	metrics := observability.NewMetrics()

	rt := &runtime{cfg: cfg, logger: logger, metrics: metrics}

	if cfg.MetricsAddr != "" {
		rt.srv = httpadapter.NewServer(cfg.MetricsAddr, logger)
		go func() {
			if err := rt.srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	metrics.RunActive.Set(1)
	return rt, nil
}

func (rt *runtime) close() {
	rt.metrics.RunActive.Set(0)
	if rt.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rt.srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("http server shutdown error", "error", err)
		}
	}
}
