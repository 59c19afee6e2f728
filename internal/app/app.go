// Package app assembles the probe runner and report store from Config.
// It is shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/sitecheck/internal/browser"
	"github.com/hamed0406/sitecheck/internal/config"
	"github.com/hamed0406/sitecheck/internal/probe"
	"github.com/hamed0406/sitecheck/internal/repo"
	"github.com/hamed0406/sitecheck/internal/repo/memory"
	"github.com/hamed0406/sitecheck/internal/repo/postgres"
)

// NewRunner builds a Runner with the configured browser and HTTP timeout.
func NewRunner(cfg config.Config, logger *zap.Logger) (*probe.Runner, error) {
	launcher, err := browser.NewLauncher(cfg.Browser)
	if err != nil {
		return nil, err
	}
	latency := probe.NewLatencyChecker(cfg.HTTPTimeout)
	latency.Diagnose = probe.DNSDiagnosis

	r := probe.NewRunner(
		probe.NewRenderChecker(launcher, cfg.Browser.Timeout, logger),
		latency,
		logger,
	)
	r.Concurrent = cfg.Concurrent
	return r, nil
}

// OpenStore returns the Postgres store when DATABASE_URL is set, otherwise
// an in-memory one. The returned func releases the store.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repo.ReportStore, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Info("store_memory")
		return memory.New(), func() {}, nil
	}
	pg, err := postgres.New(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	logger.Info("store_postgres")
	return pg, pg.Close, nil
}
