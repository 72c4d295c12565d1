package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	batchimport "medledger/contexts/pharmacy-supply/batch-import"
	ledgeradapter "medledger/contexts/pharmacy-supply/batch-import/adapters/ledger"
	inventoryledger "medledger/contexts/pharmacy-supply/inventory-ledger"
	postgresadapter "medledger/contexts/pharmacy-supply/inventory-ledger/adapters/postgres"
	workerapp "medledger/contexts/pharmacy-supply/inventory-ledger/application/workers"
	"medledger/contexts/pharmacy-supply/inventory-ledger/domain/identity"
	"medledger/internal/platform/config"
	"medledger/internal/platform/db"
	"medledger/internal/platform/httpserver"

	"github.com/robfig/cron/v3"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres *db.Postgres
	checker  workerapp.ProjectionChecker
	schedule string
	enabled  bool
	logger   *slog.Logger
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	if cfg.AdminIdentity == "" {
		return nil, errors.New("LEDGER_ADMIN_ID is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	if err := repo.AutoMigrate(context.Background()); err != nil {
		return nil, err
	}

	ledgerModule := inventoryledger.NewModule(inventoryledger.Dependencies{
		Repository:  repo,
		Audit:       repo,
		Identity:    identity.NewResolver(cfg.AdminIdentity),
		Clock:       postgresadapter.SystemClock{},
		IDGenerator: postgresadapter.UUIDGenerator{},
		Logger:      logger,
	})

	importModule := batchimport.NewModule(batchimport.Dependencies{
		Ledger: ledgeradapter.Gateway{Service: ledgerModule.Service},
		Clock:  postgresadapter.SystemClock{},
		Logger: logger,
	})

	server := httpserver.New(ledgerModule, importModule, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		checker: workerapp.ProjectionChecker{
			Repo:   repo,
			Audit:  repo,
			Logger: logger,
		},
		schedule: cfg.ProjectionCheckSchedule,
		enabled:  cfg.EnableProjectionCheck,
		logger:   logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if !w.enabled {
		w.logger.Info("projection check disabled, worker idle",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
	}

	scheduler := cron.New()
	_, err := scheduler.AddFunc(w.schedule, func() {
		if err := w.checker.RunOnce(ctx); err != nil {
			w.logger.Error("projection check run failed",
				"event", "projection_check_run_failed",
				"module", "internal/app/bootstrap",
				"layer", "platform",
				"error", err.Error(),
			)
		}
	})
	if err != nil {
		return err
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"schedule", w.schedule,
	)

	// Run once up front so a fresh deployment gets an immediate consistency verdict.
	if err := w.checker.RunOnce(ctx); err != nil {
		return err
	}

	scheduler.Start()
	<-ctx.Done()

	stopCtx := scheduler.Stop()
	<-stopCtx.Done()
	return nil
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
