package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/scry-scheduler/internal/config"
	"github.com/phrazzld/scry-scheduler/internal/domain/srs"
	"github.com/phrazzld/scry-scheduler/internal/platform/sqlstore"
	"github.com/phrazzld/scry-scheduler/internal/service/review"
	"github.com/phrazzld/scry-scheduler/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	states  store.ReviewStateStore
	records store.PerformanceRecordStore

	srsService    srs.Service
	reviewService review.Service
}

// newApplication creates a new application instance with all dependencies initialized.
// The database connection must already be established.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	app.states = sqlstore.NewReviewStateStore(db, cfg.Database.Driver, logger)
	app.records = sqlstore.NewPerformanceStore(db, logger)

	var err error
	app.srsService, err = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MinEaseFactor:  cfg.SRS.MinEaseFactor,
		FirstInterval:  cfg.SRS.FirstIntervalDays,
		SecondInterval: cfg.SRS.SecondIntervalDays,
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create SRS service: %w", err)
	}

	app.reviewService = review.NewService(
		app.states,
		app.records,
		store.NewTransactor(db),
		app.srsService,
		review.Options{
			Concurrency:  cfg.Review.BatchConcurrency,
			MaxBatchSize: cfg.Review.MaxBatchSize,
		},
		logger,
	)

	logger.Info("Application initialized successfully",
		"batch_concurrency", cfg.Review.BatchConcurrency,
		"max_batch_size", cfg.Review.MaxBatchSize)
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
