package main

import (
	"context"
	"fmt"
	"io"

	"lunchlog/config"
	"lunchlog/internal/app"
	"lunchlog/internal/jobs"
	"lunchlog/internal/types"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func openApp() (*app.App, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Commands run once; the scheduler belongs to the API process.
	cfg.SchedulerEnabled = false

	db, err := app.OpenDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	application, err := app.Build(cfg, db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to build app: %w", err)
	}

	return application, nil
}

func printJSON(w io.Writer, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

// inlineEnqueuer runs enrichment immediately instead of publishing it, for
// deployments without a message broker.
type inlineEnqueuer struct {
	job      *jobs.EnrichmentJob
	outcomes []types.EnrichmentOutcome
}

func (e *inlineEnqueuer) Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error {
	e.outcomes = append(e.outcomes, e.job.Run(ctx, restaurantID))
	return nil
}
