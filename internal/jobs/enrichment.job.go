package jobs

import (
	"context"
	"fmt"
	"time"

	"lunchlog/internal/metrics"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultEnrichmentBackoff is the wait before each retry of a retryable failure.
var DefaultEnrichmentBackoff = []time.Duration{time.Minute, 2 * time.Minute, 4 * time.Minute}

type Enricher interface {
	Enrich(ctx context.Context, restaurantID uuid.UUID) (types.EnrichmentOutcome, error)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// EnrichmentJob runs one restaurant enrichment with retries and records the
// final outcome.
type EnrichmentJob struct {
	enricher Enricher
	runRepo  repositories.EnrichmentRunRepository
	db       *gorm.DB
	backoff  []time.Duration
	sleep    Sleeper
	log      logger.Logger
}

func NewEnrichmentJob(
	enricher Enricher,
	runRepo repositories.EnrichmentRunRepository,
	db *gorm.DB,
) *EnrichmentJob {
	return &EnrichmentJob{
		enricher: enricher,
		runRepo:  runRepo,
		db:       db,
		backoff:  DefaultEnrichmentBackoff,
		sleep:    contextSleep,
		log:      logger.New("enrichmentJob"),
	}
}

func (j *EnrichmentJob) WithBackoff(backoff []time.Duration, sleep Sleeper) *EnrichmentJob {
	j.backoff = backoff
	if sleep != nil {
		j.sleep = sleep
	}
	return j
}

func (j *EnrichmentJob) Run(ctx context.Context, restaurantID uuid.UUID) types.EnrichmentOutcome {
	log := j.log.Function("Run").TraceFromContext(ctx)
	startedAt := time.Now().UTC()

	var outcome types.EnrichmentOutcome
	attempts := 0
	for {
		attempts++

		var err error
		outcome, err = j.enricher.Enrich(ctx, restaurantID)
		if err == nil {
			break
		}

		retries := attempts - 1
		if retries >= len(j.backoff) {
			outcome.Status = types.EnrichmentError
			outcome.Message = fmt.Sprintf("Task failed after %d retries: %s", retries, err)
			log.Er("enrichment failed permanently", err, "restaurantID", restaurantID, "attempts", attempts)
			break
		}

		wait := j.backoff[retries]
		log.Warn(
			"Enrichment attempt failed, retrying",
			"restaurantID", restaurantID,
			"attempt", attempts,
			"retryIn", wait.String(),
			"error", err,
		)

		if sleepErr := j.sleep(ctx, wait); sleepErr != nil {
			outcome.Status = types.EnrichmentError
			outcome.Message = fmt.Sprintf("Task cancelled after %d attempts: %s", attempts, err)
			break
		}
	}

	outcome.RestaurantID = restaurantID
	outcome.Attempts = attempts
	metrics.EnrichmentRuns.WithLabelValues(string(outcome.Status)).Inc()

	j.recordRun(ctx, outcome, startedAt)

	return outcome
}

func (j *EnrichmentJob) recordRun(
	ctx context.Context,
	outcome types.EnrichmentOutcome,
	startedAt time.Time,
) {
	log := j.log.Function("recordRun")

	if outcome.Status == types.EnrichmentError && outcome.Message == "" {
		outcome.Message = "unknown error"
	}

	run := &EnrichmentRun{
		RestaurantID:  outcome.RestaurantID,
		Status:        string(outcome.Status),
		Attempts:      outcome.Attempts,
		ChangedFields: outcome.ChangedFields,
		Message:       outcome.Message,
		StartedAt:     startedAt,
		FinishedAt:    time.Now().UTC(),
	}

	// The run is recorded even when the job context was cancelled.
	if err := j.runRepo.Create(context.WithoutCancel(ctx), j.db, run); err != nil {
		log.Er("failed to record enrichment run", err, "restaurantID", outcome.RestaurantID)
	}
}

func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
