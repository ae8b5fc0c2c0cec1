package jobs

import (
	"context"

	"lunchlog/internal/constants"
	"lunchlog/internal/database"
	"lunchlog/internal/events"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// EnrichmentQueue publishes enrichment requests, skipping restaurants that
// already have one pending.
type EnrichmentQueue struct {
	bus   *events.EventBus
	locks database.CacheClient
	log   logger.Logger
}

func NewEnrichmentQueue(bus *events.EventBus, locks database.CacheClient) *EnrichmentQueue {
	return &EnrichmentQueue{
		bus:   bus,
		locks: locks,
		log:   logger.New("enrichmentQueue"),
	}
}

func (q *EnrichmentQueue) Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error {
	log := q.log.Function("Enqueue").TraceFromContext(ctx)

	acquired, err := q.lock(ctx, restaurantID)
	if err != nil {
		log.Warn("Failed to take enrichment lock, enqueueing anyway", "restaurantID", restaurantID, "error", err)
	} else if !acquired {
		log.Debug("Enrichment already pending", "restaurantID", restaurantID)
		return nil
	}

	err = q.bus.PublishEnrichment(ctx, types.EnrichmentRequest{
		RestaurantID: restaurantID,
		Reason:       reason,
	})
	if err != nil {
		q.Release(ctx, restaurantID)
		return log.Err("failed to enqueue enrichment", err, "restaurantID", restaurantID)
	}

	return nil
}

// Release clears the pending marker so the restaurant can be enqueued again.
func (q *EnrichmentQueue) Release(ctx context.Context, restaurantID uuid.UUID) {
	if q.locks == nil {
		return
	}

	err := database.NewCacheBuilder(q.locks, restaurantID).
		WithHash(constants.EnrichmentLockPrefix).
		WithContext(context.WithoutCancel(ctx)).
		Delete()
	if err != nil {
		q.log.Function("Release").Warn("Failed to release enrichment lock", "restaurantID", restaurantID, "error", err)
	}
}

func (q *EnrichmentQueue) lock(ctx context.Context, restaurantID uuid.UUID) (bool, error) {
	if q.locks == nil {
		return true, nil
	}

	return database.NewCacheBuilder(q.locks, restaurantID).
		WithHash(constants.EnrichmentLockPrefix).
		WithTTL(constants.EnrichmentLockTTL).
		WithContext(ctx).
		SetNX()
}
