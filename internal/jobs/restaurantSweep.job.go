package jobs

import (
	"context"

	"lunchlog/internal/repositories"
	"lunchlog/internal/services"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Enqueuer interface {
	Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error
}

// RestaurantSweepJob periodically enqueues every restaurant for enrichment.
type RestaurantSweepJob struct {
	restaurantRepo repositories.RestaurantRepository
	db             *gorm.DB
	queue          Enqueuer
	schedule       services.Schedule
	log            logger.Logger
}

func NewRestaurantSweepJob(
	restaurantRepo repositories.RestaurantRepository,
	db *gorm.DB,
	queue Enqueuer,
	schedule services.Schedule,
) *RestaurantSweepJob {
	log := logger.New("restaurantSweepJob")
	log.Info("Creating new restaurant sweep job", "schedule", schedule)

	return &RestaurantSweepJob{
		restaurantRepo: restaurantRepo,
		db:             db,
		queue:          queue,
		schedule:       schedule,
		log:            log,
	}
}

func (j *RestaurantSweepJob) Name() string {
	return "RestaurantEnrichmentSweep"
}

func (j *RestaurantSweepJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	ids, err := j.restaurantRepo.ListIDs(ctx, j.db)
	if err != nil {
		return log.Err("failed to list restaurants", err)
	}

	failed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := j.queue.Enqueue(ctx, id, types.EnrichmentReasonSweep); err != nil {
			failed++
		}
	}

	log.Info("Restaurant sweep enqueued", "restaurants", len(ids), "failed", failed)
	return nil
}

func (j *RestaurantSweepJob) Schedule() services.Schedule {
	return j.schedule
}
