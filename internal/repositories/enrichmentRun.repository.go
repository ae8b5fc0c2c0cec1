package repositories

import (
	"context"

	. "lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrichmentRunRepository interface {
	Create(ctx context.Context, tx *gorm.DB, run *EnrichmentRun) error
	ListByRestaurant(
		ctx context.Context,
		tx *gorm.DB,
		restaurantID uuid.UUID,
		limit int,
	) ([]EnrichmentRun, error)
}

type enrichmentRunRepository struct {
	log logger.Logger
}

func NewEnrichmentRunRepository() EnrichmentRunRepository {
	return &enrichmentRunRepository{
		log: logger.New("enrichmentRunRepository"),
	}
}

func (r *enrichmentRunRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	run *EnrichmentRun,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[EnrichmentRun](tx).Create(ctx, run); err != nil {
		return log.Err(
			"failed to record enrichment run",
			err,
			"restaurantID",
			run.RestaurantID,
			"status",
			run.Status,
		)
	}

	return nil
}

func (r *enrichmentRunRepository) ListByRestaurant(
	ctx context.Context,
	tx *gorm.DB,
	restaurantID uuid.UUID,
	limit int,
) ([]EnrichmentRun, error) {
	log := r.log.Function("ListByRestaurant")

	runs, err := gorm.G[EnrichmentRun](tx).
		Where("restaurant_id = ?", restaurantID).
		Order("finished_at DESC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list enrichment runs", err, "restaurantID", restaurantID)
	}

	return runs, nil
}
