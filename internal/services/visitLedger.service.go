package services

import (
	"context"
	"time"

	"lunchlog/internal/metrics"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitLedgerService keeps per-user visit and cuisine counters.
type VisitLedgerService struct {
	visitRepo      repositories.VisitRepository
	restaurantRepo repositories.RestaurantRepository
	log            logger.Logger
}

func NewVisitLedgerService(repos repositories.Repository) *VisitLedgerService {
	return &VisitLedgerService{
		visitRepo:      repos.Visit,
		restaurantRepo: repos.Restaurant,
		log:            logger.New("VisitLedgerService"),
	}
}

// RecordVisit counts one visit of userID to restaurant on visitDate, plus one
// visit per cuisine currently linked to the restaurant. The writes run in a
// savepoint of tx; on failure only the savepoint is rolled back and the error
// is logged, so the surrounding transaction stays usable.
func (s *VisitLedgerService) RecordVisit(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	restaurant *Restaurant,
	visitDate time.Time,
) {
	log := s.log.Function("RecordVisit").TraceFromContext(ctx)

	if restaurant == nil {
		log.Warn("Skipping visit without restaurant", "userID", userID)
		return
	}

	err := tx.WithContext(ctx).Transaction(func(ledgerTx *gorm.DB) error {
		if err := s.visitRepo.IncrementVisit(ctx, ledgerTx, userID, restaurant.ID, visitDate); err != nil {
			return err
		}

		cuisineIDs, err := s.restaurantRepo.GetCuisineIDs(ctx, ledgerTx, restaurant.ID)
		if err != nil {
			return err
		}

		for _, cuisineID := range cuisineIDs {
			if err := s.visitRepo.IncrementCuisine(ctx, ledgerTx, userID, cuisineID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		metrics.VisitLedgerFailures.Inc()
		log.Er(
			"failed to record visit",
			err,
			"userID",
			userID,
			"restaurantID",
			restaurant.ID,
			"visitDate",
			visitDate.Format(time.DateOnly),
		)
	}
}
