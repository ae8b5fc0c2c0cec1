package services

import (
	"context"

	"lunchlog/internal/repositories"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PreferenceService derives read-only preference projections from the visit
// ledger. Results always reflect committed state; nothing is cached.
type PreferenceService struct {
	db        *gorm.DB
	visitRepo repositories.VisitRepository
	log       logger.Logger
}

func NewPreferenceService(repos repositories.Repository, db *gorm.DB) *PreferenceService {
	return &PreferenceService{
		db:        db,
		visitRepo: repos.Visit,
		log:       logger.New("PreferenceService"),
	}
}

// GetFrequentLocations returns the user's most visited restaurants that have
// coordinates, most visited first.
func (s *PreferenceService) GetFrequentLocations(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]types.FrequentLocation, error) {
	log := s.log.Function("GetFrequentLocations").TraceFromContext(ctx)

	if limit <= 0 {
		return []types.FrequentLocation{}, nil
	}

	locations, err := s.visitRepo.TopLocations(ctx, s.db, userID, limit)
	if err != nil {
		return nil, log.Err("failed to load frequent locations", err, "userID", userID)
	}

	if locations == nil {
		locations = []types.FrequentLocation{}
	}
	return locations, nil
}

func (s *PreferenceService) GetTopCuisines(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]string, error) {
	log := s.log.Function("GetTopCuisines").TraceFromContext(ctx)

	if limit <= 0 {
		return []string{}, nil
	}

	cuisines, err := s.visitRepo.TopCuisines(ctx, s.db, userID, limit)
	if err != nil {
		return nil, log.Err("failed to load top cuisines", err, "userID", userID)
	}

	if cuisines == nil {
		cuisines = []string{}
	}
	return cuisines, nil
}
