package repositories

import (
	"context"
	"time"

	. "lunchlog/internal/models"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type VisitRepository interface {
	IncrementVisit(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		restaurantID uuid.UUID,
		visitDate time.Time,
	) error
	IncrementCuisine(ctx context.Context, tx *gorm.DB, userID uuid.UUID, cuisineID uuid.UUID) error
	GetVisitRecord(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		restaurantID uuid.UUID,
	) (*VisitRecord, error)
	GetCuisineStats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]CuisineStat, error)
	TopLocations(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		limit int,
	) ([]types.FrequentLocation, error)
	TopCuisines(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]string, error)
}

type visitRepository struct {
	log logger.Logger
}

func NewVisitRepository() VisitRepository {
	return &visitRepository{
		log: logger.New("visitRepository"),
	}
}

// IncrementVisit creates the (user, restaurant) record with count 1 or bumps
// the stored count by one in a single statement. The stored last visit date
// only moves forward.
func (r *visitRepository) IncrementVisit(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	restaurantID uuid.UUID,
	visitDate time.Time,
) error {
	log := r.log.Function("IncrementVisit")

	record := VisitRecord{
		UserID:        userID,
		RestaurantID:  restaurantID,
		VisitCount:    1,
		LastVisitDate: visitDate,
	}

	err := tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "restaurant_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"visit_count":     gorm.Expr("visit_records.visit_count + 1"),
				"last_visit_date": gorm.Expr("excluded.last_visit_date"),
				"updated_at":      time.Now(),
			}),
		}).
		Create(&record).Error
	if err != nil {
		return log.Err(
			"failed to increment visit record",
			err,
			"userID",
			userID,
			"restaurantID",
			restaurantID,
		)
	}

	return nil
}

func (r *visitRepository) IncrementCuisine(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	cuisineID uuid.UUID,
) error {
	log := r.log.Function("IncrementCuisine")

	stat := CuisineStat{UserID: userID, CuisineID: cuisineID, VisitCount: 1}

	err := tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "cuisine_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"visit_count": gorm.Expr("cuisine_stats.visit_count + 1"),
				"updated_at":  time.Now(),
			}),
		}).
		Create(&stat).Error
	if err != nil {
		return log.Err(
			"failed to increment cuisine stat",
			err,
			"userID",
			userID,
			"cuisineID",
			cuisineID,
		)
	}

	return nil
}

func (r *visitRepository) GetVisitRecord(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	restaurantID uuid.UUID,
) (*VisitRecord, error) {
	log := r.log.Function("GetVisitRecord")

	record, err := gorm.G[*VisitRecord](tx).
		Where("user_id = ? AND restaurant_id = ?", userID, restaurantID).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err(
			"failed to get visit record",
			err,
			"userID",
			userID,
			"restaurantID",
			restaurantID,
		)
	}

	return record, nil
}

func (r *visitRepository) GetCuisineStats(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]CuisineStat, error) {
	log := r.log.Function("GetCuisineStats")

	stats, err := gorm.G[CuisineStat](tx).
		Preload("Cuisine", nil).
		Where("user_id = ?", userID).
		Order("visit_count DESC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get cuisine stats", err, "userID", userID)
	}

	return stats, nil
}

// TopLocations lists visited restaurants with coordinates, most visited first.
// Ties go to the more recent visit, then to the restaurant name.
func (r *visitRepository) TopLocations(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]types.FrequentLocation, error) {
	log := r.log.Function("TopLocations")

	locations := []types.FrequentLocation{}
	if limit <= 0 {
		return locations, nil
	}

	err := tx.WithContext(ctx).
		Table("visit_records").
		Select(
			"restaurants.id AS restaurant_id, restaurants.name AS restaurant_name, " +
				"restaurants.latitude AS latitude, restaurants.longitude AS longitude, " +
				"visit_records.visit_count AS visit_count",
		).
		Joins("JOIN restaurants ON restaurants.id = visit_records.restaurant_id").
		Where("visit_records.user_id = ?", userID).
		Where("restaurants.latitude IS NOT NULL AND restaurants.longitude IS NOT NULL").
		Order("visit_records.visit_count DESC").
		Order("visit_records.last_visit_date DESC").
		Order("restaurants.name ASC").
		Limit(limit).
		Scan(&locations).Error
	if err != nil {
		return nil, log.Err("failed to get frequent locations", err, "userID", userID)
	}

	return locations, nil
}

// TopCuisines lists cuisine names by visit count, ties broken by name.
func (r *visitRepository) TopCuisines(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]string, error) {
	log := r.log.Function("TopCuisines")

	names := []string{}
	if limit <= 0 {
		return names, nil
	}

	err := tx.WithContext(ctx).
		Table("cuisine_stats").
		Joins("JOIN cuisines ON cuisines.id = cuisine_stats.cuisine_id").
		Where("cuisine_stats.user_id = ?", userID).
		Order("cuisine_stats.visit_count DESC").
		Order("cuisines.name ASC").
		Limit(limit).
		Pluck("cuisines.name", &names).Error
	if err != nil {
		return nil, log.Err("failed to get top cuisines", err, "userID", userID)
	}

	return names, nil
}
