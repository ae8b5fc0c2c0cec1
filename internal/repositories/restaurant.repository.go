package repositories

import (
	"context"

	. "lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RestaurantRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Restaurant, error)
	GetByPlaceID(ctx context.Context, tx *gorm.DB, placeID string) (*Restaurant, error)
	FindByNameAndAddress(
		ctx context.Context,
		tx *gorm.DB,
		name string,
		address string,
	) (*Restaurant, error)
	Create(ctx context.Context, tx *gorm.DB, restaurant *Restaurant) error
	CreateByPlaceID(ctx context.Context, tx *gorm.DB, restaurant *Restaurant) (*Restaurant, error)
	UpdateFields(
		ctx context.Context,
		tx *gorm.DB,
		id uuid.UUID,
		updates map[string]any,
	) error
	ReplaceCuisines(
		ctx context.Context,
		tx *gorm.DB,
		restaurant *Restaurant,
		cuisines []Cuisine,
	) error
	GetCuisineIDs(ctx context.Context, tx *gorm.DB, restaurantID uuid.UUID) ([]uuid.UUID, error)
	ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error)
}

type restaurantRepository struct {
	log logger.Logger
}

func NewRestaurantRepository() RestaurantRepository {
	return &restaurantRepository{
		log: logger.New("restaurantRepository"),
	}
}

// GetByID returns gorm.ErrRecordNotFound unwrapped when no row matches.
func (r *restaurantRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Restaurant, error) {
	log := r.log.Function("GetByID")

	restaurant, err := gorm.G[*Restaurant](tx).
		Preload("Cuisines", nil).
		Where("id = ?", id).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get restaurant by id", err, "id", id)
	}

	return restaurant, nil
}

func (r *restaurantRepository) GetByPlaceID(
	ctx context.Context,
	tx *gorm.DB,
	placeID string,
) (*Restaurant, error) {
	log := r.log.Function("GetByPlaceID")

	restaurant, err := gorm.G[*Restaurant](tx).
		Preload("Cuisines", nil).
		Where("place_id = ?", placeID).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get restaurant by place id", err, "placeID", placeID)
	}

	return restaurant, nil
}

func (r *restaurantRepository) FindByNameAndAddress(
	ctx context.Context,
	tx *gorm.DB,
	name string,
	address string,
) (*Restaurant, error) {
	log := r.log.Function("FindByNameAndAddress")

	restaurant, err := gorm.G[*Restaurant](tx).
		Preload("Cuisines", nil).
		Where("LOWER(name) = LOWER(?) AND LOWER(address) = LOWER(?)", name, address).
		Order("created_at ASC").
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to find restaurant", err, "name", name, "address", address)
	}

	return restaurant, nil
}

// Create inserts the restaurant row and links any cuisines already persisted.
func (r *restaurantRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	restaurant *Restaurant,
) error {
	log := r.log.Function("Create")

	cuisines := restaurant.Cuisines
	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(restaurant).Error; err != nil {
		return log.Err(
			"failed to create restaurant",
			err,
			"placeID",
			restaurant.PlaceID,
			"name",
			restaurant.Name,
		)
	}

	if len(cuisines) == 0 {
		return nil
	}

	return r.ReplaceCuisines(ctx, tx, restaurant, cuisines)
}

// CreateByPlaceID inserts restaurant unless its place id is already taken, in
// which case the stored row is returned instead.
func (r *restaurantRepository) CreateByPlaceID(
	ctx context.Context,
	tx *gorm.DB,
	restaurant *Restaurant,
) (*Restaurant, error) {
	log := r.log.Function("CreateByPlaceID")

	cuisines := restaurant.Cuisines
	result := tx.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "place_id"}},
			DoNothing: true,
		}).
		Create(restaurant)
	if result.Error != nil {
		return nil, log.Err("failed to create restaurant", result.Error, "placeID", restaurant.PlaceID)
	}

	if result.RowsAffected == 0 {
		return r.GetByPlaceID(ctx, tx, restaurant.PlaceID)
	}

	if len(cuisines) > 0 {
		if err := r.ReplaceCuisines(ctx, tx, restaurant, cuisines); err != nil {
			return nil, err
		}
	}
	return restaurant, nil
}

func (r *restaurantRepository) UpdateFields(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	updates map[string]any,
) error {
	log := r.log.Function("UpdateFields")

	if len(updates) == 0 {
		return nil
	}

	// Model hooks validate whole rows and would reject the empty model used here.
	result := tx.WithContext(ctx).
		Session(&gorm.Session{SkipHooks: true}).
		Model(&Restaurant{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return log.Err("failed to update restaurant", result.Error, "id", id)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ReplaceCuisines swaps the full cuisine association. Cuisines must already
// be persisted.
func (r *restaurantRepository) ReplaceCuisines(
	ctx context.Context,
	tx *gorm.DB,
	restaurant *Restaurant,
	cuisines []Cuisine,
) error {
	log := r.log.Function("ReplaceCuisines")

	err := tx.WithContext(ctx).
		Model(restaurant).
		Association("Cuisines").
		Replace(cuisines)
	if err != nil {
		return log.Err("failed to replace restaurant cuisines", err, "id", restaurant.ID)
	}

	restaurant.Cuisines = cuisines
	return nil
}

func (r *restaurantRepository) ListIDs(ctx context.Context, tx *gorm.DB) ([]uuid.UUID, error) {
	log := r.log.Function("ListIDs")

	var ids []uuid.UUID
	if err := tx.WithContext(ctx).Model(&Restaurant{}).Order("updated_at ASC").Pluck("id", &ids).Error; err != nil {
		return nil, log.Err("failed to list restaurant ids", err)
	}

	return ids, nil
}

// GetCuisineIDs reads the current association straight from the join table.
func (r *restaurantRepository) GetCuisineIDs(
	ctx context.Context,
	tx *gorm.DB,
	restaurantID uuid.UUID,
) ([]uuid.UUID, error) {
	log := r.log.Function("GetCuisineIDs")

	var ids []uuid.UUID
	err := tx.WithContext(ctx).
		Table("restaurant_cuisines").
		Where("restaurant_id = ?", restaurantID).
		Order("cuisine_id ASC").
		Pluck("cuisine_id", &ids).Error
	if err != nil {
		return nil, log.Err("failed to get restaurant cuisine ids", err, "restaurantID", restaurantID)
	}

	return ids, nil
}
