package repositories

import (
	"context"
	"strings"

	. "lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CuisineRepository interface {
	FindOrCreateByNames(ctx context.Context, tx *gorm.DB, names []string) ([]Cuisine, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]Cuisine, error)
}

type cuisineRepository struct {
	log logger.Logger
}

func NewCuisineRepository() CuisineRepository {
	return &cuisineRepository{
		log: logger.New("cuisineRepository"),
	}
}

// FindOrCreateByNames returns one cuisine per distinct non-empty name, in input
// order, inserting any that do not exist yet.
func (r *cuisineRepository) FindOrCreateByNames(
	ctx context.Context,
	tx *gorm.DB,
	names []string,
) ([]Cuisine, error) {
	log := r.log.Function("FindOrCreateByNames")

	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}

	if len(unique) == 0 {
		return []Cuisine{}, nil
	}

	rows := make([]Cuisine, 0, len(unique))
	for _, name := range unique {
		rows = append(rows, Cuisine{Name: name})
	}

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&rows).Error
	if err != nil {
		return nil, log.Err("failed to insert cuisines", err, "names", unique)
	}

	existing, err := gorm.G[Cuisine](tx).Where("name IN ?", unique).Find(ctx)
	if err != nil {
		return nil, log.Err("failed to load cuisines", err, "names", unique)
	}

	byName := make(map[string]Cuisine, len(existing))
	for _, cuisine := range existing {
		byName[cuisine.Name] = cuisine
	}

	cuisines := make([]Cuisine, 0, len(unique))
	for _, name := range unique {
		if cuisine, ok := byName[name]; ok {
			cuisines = append(cuisines, cuisine)
		}
	}

	return cuisines, nil
}

func (r *cuisineRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]Cuisine, error) {
	log := r.log.Function("GetAll")

	cuisines, err := gorm.G[Cuisine](tx).Order("name ASC").Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get cuisines", err)
	}

	return cuisines, nil
}
