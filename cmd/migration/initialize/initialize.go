package initialize

import (
	"context"

	"lunchlog/config"
	"lunchlog/internal/repositories"
	"lunchlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

func InitializeTables(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	if err := initializeCuisines(db, log); err != nil {
		return log.Err("failed to initialize cuisines", err)
	}

	log.Info("Table initialization complete")
	return nil
}

func initializeCuisines(db *gorm.DB, log logger.Logger) error {
	log.Info("Initializing cuisine reference data")

	labels := utils.KnownCuisineLabels()
	cuisines, err := repositories.NewCuisineRepository().FindOrCreateByNames(context.Background(), db, labels)
	if err != nil {
		return log.Err("failed to create cuisines", err)
	}

	log.Info("Cuisine reference data initialized", "count", len(cuisines))
	return nil
}
