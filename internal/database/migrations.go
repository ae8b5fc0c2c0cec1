package database

import (
	"lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

// AllModels lists every persisted model in dependency order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Cuisine{},
		&models.Restaurant{},
		&models.Receipt{},
		&models.VisitRecord{},
		&models.CuisineStat{},
		&models.EnrichmentRun{},
	}
}

// MigrateModels runs GORM AutoMigrate for all models
func MigrateModels(db *gorm.DB) error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	for _, model := range AllModels() {
		if err := db.AutoMigrate(model); err != nil {
			return log.Err("Failed to migrate model", err, "model", model)
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}
