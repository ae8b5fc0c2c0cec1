package seed

import (
	"context"
	"time"

	"lunchlog/config"
	"lunchlog/internal/database"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedRestaurant struct {
	placeID    string
	name       string
	address    string
	latitude   float64
	longitude  float64
	priceLevel int
	rating     string
	cuisines   []string
	visits     int
}

var demoRestaurants = []seedRestaurant{
	{
		placeID:    "seed-trattoria",
		name:       "Trattoria Demo",
		address:    "12 Market St",
		latitude:   40.7411,
		longitude:  -73.9897,
		priceLevel: 2,
		rating:     "4.5",
		cuisines:   []string{"Italian Restaurant", "Pizza Restaurant"},
		visits:     4,
	},
	{
		placeID:    "seed-noodles",
		name:       "Noodle Counter",
		address:    "48 Canal St",
		latitude:   40.7180,
		longitude:  -74.0007,
		priceLevel: 1,
		rating:     "4.2",
		cuisines:   []string{"Ramen Restaurant", "Japanese Restaurant"},
		visits:     2,
	},
	{
		placeID:    "seed-deli",
		name:       "Corner Deli",
		address:    "3 Elm St",
		latitude:   40.7306,
		longitude:  -73.9866,
		priceLevel: 1,
		rating:     "3.9",
		cuisines:   []string{"Deli", "Sandwich Shop"},
		visits:     1,
	},
}

func stringPtr(s string) *string {
	return &s
}

// Seed creates a demo user with a short lunch history.
func Seed(db *gorm.DB, config config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()
	repos := repositories.New(database.DB{SQL: db})
	ledger := services.NewVisitLedgerService(repos)

	user := &User{
		Subject:     "demo-user",
		Email:       stringPtr("demo@example.com"),
		DisplayName: "Demo User",
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		return log.Err("failed to create user", err)
	}

	start := time.Now().UTC().AddDate(0, 0, -30)

	for _, seeded := range demoRestaurants {
		cuisines, err := repos.Cuisine.FindOrCreateByNames(ctx, db, seeded.cuisines)
		if err != nil {
			return log.Err("failed to create cuisines", err, "restaurant", seeded.name)
		}

		latitude, longitude := seeded.latitude, seeded.longitude
		rating := decimal.RequireFromString(seeded.rating)
		restaurant := &Restaurant{
			PlaceID:    seeded.placeID,
			Name:       seeded.name,
			Address:    seeded.address,
			Latitude:   &latitude,
			Longitude:  &longitude,
			Rating:     &rating,
			Cuisines:   cuisines,
		}
		if err := repos.Restaurant.Create(ctx, db, restaurant); err != nil {
			return log.Err("failed to create restaurant", err, "restaurant", seeded.name)
		}

		for visit := range seeded.visits {
			date := start.AddDate(0, 0, visit*7)
			err := db.Transaction(func(tx *gorm.DB) error {
				receipt := &Receipt{
					UserID:         user.ID,
					RestaurantID:   &restaurant.ID,
					Date:           date,
					Price:          decimal.NewFromInt(int64(10 + 3*seeded.priceLevel)),
					RestaurantName: restaurant.Name,
					Address:        restaurant.Address,
				}
				if err := repos.Receipt.Create(ctx, tx, receipt); err != nil {
					return err
				}
				ledger.RecordVisit(ctx, tx, user.ID, restaurant, date)
				return nil
			})
			if err != nil {
				return log.Err("failed to create receipt", err, "restaurant", seeded.name)
			}
		}

		log.Info("Seeded restaurant", "name", seeded.name, "visits", seeded.visits)
	}

	return nil
}
