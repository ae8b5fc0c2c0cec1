package repositories

import (
	"lunchlog/internal/database"
)

type Repository struct {
	User          UserRepository
	Restaurant    RestaurantRepository
	Cuisine       CuisineRepository
	Visit         VisitRepository
	Receipt       ReceiptRepository
	EnrichmentRun EnrichmentRunRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:          NewUserRepository(db),
		Restaurant:    NewRestaurantRepository(),
		Cuisine:       NewCuisineRepository(),
		Visit:         NewVisitRepository(),
		Receipt:       NewReceiptRepository(),
		EnrichmentRun: NewEnrichmentRunRepository(),
	}
}
