package controllers

import (
	"lunchlog/internal/database"
	"lunchlog/internal/jobs"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"

	receiptController "lunchlog/internal/controllers/receipts"
	recommendationController "lunchlog/internal/controllers/recommendations"
	restaurantController "lunchlog/internal/controllers/restaurants"
)

type Controllers struct {
	Receipt        receiptController.ReceiptControllerInterface
	Recommendation recommendationController.RecommendationControllerInterface
	Restaurant     restaurantController.RestaurantControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	enqueuer jobs.Enqueuer,
	db database.DB,
) Controllers {
	return Controllers{
		Receipt:        receiptController.New(repos, services, enqueuer, db),
		Recommendation: recommendationController.New(services),
		Restaurant:     restaurantController.New(repos, services, enqueuer, db),
	}
}
