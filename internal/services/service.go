package services

import (
	"lunchlog/config"
	"lunchlog/internal/database"
	"lunchlog/internal/repositories"
)

type Service struct {
	Auth           *AuthService
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Places         *PlacesService
	VisitLedger    *VisitLedgerService
	Preference     *PreferenceService
	Recommendation *RecommendationService
	Restaurant     *RestaurantService
	Enrichment     *EnrichmentService
}

func New(db database.DB, config config.Config, repos repositories.Repository) Service {
	transactionService := NewTransactionService(db)
	placesService := NewPlacesService(config)
	preferenceService := NewPreferenceService(repos, db.SQL)

	return Service{
		Auth:           NewAuthService(config),
		Transaction:    transactionService,
		Scheduler:      NewSchedulerService(),
		Places:         placesService,
		VisitLedger:    NewVisitLedgerService(repos),
		Preference:     preferenceService,
		Recommendation: NewRecommendationService(preferenceService, placesService),
		Restaurant:     NewRestaurantService(repos, placesService),
		Enrichment:     NewEnrichmentService(repos, db.SQL, transactionService, placesService),
	}
}
