package restaurantController

import (
	"context"
	"testing"
	"time"

	"lunchlog/config"
	"lunchlog/internal/database"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"
	"lunchlog/internal/types"
	"lunchlog/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEnqueuer struct {
	queued  []uuid.UUID
	reasons []string
}

func (r *recordingEnqueuer) Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error {
	r.queued = append(r.queued, restaurantID)
	r.reasons = append(r.reasons, reason)
	return nil
}

func setup(t *testing.T) (RestaurantControllerInterface, *recordingEnqueuer, repositories.Repository, database.DB) {
	t.Helper()

	sqlDB, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(sqlDB))
	t.Cleanup(func() {
		if conn, err := sqlDB.DB(); err == nil {
			_ = conn.Close()
		}
	})

	db := database.DB{SQL: sqlDB}
	repos := repositories.New(db)
	enqueuer := &recordingEnqueuer{}
	controller := New(repos, services.New(db, config.Config{}, repos), enqueuer, db)

	return controller, enqueuer, repos, db
}

func TestRestaurantController_CreateStub(t *testing.T) {
	controller, enqueuer, _, _ := setup(t)
	ctx := context.Background()

	restaurant, err := controller.Create(ctx, &CreateRestaurantRequest{Name: "  Pho   House ", Address: "9 Elm St"})
	require.NoError(t, err)
	assert.Equal(t, "Pho House", restaurant.Name)
	assert.True(t, utils.IsStubPlaceID(restaurant.PlaceID))
	assert.Equal(t, []uuid.UUID{restaurant.ID}, enqueuer.queued)
	assert.Equal(t, []string{types.EnrichmentReasonCreate}, enqueuer.reasons)

	fetched, err := controller.Get(ctx, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, restaurant.PlaceID, fetched.PlaceID)
}

func TestRestaurantController_CreateByPlaceIDIsIdempotent(t *testing.T) {
	controller, _, _, _ := setup(t)
	ctx := context.Background()

	first, err := controller.Create(ctx, &CreateRestaurantRequest{PlaceID: "ChIJ-123", Name: "Cafe"})
	require.NoError(t, err)

	second, err := controller.Create(ctx, &CreateRestaurantRequest{PlaceID: "ChIJ-123"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestRestaurantController_CreateValidation(t *testing.T) {
	controller, enqueuer, _, _ := setup(t)

	_, err := controller.Create(context.Background(), &CreateRestaurantRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = controller.Create(context.Background(), nil)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, enqueuer.queued)
}

func TestRestaurantController_RequestEnrichment(t *testing.T) {
	controller, enqueuer, _, _ := setup(t)
	ctx := context.Background()

	err := controller.RequestEnrichment(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, enqueuer.queued)

	restaurant, err := controller.Create(ctx, &CreateRestaurantRequest{Name: "Bistro"})
	require.NoError(t, err)

	require.NoError(t, controller.RequestEnrichment(ctx, restaurant.ID))
	require.Len(t, enqueuer.reasons, 2)
	assert.Equal(t, types.EnrichmentReasonManual, enqueuer.reasons[1])
}

func TestRestaurantController_GetVisitsAndRuns(t *testing.T) {
	controller, _, repos, db := setup(t)
	ctx := context.Background()

	user := &User{Subject: "visitor", DisplayName: "Visitor", IsActive: true}
	require.NoError(t, db.SQL.Create(user).Error)

	restaurant, err := controller.Create(ctx, &CreateRestaurantRequest{Name: "Diner"})
	require.NoError(t, err)

	_, err = controller.GetVisits(ctx, user, restaurant.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	visitDate := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repos.Visit.IncrementVisit(ctx, db.SQL, user.ID, restaurant.ID, visitDate))

	record, err := controller.GetVisits(ctx, user, restaurant.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, record.VisitCount)

	require.NoError(t, repos.EnrichmentRun.Create(ctx, db.SQL, &EnrichmentRun{
		RestaurantID: restaurant.ID,
		Status:       EnrichmentStatusSuccess,
		Attempts:     1,
	}))

	runs, err := controller.GetEnrichmentRuns(ctx, restaurant.ID, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
