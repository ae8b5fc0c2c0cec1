package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"lunchlog/internal/database"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/types"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.MigrateModels(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func testRepos(db *gorm.DB) repositories.Repository {
	return repositories.New(database.DB{SQL: db})
}

func createUser(t *testing.T, db *gorm.DB, subject string) *User {
	t.Helper()
	user := &User{Subject: subject, DisplayName: subject, IsActive: true}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createRestaurant(
	t *testing.T,
	db *gorm.DB,
	placeID, name string,
	lat, lng *float64,
	cuisines ...string,
) *Restaurant {
	t.Helper()
	ctx := context.Background()
	repos := testRepos(db)

	found, err := repos.Cuisine.FindOrCreateByNames(ctx, db, cuisines)
	require.NoError(t, err)

	restaurant := &Restaurant{
		PlaceID:   placeID,
		Name:      name,
		Address:   "1 Main St",
		Latitude:  lat,
		Longitude: lng,
		Cuisines:  found,
	}
	require.NoError(t, repos.Restaurant.Create(ctx, db, restaurant))
	return restaurant
}

func coord(v float64) *float64 { return &v }

func rating(v float64) *float64 { return &v }

func priceLevel(v int) *int { return &v }

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

// fakePlacesGateway serves canned places data and counts calls.
type fakePlacesGateway struct {
	mu           sync.Mutex
	candidates   map[string]*types.PlaceCandidate
	details      map[string]*types.PlaceDetails
	nearby       func(search types.NearbySearch) []types.NearbyPlace
	findCalls    int
	detailsCalls int
	nearbyCalls  int
	searches     []types.NearbySearch
}

func newFakePlacesGateway() *fakePlacesGateway {
	return &fakePlacesGateway{
		candidates: map[string]*types.PlaceCandidate{},
		details:    map[string]*types.PlaceDetails{},
	}
}

func (f *fakePlacesGateway) FindPlaceByText(ctx context.Context, query string) *types.PlaceCandidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.findCalls++
	return f.candidates[query]
}

func (f *fakePlacesGateway) FetchPlaceDetails(ctx context.Context, placeID string) *types.PlaceDetails {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detailsCalls++
	details, ok := f.details[placeID]
	if !ok {
		return nil
	}
	copied := *details
	return &copied
}

func (f *fakePlacesGateway) SearchNearby(ctx context.Context, search types.NearbySearch) []types.NearbyPlace {
	f.mu.Lock()
	f.nearbyCalls++
	f.searches = append(f.searches, search)
	nearby := f.nearby
	f.mu.Unlock()

	if nearby == nil {
		return []types.NearbyPlace{}
	}
	return nearby(search)
}

func (f *fakePlacesGateway) calls() (find, details, nearby int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.findCalls, f.detailsCalls, f.nearbyCalls
}
