package services

import (
	"context"
	"errors"
	"testing"

	"lunchlog/internal/types"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPreferenceReader struct {
	mock.Mock
}

func (m *mockPreferenceReader) GetFrequentLocations(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]types.FrequentLocation, error) {
	args := m.Called(ctx, userID, limit)
	locations, _ := args.Get(0).([]types.FrequentLocation)
	return locations, args.Error(1)
}

func (m *mockPreferenceReader) GetTopCuisines(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
) ([]string, error) {
	args := m.Called(ctx, userID, limit)
	cuisines, _ := args.Get(0).([]string)
	return cuisines, args.Error(1)
}

var (
	homeLocation = types.FrequentLocation{
		RestaurantName: "Luigi's",
		Latitude:       1,
		Longitude:      1,
		VisitCount:     7,
	}
	officeLocation = types.FrequentLocation{
		RestaurantName: "Pho 99",
		Latitude:       2,
		Longitude:      2,
		VisitCount:     3,
	}
)

func TestMergeRecommendations_DedupKeepsFirstLocation(t *testing.T) {
	perLocation := [][]types.Recommendation{
		{
			{PlaceID: "shared", Rating: rating(4.1), ReferenceLocation: types.ReferenceLocation{RestaurantName: "Luigi's"}},
			{PlaceID: "", Rating: rating(5.0)},
		},
		{
			{PlaceID: "shared", Rating: rating(4.9), ReferenceLocation: types.ReferenceLocation{RestaurantName: "Pho 99"}},
			{PlaceID: "other", Rating: rating(3.0)},
		},
	}

	merged := mergeRecommendations(perLocation, 10)

	require.Len(t, merged, 2)
	assert.Equal(t, "shared", merged[0].PlaceID)
	assert.Equal(t, 4.1, *merged[0].Rating)
	assert.Equal(t, "Luigi's", merged[0].ReferenceLocation.RestaurantName)
	assert.Equal(t, "other", merged[1].PlaceID)
}

func TestMergeRecommendations_SortsMissingRatingLast(t *testing.T) {
	perLocation := [][]types.Recommendation{
		{
			{PlaceID: "a", Rating: rating(3.0)},
			{PlaceID: "b"},
		},
		{
			{PlaceID: "c", Rating: rating(4.8)},
			{PlaceID: "d", Rating: rating(4.2)},
		},
	}

	merged := mergeRecommendations(perLocation, 10)

	ids := []string{}
	for _, recommendation := range merged {
		ids = append(ids, recommendation.PlaceID)
	}
	assert.Equal(t, []string{"c", "d", "a", "b"}, ids)
	assert.Nil(t, merged[3].Rating)
}

func TestMergeRecommendations_Truncates(t *testing.T) {
	perLocation := [][]types.Recommendation{
		{{PlaceID: "a", Rating: rating(1)}, {PlaceID: "b", Rating: rating(2)}, {PlaceID: "c", Rating: rating(3)}},
	}

	merged := mergeRecommendations(perLocation, 2)

	require.Len(t, merged, 2)
	assert.Equal(t, "c", merged[0].PlaceID)
	assert.Equal(t, "b", merged[1].PlaceID)
}

func TestRecommendationService_EmptyHistoryMakesNoCalls(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{}, nil)
	gateway := newFakePlacesGateway()

	service := NewRecommendationService(preferences, gateway)

	for _, kind := range types.AllRecommendationKinds {
		recommendations, err := service.GetRecommendations(
			context.Background(),
			userID,
			kind,
			types.DefaultRecommendationOptions(),
		)
		require.NoError(t, err)
		assert.Empty(t, recommendations)
	}

	_, _, nearbyCalls := gateway.calls()
	assert.Zero(t, nearbyCalls)
	preferences.AssertNotCalled(t, "GetTopCuisines", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommendationService_KindFilters(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{homeLocation}, nil)
	preferences.On("GetTopCuisines", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]string{"Italian"}, nil)

	tests := []struct {
		kind   types.RecommendationKind
		assert func(t *testing.T, search types.NearbySearch)
	}{
		{
			kind: types.HighlyRated,
			assert: func(t *testing.T, search types.NearbySearch) {
				require.NotNil(t, search.MinRating)
				assert.Equal(t, 4.0, *search.MinRating)
				assert.Nil(t, search.MaxPriceLevel)
				assert.Empty(t, search.Cuisines)
			},
		},
		{
			kind: types.Budget,
			assert: func(t *testing.T, search types.NearbySearch) {
				assert.Nil(t, search.MinRating)
				require.NotNil(t, search.MaxPriceLevel)
				assert.Equal(t, 1, *search.MaxPriceLevel)
			},
		},
		{
			kind: types.CuisineMatch,
			assert: func(t *testing.T, search types.NearbySearch) {
				assert.Nil(t, search.MinRating)
				assert.Nil(t, search.MaxPriceLevel)
				assert.Equal(t, []string{"Italian"}, search.Cuisines)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			gateway := newFakePlacesGateway()
			service := NewRecommendationService(preferences, gateway)

			_, err := service.GetRecommendations(
				context.Background(),
				userID,
				tt.kind,
				types.RecommendationOptions{Limit: 5, Radius: 800, PerLocationLimit: 7},
			)
			require.NoError(t, err)

			require.Len(t, gateway.searches, 1)
			search := gateway.searches[0]
			assert.Equal(t, 800, search.Radius)
			assert.Equal(t, 7, search.Limit)
			assert.Equal(t, homeLocation.Latitude, search.Latitude)
			tt.assert(t, search)
		})
	}
}

func TestRecommendationService_CuisineMatchWithoutCuisines(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{homeLocation}, nil)
	preferences.On("GetTopCuisines", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]string{}, nil)
	gateway := newFakePlacesGateway()

	service := NewRecommendationService(preferences, gateway)
	recommendations, err := service.GetRecommendations(
		context.Background(),
		userID,
		types.CuisineMatch,
		types.RecommendationOptions{},
	)

	require.NoError(t, err)
	assert.Empty(t, recommendations)
	_, _, nearbyCalls := gateway.calls()
	assert.Zero(t, nearbyCalls)
}

func TestRecommendationService_AnnotatesAndMergesAcrossLocations(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{homeLocation, officeLocation}, nil)
	preferences.On("GetTopCuisines", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]string{"italian", "pizza"}, nil)

	gateway := newFakePlacesGateway()
	gateway.nearby = func(search types.NearbySearch) []types.NearbyPlace {
		if search.Latitude == homeLocation.Latitude {
			return []types.NearbyPlace{
				{PlaceID: "shared", Name: "Slice", Rating: rating(4.0), Cuisines: []string{"Pizza Restaurant"}},
			}
		}
		return []types.NearbyPlace{
			{PlaceID: "shared", Name: "Slice", Rating: rating(4.5), Cuisines: []string{"Pizza Restaurant"}},
			{
				PlaceID:  "nonna",
				Name:     "Nonna",
				Rating:   rating(4.7),
				Cuisines: []string{"Italian Restaurant", "Bar"},
			},
		}
	}

	service := NewRecommendationService(preferences, gateway)
	recommendations, err := service.GetRecommendations(
		context.Background(),
		userID,
		types.CuisineMatch,
		types.RecommendationOptions{Limit: 10},
	)

	require.NoError(t, err)
	require.Len(t, recommendations, 2)

	assert.Equal(t, "nonna", recommendations[0].PlaceID)
	assert.Equal(t, types.CuisineMatch, recommendations[0].Kind)
	assert.Equal(t, []string{"Italian Restaurant"}, recommendations[0].MatchedCuisines)
	assert.Equal(t, "Pho 99", recommendations[0].ReferenceLocation.RestaurantName)

	assert.Equal(t, "shared", recommendations[1].PlaceID)
	assert.Equal(t, 4.0, *recommendations[1].Rating)
	assert.Equal(t, types.ReferenceLocation{RestaurantName: "Luigi's", VisitCount: 7}, recommendations[1].ReferenceLocation)
}

func TestRecommendationService_LocationPanicContributesNothing(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{homeLocation, officeLocation}, nil)

	gateway := newFakePlacesGateway()
	gateway.nearby = func(search types.NearbySearch) []types.NearbyPlace {
		if search.Latitude == homeLocation.Latitude {
			panic("boom")
		}
		return []types.NearbyPlace{{PlaceID: "ok", Rating: rating(4.5)}}
	}

	service := NewRecommendationService(preferences, gateway)
	recommendations, err := service.GetRecommendations(
		context.Background(),
		userID,
		types.HighlyRated,
		types.RecommendationOptions{},
	)

	require.NoError(t, err)
	require.Len(t, recommendations, 1)
	assert.Equal(t, "ok", recommendations[0].PlaceID)
}

func TestRecommendationService_Errors(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return(nil, errors.New("db down"))

	service := NewRecommendationService(preferences, newFakePlacesGateway())

	_, err := service.GetRecommendations(context.Background(), userID, types.RecommendationKind(42), types.RecommendationOptions{})
	assert.ErrorIs(t, err, types.ErrInvalidKind)

	_, err = service.GetRecommendations(context.Background(), userID, types.Budget, types.RecommendationOptions{})
	assert.Error(t, err)
}

func TestRecommendationService_GetAllRecommendations(t *testing.T) {
	userID := uuid.New()
	preferences := &mockPreferenceReader{}
	preferences.On("GetFrequentLocations", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]types.FrequentLocation{homeLocation}, nil)
	preferences.On("GetTopCuisines", mock.Anything, userID, types.PreferenceAnchorLimit).
		Return([]string{"Thai"}, nil)

	gateway := newFakePlacesGateway()
	gateway.nearby = func(search types.NearbySearch) []types.NearbyPlace {
		return FilterNearbyPlaces([]types.NearbyPlace{
			{PlaceID: "star", Rating: rating(4.8), PriceLevel: priceLevel(3), Cuisines: []string{"French Restaurant"}},
			{PlaceID: "cheap", Rating: rating(3.9), PriceLevel: priceLevel(1), Cuisines: []string{"Thai Restaurant"}},
		}, search)
	}

	service := NewRecommendationService(preferences, gateway)
	bundle, err := service.GetAllRecommendations(context.Background(), userID, types.RecommendationOptions{Limit: 10})

	require.NoError(t, err)
	require.Len(t, bundle.HighlyRated, 1)
	assert.Equal(t, "star", bundle.HighlyRated[0].PlaceID)
	require.Len(t, bundle.Budget, 1)
	assert.Equal(t, "cheap", bundle.Budget[0].PlaceID)
	require.Len(t, bundle.CuisineMatch, 1)
	assert.Equal(t, "cheap", bundle.CuisineMatch[0].PlaceID)
	assert.Equal(t, types.CuisineMatch, bundle.CuisineMatch[0].Kind)

	_, _, nearbyCalls := gateway.calls()
	assert.Equal(t, 3, nearbyCalls)
}
