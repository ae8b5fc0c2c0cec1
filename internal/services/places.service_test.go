package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lunchlog/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlacesTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	return server, &hits
}

func TestPlacesService_FindPlaceByText(t *testing.T) {
	server, _ := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/findplacefromtext/json", r.URL.Path)
		assert.Equal(t, "Luigi's, 1 Main St", r.URL.Query().Get("input"))
		assert.Equal(t, "textquery", r.URL.Query().Get("inputtype"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"candidates": [{
				"place_id": "ChIJ123",
				"name": "Luigi's",
				"formatted_address": "1 Main St, Springfield",
				"geometry": {"location": {"lat": 40.1, "lng": -74.2}}
			}]
		}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)
	candidate := service.FindPlaceByText(context.Background(), "Luigi's, 1 Main St")

	require.NotNil(t, candidate)
	assert.Equal(t, "ChIJ123", candidate.PlaceID)
	assert.Equal(t, "1 Main St, Springfield", candidate.FormattedAddress)
	require.NotNil(t, candidate.Location)
	assert.Equal(t, 40.1, candidate.Location.Lat)
}

func TestPlacesService_FindPlaceByText_ZeroResults(t *testing.T) {
	server, _ := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "ZERO_RESULTS", "candidates": []}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)

	assert.Nil(t, service.FindPlaceByText(context.Background(), "nowhere"))
	assert.Nil(t, service.FindPlaceByText(context.Background(), "   "))
}

func TestPlacesService_FetchPlaceDetails(t *testing.T) {
	server, _ := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/details/json", r.URL.Path)
		assert.Equal(t, "ChIJ123", r.URL.Query().Get("place_id"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"result": {
				"place_id": "ChIJ123",
				"name": "Luigi's Trattoria",
				"formatted_address": "1 Main St, Springfield",
				"geometry": {"location": {"lat": 40.1, "lng": -74.2}},
				"rating": 4.6,
				"price_level": 2,
				"business_status": "OPERATIONAL",
				"types": ["restaurant", "italian_restaurant", "food", "establishment"]
			}
		}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)
	details := service.FetchPlaceDetails(context.Background(), "ChIJ123")

	require.NotNil(t, details)
	assert.Equal(t, "Luigi's Trattoria", details.Name)
	assert.Equal(t, []string{"Italian Restaurant"}, details.Cuisines)
	assert.Equal(t, "OPERATIONAL", details.BusinessStatus)
	require.NotNil(t, details.Rating)
	assert.Equal(t, 4.6, *details.Rating)
	require.NotNil(t, details.PriceLevel)
	assert.Equal(t, 2, *details.PriceLevel)
}

func TestPlacesService_FetchPlaceDetails_MissingGeometry(t *testing.T) {
	server, _ := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK", "result": {"place_id": "ChIJ123", "name": "Luigi's"}}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)
	details := service.FetchPlaceDetails(context.Background(), "ChIJ123")

	require.NotNil(t, details)
	assert.Nil(t, details.Location)
	assert.Nil(t, details.Rating)
	assert.Empty(t, details.Cuisines)
}

func TestPlacesService_FailuresBecomeEmpty(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "non ok status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": "REQUEST_DENIED", "error_message": "bad key"}`))
			},
		},
		{
			name: "http error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"status": `))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(300 * time.Millisecond)
				_, _ = w.Write([]byte(`{"status": "OK", "results": []}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := newPlacesTestServer(t, tt.handler)
			service := newPlacesService("test-key", server.URL, 50*time.Millisecond, 100)
			ctx := context.Background()

			assert.Nil(t, service.FindPlaceByText(ctx, "Luigi's"))
			assert.Nil(t, service.FetchPlaceDetails(ctx, "ChIJ123"))
			assert.Empty(t, service.SearchNearby(ctx, types.NearbySearch{Latitude: 1, Longitude: 2, Radius: 500}))
		})
	}
}

func TestPlacesService_Disabled(t *testing.T) {
	server, hits := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK"}`))
	})

	service := newPlacesService("", server.URL, time.Second, 100)
	ctx := context.Background()

	assert.False(t, service.Enabled())
	assert.Nil(t, service.FindPlaceByText(ctx, "Luigi's"))
	assert.Nil(t, service.FetchPlaceDetails(ctx, "ChIJ123"))
	assert.Empty(t, service.SearchNearby(ctx, types.NearbySearch{Latitude: 1, Longitude: 2}))
	assert.Zero(t, hits.Load())
}

func TestPlacesService_StubIDNotFetched(t *testing.T) {
	server, hits := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": "OK"}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)

	assert.Nil(t, service.FetchPlaceDetails(context.Background(), "stub_0123456789abcdef"))
	assert.Zero(t, hits.Load())
}

func TestPlacesService_CircuitBreakerOpens(t *testing.T) {
	server, hits := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	service := newPlacesService("test-key", server.URL, time.Second, 1000)
	ctx := context.Background()

	for range 15 {
		assert.Nil(t, service.FetchPlaceDetails(ctx, "ChIJ123"))
	}

	assert.Equal(t, int32(10), hits.Load())
}

func TestPlacesService_SearchNearby(t *testing.T) {
	server, _ := newPlacesTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/place/nearbysearch/json", r.URL.Path)
		assert.Equal(t, "restaurant", r.URL.Query().Get("type"))
		assert.Equal(t, "1500", r.URL.Query().Get("radius"))
		_, _ = w.Write([]byte(`{
			"status": "OK",
			"results": [
				{"place_id": "a", "name": "A", "rating": 3.9, "vicinity": "1 A St", "types": ["restaurant"]},
				{"place_id": "b", "name": "B", "rating": 4.7, "vicinity": "2 B St", "types": ["thai_restaurant", "restaurant"]},
				{"place_id": "c", "name": "C", "vicinity": "3 C St", "types": ["cafe"]},
				{"place_id": "d", "name": "D", "rating": 4.2, "vicinity": "4 D St", "types": ["pizza_restaurant"]}
			]
		}`))
	})

	service := newPlacesService("test-key", server.URL, time.Second, 100)
	minRating := 4.0

	places := service.SearchNearby(context.Background(), types.NearbySearch{
		Latitude:  40.1,
		Longitude: -74.2,
		Radius:    1500,
		MinRating: &minRating,
		Limit:     10,
	})

	require.Len(t, places, 2)
	assert.Equal(t, "b", places[0].PlaceID)
	assert.Equal(t, []string{"Thai Restaurant"}, places[0].Cuisines)
	assert.Equal(t, "d", places[1].PlaceID)
}

func TestFilterNearbyPlaces(t *testing.T) {
	candidates := []types.NearbyPlace{
		{PlaceID: "cheap", Rating: rating(3.5), PriceLevel: priceLevel(1), Cuisines: []string{"Mexican Restaurant"}},
		{PlaceID: "unpriced", Rating: rating(4.9), Cuisines: []string{"Sushi Restaurant"}},
		{PlaceID: "pricey", Rating: rating(4.4), PriceLevel: priceLevel(3), Cuisines: []string{"Italian Restaurant"}},
		{PlaceID: "unrated", PriceLevel: priceLevel(0), Cuisines: []string{"Cafe"}},
		{PlaceID: "tie", Rating: rating(3.5), PriceLevel: priceLevel(1), Cuisines: []string{"Taco Restaurant"}},
	}

	tests := []struct {
		name     string
		search   types.NearbySearch
		expected []string
	}{
		{
			name:     "no filters sorts by rating",
			search:   types.NearbySearch{},
			expected: []string{"unpriced", "pricey", "cheap", "tie", "unrated"},
		},
		{
			name:     "min rating treats missing as zero",
			search:   types.NearbySearch{MinRating: rating(4.0)},
			expected: []string{"unpriced", "pricey"},
		},
		{
			name:     "max price excludes unknown price",
			search:   types.NearbySearch{MaxPriceLevel: priceLevel(1)},
			expected: []string{"cheap", "tie", "unrated"},
		},
		{
			name:     "cuisine substring match ignores case",
			search:   types.NearbySearch{Cuisines: []string{"mexican", "SUSHI"}},
			expected: []string{"unpriced", "cheap"},
		},
		{
			name:     "limit truncates after sort",
			search:   types.NearbySearch{Limit: 2},
			expected: []string{"unpriced", "pricey"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered := FilterNearbyPlaces(candidates, tt.search)

			ids := make([]string, 0, len(filtered))
			for _, place := range filtered {
				ids = append(ids, place.PlaceID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}
