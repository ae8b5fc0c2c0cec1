package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"lunchlog/config"
	"lunchlog/internal/metrics"
	"lunchlog/internal/types"
	"lunchlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"
)

const (
	PLACES_OPERATION_FIND    = "find_place"
	PLACES_OPERATION_DETAILS = "details"
	PLACES_OPERATION_NEARBY  = "nearby"

	PLACES_DETAILS_FIELDS = "place_id,name,formatted_address,geometry,rating,price_level,business_status,type"
	PLACES_FIND_FIELDS    = "place_id,name,formatted_address,geometry"

	// Missing price levels compare as more expensive than any tier.
	unknownPriceLevel = 5
)

var errPlacesNotFound = errors.New("place not found")

// PlacesGateway is the places lookup surface used by the rest of the service.
// Implementations never return errors: failures are reported as nil or empty.
type PlacesGateway interface {
	FindPlaceByText(ctx context.Context, query string) *types.PlaceCandidate
	FetchPlaceDetails(ctx context.Context, placeID string) *types.PlaceDetails
	SearchNearby(ctx context.Context, search types.NearbySearch) []types.NearbyPlace
}

type PlacesService struct {
	apiKey  string
	baseURL string
	timeout time.Duration
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	log     logger.Logger
}

func NewPlacesService(config config.Config) *PlacesService {
	return newPlacesService(
		config.GooglePlacesAPIKey,
		config.GooglePlacesBaseURL,
		config.PlacesTimeout(),
		config.PlacesRequestsPerSecond,
	)
}

func newPlacesService(
	apiKey string,
	baseURL string,
	timeout time.Duration,
	requestsPerSecond float64,
) *PlacesService {
	log := logger.New("PlacesService")

	if apiKey == "" {
		log.Warn("Places API key not configured, places lookups disabled")
	}

	if requestsPerSecond <= 0 {
		requestsPerSecond = config.DefaultPlacesRequestsPerSecond
	}

	metrics.PlacesCircuitState.Set(0)

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "places-api",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Function("OnStateChange").
				Warn("Places circuit breaker state change", "from", from.String(), "to", to.String())
			metrics.PlacesCircuitState.Set(breakerStateValue(to))
		},
	})

	return &PlacesService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), max(1, int(requestsPerSecond))),
		breaker: breaker,
		log:     log,
	}
}

func (s *PlacesService) Enabled() bool {
	return s.apiKey != ""
}

type placesLocation struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type placesGeometry struct {
	Location *placesLocation `json:"location"`
}

type placesResult struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	FormattedAddress string          `json:"formatted_address"`
	Vicinity         string          `json:"vicinity"`
	Geometry         *placesGeometry `json:"geometry"`
	Rating           *float64        `json:"rating"`
	PriceLevel       *int            `json:"price_level"`
	BusinessStatus   string          `json:"business_status"`
	Types            []string        `json:"types"`
}

func (r placesResult) location() *types.LatLng {
	if r.Geometry == nil || r.Geometry.Location == nil {
		return nil
	}
	if r.Geometry.Location.Lat == nil || r.Geometry.Location.Lng == nil {
		return nil
	}
	return &types.LatLng{Lat: *r.Geometry.Location.Lat, Lng: *r.Geometry.Location.Lng}
}

type placesResponse struct {
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message"`
	Candidates   []placesResult `json:"candidates"`
	Result       *placesResult  `json:"result"`
	Results      []placesResult `json:"results"`
}

func (s *PlacesService) FindPlaceByText(ctx context.Context, query string) *types.PlaceCandidate {
	log := s.log.Function("FindPlaceByText").TraceFromContext(ctx)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("inputtype", "textquery")
	params.Set("fields", PLACES_FIND_FIELDS)

	response, err := s.call(ctx, PLACES_OPERATION_FIND, "place/findplacefromtext/json", params)
	if err != nil {
		s.logFailure(log, "find place failed", err, "query", query)
		return nil
	}

	for _, candidate := range response.Candidates {
		if candidate.PlaceID == "" {
			continue
		}
		return &types.PlaceCandidate{
			PlaceID:          candidate.PlaceID,
			Name:             utils.NormalizeText(candidate.Name),
			FormattedAddress: utils.NormalizeText(candidate.FormattedAddress),
			Location:         candidate.location(),
		}
	}

	log.Info("No candidates for text query", "query", query)
	return nil
}

func (s *PlacesService) FetchPlaceDetails(ctx context.Context, placeID string) *types.PlaceDetails {
	log := s.log.Function("FetchPlaceDetails").TraceFromContext(ctx)

	if placeID == "" || utils.IsStubPlaceID(placeID) {
		return nil
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", PLACES_DETAILS_FIELDS)

	response, err := s.call(ctx, PLACES_OPERATION_DETAILS, "place/details/json", params)
	if err != nil {
		s.logFailure(log, "fetch place details failed", err, "placeID", placeID)
		return nil
	}

	if response.Result == nil || response.Result.PlaceID == "" {
		log.Warn("Place details response had no result", "placeID", placeID)
		return nil
	}

	result := response.Result
	placeTypes := result.Types
	if placeTypes == nil {
		placeTypes = []string{}
	}

	return &types.PlaceDetails{
		PlaceID:          result.PlaceID,
		Name:             utils.NormalizeText(result.Name),
		FormattedAddress: utils.NormalizeText(result.FormattedAddress),
		Location:         result.location(),
		Rating:           result.Rating,
		PriceLevel:       result.PriceLevel,
		BusinessStatus:   result.BusinessStatus,
		Types:            placeTypes,
		Cuisines:         utils.DeriveCuisines(placeTypes),
	}
}

func (s *PlacesService) SearchNearby(
	ctx context.Context,
	search types.NearbySearch,
) []types.NearbyPlace {
	log := s.log.Function("SearchNearby").TraceFromContext(ctx)

	params := url.Values{}
	params.Set("location", fmt.Sprintf("%f,%f", search.Latitude, search.Longitude))
	params.Set("radius", fmt.Sprintf("%d", search.Radius))
	params.Set("type", "restaurant")

	response, err := s.call(ctx, PLACES_OPERATION_NEARBY, "place/nearbysearch/json", params)
	if err != nil {
		s.logFailure(
			log,
			"nearby search failed",
			err,
			"latitude",
			search.Latitude,
			"longitude",
			search.Longitude,
		)
		return []types.NearbyPlace{}
	}

	candidates := make([]types.NearbyPlace, 0, len(response.Results))
	for _, result := range response.Results {
		placeTypes := result.Types
		if placeTypes == nil {
			placeTypes = []string{}
		}
		candidates = append(candidates, types.NearbyPlace{
			PlaceID:    result.PlaceID,
			Name:       utils.NormalizeText(result.Name),
			Rating:     result.Rating,
			PriceLevel: result.PriceLevel,
			Vicinity:   utils.NormalizeText(result.Vicinity),
			Location:   result.location(),
			Types:      placeTypes,
			Cuisines:   utils.DeriveCuisines(placeTypes),
		})
	}

	return FilterNearbyPlaces(candidates, search)
}

// FilterNearbyPlaces applies the search filters, orders by rating descending
// (stable, missing rating last) and truncates to the search limit.
func FilterNearbyPlaces(candidates []types.NearbyPlace, search types.NearbySearch) []types.NearbyPlace {
	filtered := make([]types.NearbyPlace, 0, len(candidates))
	for _, candidate := range candidates {
		if search.MinRating != nil && ratingOrZero(candidate.Rating) < *search.MinRating {
			continue
		}

		if search.MaxPriceLevel != nil {
			priceLevel := unknownPriceLevel
			if candidate.PriceLevel != nil {
				priceLevel = *candidate.PriceLevel
			}
			if priceLevel > *search.MaxPriceLevel {
				continue
			}
		}

		if len(search.Cuisines) > 0 && !utils.MatchesAnyCuisine(candidate.Cuisines, search.Cuisines) {
			continue
		}

		filtered = append(filtered, candidate)
	}

	slices.SortStableFunc(filtered, func(a, b types.NearbyPlace) int {
		return cmp.Compare(ratingOrZero(b.Rating), ratingOrZero(a.Rating))
	})

	if search.Limit > 0 && len(filtered) > search.Limit {
		filtered = filtered[:search.Limit]
	}

	return filtered
}

func ratingOrZero(rating *float64) float64 {
	if rating == nil {
		return 0
	}
	return *rating
}

// call performs one rate limited request through the circuit breaker and
// decodes the envelope. ZERO_RESULTS and NOT_FOUND map to errPlacesNotFound.
func (s *PlacesService) call(
	ctx context.Context,
	operation string,
	path string,
	params url.Values,
) (*placesResponse, error) {
	if !s.Enabled() {
		metrics.PlacesRequests.WithLabelValues(operation, metrics.OutcomeDisabled).Inc()
		return nil, errPlacesDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.PlacesRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.PlacesRequests.WithLabelValues(operation, metrics.OutcomeError).Inc()
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("key", s.apiKey)
	endpoint := s.baseURL + "/" + path + "?" + params.Encode()

	var response placesResponse
	_, err := s.breaker.Execute(func() ([]byte, error) {
		body, err := s.fetch(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(body, &response); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", operation, err)
		}

		switch response.Status {
		case "OK", "ZERO_RESULTS", "NOT_FOUND":
			return body, nil
		default:
			return nil, fmt.Errorf("places api status %s: %s", response.Status, response.ErrorMessage)
		}
	})
	if err != nil {
		outcome := metrics.OutcomeError
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = metrics.OutcomeRejected
		}
		metrics.PlacesRequests.WithLabelValues(operation, outcome).Inc()
		return nil, err
	}

	if response.Status != "OK" {
		metrics.PlacesRequests.WithLabelValues(operation, metrics.OutcomeNotFound).Inc()
		return nil, errPlacesNotFound
	}

	metrics.PlacesRequests.WithLabelValues(operation, metrics.OutcomeOK).Inc()
	return &response, nil
}

func (s *PlacesService) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api returned http %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}

func (s *PlacesService) logFailure(log logger.Logger, msg string, err error, args ...any) {
	switch {
	case errors.Is(err, errPlacesDisabled):
		log.Debug("Places lookups disabled", args...)
	case errors.Is(err, errPlacesNotFound):
		log.Info("Place not found", args...)
	default:
		log.Er(msg, err, args...)
	}
}

var errPlacesDisabled = errors.New("places lookups disabled")

func breakerStateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
