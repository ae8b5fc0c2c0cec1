package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"lunchlog/internal/metrics"
	"lunchlog/internal/types"
	"lunchlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	HighlyRatedMinRating = 4.0
	BudgetMaxPriceLevel  = 1

	maxConcurrentLocationSearches = 4
)

// PreferenceReader is the subset of preference queries recommendations need.
type PreferenceReader interface {
	GetFrequentLocations(ctx context.Context, userID uuid.UUID, limit int) ([]types.FrequentLocation, error)
	GetTopCuisines(ctx context.Context, userID uuid.UUID, limit int) ([]string, error)
}

type RecommendationService struct {
	preferences PreferenceReader
	places      PlacesGateway
	log         logger.Logger
}

func NewRecommendationService(
	preferences PreferenceReader,
	places PlacesGateway,
) *RecommendationService {
	return &RecommendationService{
		preferences: preferences,
		places:      places,
		log:         logger.New("RecommendationService"),
	}
}

// GetRecommendations searches around the user's most visited restaurants for
// places of the given kind. A user without usable history gets an empty list
// and no places lookups are made.
func (s *RecommendationService) GetRecommendations(
	ctx context.Context,
	userID uuid.UUID,
	kind types.RecommendationKind,
	options types.RecommendationOptions,
) ([]types.Recommendation, error) {
	log := s.log.Function("GetRecommendations").TraceFromContext(ctx)

	if !kind.Valid() {
		return nil, types.ErrInvalidKind
	}
	options = normalizeOptions(options)
	metrics.RecommendationRequests.WithLabelValues(kind.String()).Inc()

	locations, err := s.preferences.GetFrequentLocations(ctx, userID, types.PreferenceAnchorLimit)
	if err != nil {
		return nil, log.Err("failed to load frequent locations", err, "userID", userID)
	}
	if len(locations) == 0 {
		return []types.Recommendation{}, nil
	}

	var preferred []string
	if kind == types.CuisineMatch {
		preferred, err = s.preferences.GetTopCuisines(ctx, userID, types.PreferenceAnchorLimit)
		if err != nil {
			return nil, log.Err("failed to load top cuisines", err, "userID", userID)
		}
		if len(preferred) == 0 {
			return []types.Recommendation{}, nil
		}
	}

	recommendations := s.recommendAround(ctx, kind, locations, preferred, options)

	log.Debug(
		"Recommendations computed",
		"userID", userID,
		"kind", kind.String(),
		"locations", len(locations),
		"count", len(recommendations),
	)

	return recommendations, nil
}

// GetAllRecommendations computes every kind independently.
func (s *RecommendationService) GetAllRecommendations(
	ctx context.Context,
	userID uuid.UUID,
	options types.RecommendationOptions,
) (types.RecommendationBundle, error) {
	bundle := types.RecommendationBundle{}

	for _, kind := range types.AllRecommendationKinds {
		recommendations, err := s.GetRecommendations(ctx, userID, kind, options)
		if err != nil {
			return types.RecommendationBundle{}, err
		}
		bundle.Set(kind, recommendations)
	}

	return bundle, nil
}

// GetUserContext returns the preference summary shown next to recommendations.
func (s *RecommendationService) GetUserContext(
	ctx context.Context,
	userID uuid.UUID,
) (types.UserContext, error) {
	locations, err := s.preferences.GetFrequentLocations(ctx, userID, types.PreferenceAnchorLimit)
	if err != nil {
		return types.UserContext{}, err
	}

	cuisines, err := s.preferences.GetTopCuisines(ctx, userID, types.PreferenceAnchorLimit)
	if err != nil {
		return types.UserContext{}, err
	}

	return types.UserContext{
		FrequentRestaurants: locations,
		PreferredCuisines:   cuisines,
	}, nil
}

// recommendAround fans out one nearby search per location. Each location
// writes only its own slot so the merge sees results in location order.
func (s *RecommendationService) recommendAround(
	ctx context.Context,
	kind types.RecommendationKind,
	locations []types.FrequentLocation,
	preferred []string,
	options types.RecommendationOptions,
) []types.Recommendation {
	log := s.log.Function("recommendAround").TraceFromContext(ctx)

	perLocation := make([][]types.Recommendation, len(locations))

	var group errgroup.Group
	group.SetLimit(maxConcurrentLocationSearches)

	for i, location := range locations {
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Er(
						"location search panicked",
						fmt.Errorf("%v", r),
						"restaurantName",
						location.RestaurantName,
					)
					perLocation[i] = nil
				}
			}()

			search := nearbySearchFor(kind, location, preferred, options)
			places := s.places.SearchNearby(ctx, search)
			perLocation[i] = annotate(kind, location, preferred, places)
			return nil
		})
	}

	_ = group.Wait()

	return mergeRecommendations(perLocation, options.Limit)
}

func nearbySearchFor(
	kind types.RecommendationKind,
	location types.FrequentLocation,
	preferred []string,
	options types.RecommendationOptions,
) types.NearbySearch {
	search := types.NearbySearch{
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Radius:    options.Radius,
		Limit:     options.PerLocationLimit,
	}

	switch kind {
	case types.HighlyRated:
		minRating := HighlyRatedMinRating
		search.MinRating = &minRating
	case types.Budget:
		maxPriceLevel := BudgetMaxPriceLevel
		search.MaxPriceLevel = &maxPriceLevel
	case types.CuisineMatch:
		search.Cuisines = preferred
	}

	return search
}

func annotate(
	kind types.RecommendationKind,
	location types.FrequentLocation,
	preferred []string,
	places []types.NearbyPlace,
) []types.Recommendation {
	reference := types.ReferenceLocation{
		RestaurantName: location.RestaurantName,
		VisitCount:     location.VisitCount,
	}

	recommendations := make([]types.Recommendation, 0, len(places))
	for _, place := range places {
		recommendation := types.Recommendation{
			PlaceID:           place.PlaceID,
			Name:              place.Name,
			Rating:            place.Rating,
			PriceLevel:        place.PriceLevel,
			Vicinity:          place.Vicinity,
			Location:          place.Location,
			Cuisines:          place.Cuisines,
			Kind:              kind,
			ReferenceLocation: reference,
		}
		if kind == types.CuisineMatch {
			recommendation.MatchedCuisines = utils.MatchingCuisines(place.Cuisines, preferred)
		}
		recommendations = append(recommendations, recommendation)
	}

	return recommendations
}

// mergeRecommendations concatenates the per-location lists in order, keeps the
// first occurrence of each place id, orders by rating descending with missing
// ratings last and truncates to limit. Entries without a place id are dropped.
func mergeRecommendations(perLocation [][]types.Recommendation, limit int) []types.Recommendation {
	seen := make(map[string]struct{})
	merged := make([]types.Recommendation, 0)

	for _, recommendations := range perLocation {
		for _, recommendation := range recommendations {
			if recommendation.PlaceID == "" {
				continue
			}
			if _, ok := seen[recommendation.PlaceID]; ok {
				continue
			}
			seen[recommendation.PlaceID] = struct{}{}
			merged = append(merged, recommendation)
		}
	}

	slices.SortStableFunc(merged, func(a, b types.Recommendation) int {
		return cmp.Compare(b.RatingOrZero(), a.RatingOrZero())
	})

	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}

	return merged
}

func normalizeOptions(options types.RecommendationOptions) types.RecommendationOptions {
	defaults := types.DefaultRecommendationOptions()
	if options.Limit <= 0 {
		options.Limit = defaults.Limit
	}
	if options.Radius <= 0 {
		options.Radius = defaults.Radius
	}
	if options.PerLocationLimit <= 0 {
		options.PerLocationLimit = defaults.PerLocationLimit
	}
	return options
}
