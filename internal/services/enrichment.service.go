package services

import (
	"context"
	"errors"
	"slices"

	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MessageRestaurantNotFound   = "Restaurant not found"
	MessageStubUnresolved       = "Could not find real place_id for stub restaurant"
	MessagePlaceAlreadyLinked   = "Resolved place_id already belongs to another restaurant"
	MessagePlaceDetailsNotFound = "Failed to fetch data from places API"
)

// EnrichmentService refreshes one restaurant from place details.
type EnrichmentService struct {
	db             *gorm.DB
	transaction    *TransactionService
	restaurantRepo repositories.RestaurantRepository
	cuisineRepo    repositories.CuisineRepository
	places         PlacesGateway
	log            logger.Logger
}

func NewEnrichmentService(
	repos repositories.Repository,
	db *gorm.DB,
	transaction *TransactionService,
	places PlacesGateway,
) *EnrichmentService {
	return &EnrichmentService{
		db:             db,
		transaction:    transaction,
		restaurantRepo: repos.Restaurant,
		cuisineRepo:    repos.Cuisine,
		places:         places,
		log:            logger.New("EnrichmentService"),
	}
}

// Enrich resolves a placeholder place id if needed, fetches place details and
// overwrites the fields that differ. The returned outcome is always filled in.
// A non-nil error means the attempt may succeed if retried; terminal failures
// return an error outcome with a nil error.
func (s *EnrichmentService) Enrich(
	ctx context.Context,
	restaurantID uuid.UUID,
) (types.EnrichmentOutcome, error) {
	log := s.log.Function("Enrich").TraceFromContext(ctx)

	outcome := types.EnrichmentOutcome{
		Status:        types.EnrichmentError,
		RestaurantID:  restaurantID,
		ChangedFields: []string{},
	}

	restaurant, err := s.restaurantRepo.GetByID(ctx, s.db, restaurantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			outcome.Message = MessageRestaurantNotFound
			return outcome, nil
		}
		outcome.Message = err.Error()
		return outcome, err
	}
	outcome.RestaurantName = restaurant.Name

	if restaurant.IsStub() {
		resolved, terminal, err := s.resolveStub(ctx, restaurant)
		if err != nil {
			outcome.Message = err.Error()
			return outcome, err
		}
		if terminal != "" {
			outcome.Message = terminal
			return outcome, nil
		}
		if resolved {
			outcome.ChangedFields = append(outcome.ChangedFields, types.FieldPlaceID)
		}
	}

	details := s.places.FetchPlaceDetails(ctx, restaurant.PlaceID)
	if details == nil {
		outcome.Message = MessagePlaceDetailsNotFound
		return outcome, ErrPlaceDetailsUnavailable
	}

	updates, changed := diffPlaceDetails(restaurant, details)
	cuisinesChanged := len(details.Cuisines) > 0 &&
		!sameCuisineSet(restaurant.CuisineNames(), details.Cuisines)
	if cuisinesChanged {
		changed = append(changed, types.FieldCuisines)
	}

	if len(updates) > 0 || cuisinesChanged {
		err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
			if err := s.restaurantRepo.UpdateFields(ctx, tx, restaurant.ID, updates); err != nil {
				return err
			}
			if !cuisinesChanged {
				return nil
			}

			cuisines, err := s.cuisineRepo.FindOrCreateByNames(ctx, tx, details.Cuisines)
			if err != nil {
				return err
			}
			return s.restaurantRepo.ReplaceCuisines(ctx, tx, restaurant, cuisines)
		})
		if err != nil {
			outcome.Message = err.Error()
			return outcome, log.Err("failed to persist enrichment", err, "restaurantID", restaurantID)
		}
	}

	outcome.Status = types.EnrichmentSuccess
	outcome.RestaurantName = restaurant.Name
	outcome.ChangedFields = append(outcome.ChangedFields, changed...)

	log.Info(
		"Restaurant enriched",
		"restaurantID", restaurantID,
		"changedFields", outcome.ChangedFields,
	)

	return outcome, nil
}

// resolveStub swaps a placeholder place id for the one found by text search
// and saves it right away. terminal is set when the stub cannot be resolved.
func (s *EnrichmentService) resolveStub(
	ctx context.Context,
	restaurant *Restaurant,
) (resolved bool, terminal string, err error) {
	log := s.log.Function("resolveStub").TraceFromContext(ctx)

	candidate := s.places.FindPlaceByText(ctx, restaurant.SearchQuery())
	if candidate == nil {
		log.Info("Stub restaurant could not be resolved", "restaurantID", restaurant.ID)
		return false, MessageStubUnresolved, nil
	}

	owner, err := s.restaurantRepo.GetByPlaceID(ctx, s.db, candidate.PlaceID)
	switch {
	case err == nil && owner.ID != restaurant.ID:
		log.Warn(
			"Resolved place id already in use",
			"restaurantID", restaurant.ID,
			"placeID", candidate.PlaceID,
			"ownerID", owner.ID,
		)
		return false, MessagePlaceAlreadyLinked, nil
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return false, "", err
	}

	updates := map[string]any{"place_id": candidate.PlaceID}
	if err := s.restaurantRepo.UpdateFields(ctx, s.db, restaurant.ID, updates); err != nil {
		return false, "", err
	}

	restaurant.PlaceID = candidate.PlaceID
	return true, "", nil
}

// diffPlaceDetails applies each present, differing detail field to restaurant
// and returns the column updates plus the changed field names. Place types and
// business status are refreshed alongside but not reported.
func diffPlaceDetails(
	restaurant *Restaurant,
	details *types.PlaceDetails,
) (map[string]any, []string) {
	updates := map[string]any{}
	changed := []string{}

	if details.Name != "" && details.Name != restaurant.Name {
		restaurant.Name = details.Name
		updates["name"] = details.Name
		changed = append(changed, types.FieldName)
	}

	if details.FormattedAddress != "" && details.FormattedAddress != restaurant.Address {
		restaurant.Address = details.FormattedAddress
		updates["address"] = details.FormattedAddress
		changed = append(changed, types.FieldAddress)
	}

	if details.Location != nil {
		lat, lng := details.Location.Lat, details.Location.Lng
		if !restaurant.HasCoordinates() || *restaurant.Latitude != lat || *restaurant.Longitude != lng {
			restaurant.Latitude = &lat
			restaurant.Longitude = &lng
			updates["latitude"] = lat
			updates["longitude"] = lng
			changed = append(changed, types.FieldCoordinates)
		}
	}

	if details.Rating != nil {
		rating := ratingDecimal(*details.Rating)
		if restaurant.Rating == nil || !restaurant.Rating.Equal(rating) {
			restaurant.Rating = &rating
			updates["rating"] = rating
			changed = append(changed, types.FieldRating)
		}
	}

	if details.BusinessStatus != "" &&
		(restaurant.BusinessStatus == nil || *restaurant.BusinessStatus != details.BusinessStatus) {
		status := details.BusinessStatus
		restaurant.BusinessStatus = &status
		updates["business_status"] = status
	}

	if len(details.Types) > 0 && !slices.Equal([]string(restaurant.PlaceTypes), details.Types) {
		restaurant.PlaceTypes = details.Types
		updates["place_types"] = restaurant.PlaceTypes
	}

	return updates, changed
}

func sameCuisineSet(current []string, fetched []string) bool {
	currentSet := make(map[string]struct{}, len(current))
	for _, name := range current {
		currentSet[name] = struct{}{}
	}
	fetchedSet := make(map[string]struct{}, len(fetched))
	for _, name := range fetched {
		fetchedSet[name] = struct{}{}
	}

	if len(currentSet) != len(fetchedSet) {
		return false
	}
	for name := range fetchedSet {
		if _, ok := currentSet[name]; !ok {
			return false
		}
	}
	return true
}
