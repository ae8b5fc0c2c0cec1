package services

import (
	"context"
	"errors"
	"strings"

	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/types"
	"lunchlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// RestaurantService resolves receipt input to restaurant rows, creating them
// from place data when possible.
type RestaurantService struct {
	restaurantRepo repositories.RestaurantRepository
	cuisineRepo    repositories.CuisineRepository
	places         PlacesGateway
	log            logger.Logger
}

func NewRestaurantService(repos repositories.Repository, places PlacesGateway) *RestaurantService {
	return &RestaurantService{
		restaurantRepo: repos.Restaurant,
		cuisineRepo:    repos.Cuisine,
		places:         places,
		log:            logger.New("RestaurantService"),
	}
}

func (s *RestaurantService) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Restaurant, error) {
	restaurant, err := s.restaurantRepo.GetByID(ctx, tx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	return restaurant, err
}

// LookupNewPlace fetches details for a place id that has no restaurant yet.
// It calls the places API, so it runs before any write transaction opens.
// Nil details mean the place is already stored or the API had nothing.
func (s *RestaurantService) LookupNewPlace(
	ctx context.Context,
	db *gorm.DB,
	placeID string,
) (*types.PlaceDetails, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrInvalidRequest
	}

	_, err := s.restaurantRepo.GetByPlaceID(ctx, db, placeID)
	switch {
	case err == nil:
		return nil, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	details := s.places.FetchPlaceDetails(ctx, placeID)
	if details == nil {
		s.log.Function("LookupNewPlace").TraceFromContext(ctx).
			Info("Place details unavailable", "placeID", placeID)
	}
	return details, nil
}

// CreateFromPlace returns the restaurant stored for placeID, or creates one
// from details fetched by LookupNewPlace. Without details a basic row is
// stored from the typed name and address. A concurrent insert of the same
// place id resolves to the row that won.
func (s *RestaurantService) CreateFromPlace(
	ctx context.Context,
	tx *gorm.DB,
	placeID string,
	name string,
	address string,
	details *types.PlaceDetails,
) (*Restaurant, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return nil, ErrInvalidRequest
	}

	existing, err := s.restaurantRepo.GetByPlaceID(ctx, tx, placeID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	restaurant := &Restaurant{
		PlaceID: placeID,
		Name:    utils.NormalizeText(name),
		Address: utils.NormalizeText(address),
	}

	if details != nil {
		applyPlaceDetails(restaurant, details)
		if len(details.Cuisines) > 0 {
			cuisines, err := s.cuisineRepo.FindOrCreateByNames(ctx, tx, details.Cuisines)
			if err != nil {
				return nil, err
			}
			restaurant.Cuisines = cuisines
		}
	}

	if restaurant.Name == "" {
		restaurant.Name = placeID
	}

	return s.restaurantRepo.CreateByPlaceID(ctx, tx, restaurant)
}

// FindOrCreateStub matches an existing restaurant by name and address, or
// stores a new one under a placeholder place id.
func (s *RestaurantService) FindOrCreateStub(
	ctx context.Context,
	tx *gorm.DB,
	name string,
	address string,
) (*Restaurant, error) {
	name = utils.NormalizeText(name)
	address = utils.NormalizeText(address)
	if name == "" {
		return nil, ErrInvalidRequest
	}

	existing, err := s.restaurantRepo.FindByNameAndAddress(ctx, tx, name, address)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	restaurant := &Restaurant{
		PlaceID: utils.NewStubPlaceID(),
		Name:    name,
		Address: address,
	}
	if err := s.restaurantRepo.Create(ctx, tx, restaurant); err != nil {
		return nil, err
	}

	return restaurant, nil
}

// applyPlaceDetails copies every present detail field onto a new restaurant.
func applyPlaceDetails(restaurant *Restaurant, details *types.PlaceDetails) {
	if details.Name != "" {
		restaurant.Name = details.Name
	}
	if details.FormattedAddress != "" {
		restaurant.Address = details.FormattedAddress
	}
	if details.Location != nil {
		lat, lng := details.Location.Lat, details.Location.Lng
		restaurant.Latitude = &lat
		restaurant.Longitude = &lng
	}
	if details.Rating != nil {
		rating := ratingDecimal(*details.Rating)
		restaurant.Rating = &rating
	}
	if details.BusinessStatus != "" {
		status := details.BusinessStatus
		restaurant.BusinessStatus = &status
	}
	restaurant.PlaceTypes = details.Types
}

func ratingDecimal(rating float64) decimal.Decimal {
	return decimal.NewFromFloat(rating).Round(2)
}
