package restaurantController

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lunchlog/internal/database"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"
	"lunchlog/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

var validate = validator.New()

type Enqueuer interface {
	Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error
}

type CreateRestaurantRequest struct {
	PlaceID string `json:"placeId,omitempty" validate:"required_without=Name,omitempty,max=255"`
	Name    string `json:"name,omitempty"    validate:"required_without=PlaceID,omitempty,max=255"`
	Address string `json:"address,omitempty" validate:"omitempty,max=500"`
}

type RestaurantControllerInterface interface {
	Create(ctx context.Context, request *CreateRestaurantRequest) (*Restaurant, error)
	Get(ctx context.Context, restaurantID uuid.UUID) (*Restaurant, error)
	RequestEnrichment(ctx context.Context, restaurantID uuid.UUID) error
	GetVisits(ctx context.Context, user *User, restaurantID uuid.UUID) (*VisitRecord, error)
	GetEnrichmentRuns(ctx context.Context, restaurantID uuid.UUID, limit int) ([]EnrichmentRun, error)
}

type RestaurantController struct {
	restaurantService  *services.RestaurantService
	transactionService *services.TransactionService
	visitRepo          repositories.VisitRepository
	enrichmentRunRepo  repositories.EnrichmentRunRepository
	enqueuer           Enqueuer
	db                 database.DB
	log                logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	enqueuer Enqueuer,
	db database.DB,
) RestaurantControllerInterface {
	return &RestaurantController{
		restaurantService:  services.Restaurant,
		transactionService: services.Transaction,
		visitRepo:          repos.Visit,
		enrichmentRunRepo:  repos.EnrichmentRun,
		enqueuer:           enqueuer,
		db:                 db,
		log:                logger.New("restaurantController"),
	}
}

// Create registers a restaurant by place id, or by name and address under a
// placeholder id, and queues it for enrichment when place data is missing.
func (c *RestaurantController) Create(
	ctx context.Context,
	request *CreateRestaurantRequest,
) (*Restaurant, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	if request == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrValidation)
	}
	if err := validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	byPlace := strings.TrimSpace(request.PlaceID) != ""

	var details *types.PlaceDetails
	if byPlace {
		var err error
		details, err = c.restaurantService.LookupNewPlace(ctx, c.db.SQL, request.PlaceID)
		if err != nil && !errors.Is(err, services.ErrInvalidRequest) {
			return nil, log.Err("failed to look up place", err, "placeID", request.PlaceID)
		}
	}

	var restaurant *Restaurant
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		if byPlace {
			restaurant, err = c.restaurantService.CreateFromPlace(
				ctx,
				tx,
				request.PlaceID,
				request.Name,
				request.Address,
				details,
			)
		} else {
			restaurant, err = c.restaurantService.FindOrCreateStub(ctx, tx, request.Name, request.Address)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		return nil, log.Err("failed to create restaurant", err)
	}

	if restaurant.NeedsEnrichment() {
		if err := c.enqueuer.Enqueue(ctx, restaurant.ID, types.EnrichmentReasonCreate); err != nil {
			log.Er("failed to enqueue restaurant enrichment", err, "restaurantID", restaurant.ID)
		}
	}

	return restaurant, nil
}

func (c *RestaurantController) Get(ctx context.Context, restaurantID uuid.UUID) (*Restaurant, error) {
	restaurant, err := c.restaurantService.GetByID(ctx, c.db.SQL, restaurantID)
	if errors.Is(err, services.ErrRestaurantNotFound) {
		return nil, fmt.Errorf("%w: restaurant", ErrNotFound)
	}
	return restaurant, err
}

func (c *RestaurantController) RequestEnrichment(ctx context.Context, restaurantID uuid.UUID) error {
	log := c.log.Function("RequestEnrichment").TraceFromContext(ctx)

	if _, err := c.Get(ctx, restaurantID); err != nil {
		return err
	}

	if err := c.enqueuer.Enqueue(ctx, restaurantID, types.EnrichmentReasonManual); err != nil {
		return log.Err("failed to enqueue enrichment", err, "restaurantID", restaurantID)
	}

	return nil
}

func (c *RestaurantController) GetVisits(
	ctx context.Context,
	user *User,
	restaurantID uuid.UUID,
) (*VisitRecord, error) {
	record, err := c.visitRepo.GetVisitRecord(ctx, c.db.SQL, user.ID, restaurantID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: no visits recorded", ErrNotFound)
	}
	return record, err
}

func (c *RestaurantController) GetEnrichmentRuns(
	ctx context.Context,
	restaurantID uuid.UUID,
	limit int,
) ([]EnrichmentRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return c.enrichmentRunRepo.ListByRestaurant(ctx, c.db.SQL, restaurantID, limit)
}
