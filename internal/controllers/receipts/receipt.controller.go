package receiptController

import (
	"context"
	"errors"
	"fmt"

	"lunchlog/internal/database"
	. "lunchlog/internal/models"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"
	"lunchlog/internal/types"
	"lunchlog/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
)

var validate = validator.New()

type Enqueuer interface {
	Enqueue(ctx context.Context, restaurantID uuid.UUID, reason string) error
}

type ReceiptControllerInterface interface {
	Create(ctx context.Context, user *User, request *types.CreateReceiptRequest) (*Receipt, error)
	List(ctx context.Context, user *User, limit int) ([]*Receipt, error)
	Get(ctx context.Context, user *User, receiptID uuid.UUID) (*Receipt, error)
	Update(
		ctx context.Context,
		user *User,
		receiptID uuid.UUID,
		request *types.UpdateReceiptRequest,
	) (*Receipt, error)
	Delete(ctx context.Context, user *User, receiptID uuid.UUID) error
}

type ReceiptController struct {
	receiptRepo        repositories.ReceiptRepository
	restaurantService  *services.RestaurantService
	visitLedger        *services.VisitLedgerService
	transactionService *services.TransactionService
	enqueuer           Enqueuer
	db                 database.DB
	log                logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	enqueuer Enqueuer,
	db database.DB,
) ReceiptControllerInterface {
	return &ReceiptController{
		receiptRepo:        repos.Receipt,
		restaurantService:  services.Restaurant,
		visitLedger:        services.VisitLedger,
		transactionService: services.Transaction,
		enqueuer:           enqueuer,
		db:                 db,
		log:                logger.New("receiptController"),
	}
}

// Create stores a receipt, resolving its restaurant and counting the visit in
// the same transaction. Restaurants still missing place data are queued for
// enrichment once the receipt is committed.
func (c *ReceiptController) Create(
	ctx context.Context,
	user *User,
	request *types.CreateReceiptRequest,
) (*Receipt, error) {
	log := c.log.Function("Create").TraceFromContext(ctx)

	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if err := validateCreateRequest(request); err != nil {
		return nil, err
	}

	visitDate, err := utils.ParseDate(request.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
	}

	var details *types.PlaceDetails
	if request.RestaurantID == nil && request.PlaceID != "" {
		details, err = c.restaurantService.LookupNewPlace(ctx, c.db.SQL, request.PlaceID)
		if err != nil && !errors.Is(err, services.ErrInvalidRequest) {
			return nil, log.Err("failed to look up place", err, "placeID", request.PlaceID)
		}
	}

	var receipt *Receipt
	var restaurant *Restaurant
	err = c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		resolved, err := c.resolveRestaurant(ctx, tx, request, details)
		if err != nil {
			return err
		}
		restaurant = resolved

		receipt = &Receipt{
			UserID:         user.ID,
			Date:           visitDate,
			Price:          request.Price,
			RestaurantName: utils.NormalizeText(request.RestaurantName),
			Address:        utils.NormalizeText(request.Address),
			Notes:          request.Notes,
		}
		if restaurant != nil {
			receipt.RestaurantID = &restaurant.ID
			receipt.Restaurant = restaurant
			if receipt.RestaurantName == "" {
				receipt.RestaurantName = restaurant.Name
			}
			if receipt.Address == "" {
				receipt.Address = restaurant.Address
			}
		}

		if err := c.receiptRepo.Create(ctx, tx, receipt); err != nil {
			return err
		}

		if restaurant != nil {
			c.visitLedger.RecordVisit(ctx, tx, user.ID, restaurant, visitDate)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, services.ErrRestaurantNotFound) {
			return nil, fmt.Errorf("%w: restaurant", ErrNotFound)
		}
		if errors.Is(err, services.ErrInvalidRequest) {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err)
		}
		return nil, log.Err("failed to create receipt", err, "userID", user.ID)
	}

	if restaurant != nil && restaurant.NeedsEnrichment() {
		if err := c.enqueuer.Enqueue(ctx, restaurant.ID, types.EnrichmentReasonReceipt); err != nil {
			log.Er("failed to enqueue restaurant enrichment", err, "restaurantID", restaurant.ID)
		}
	}

	return receipt, nil
}

func (c *ReceiptController) List(ctx context.Context, user *User, limit int) ([]*Receipt, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	return c.receiptRepo.ListByUser(ctx, c.db.SQL, user.ID, limit)
}

func (c *ReceiptController) Get(ctx context.Context, user *User, receiptID uuid.UUID) (*Receipt, error) {
	if user == nil {
		return nil, fmt.Errorf("%w: user is required", ErrValidation)
	}

	receipt, err := c.receiptRepo.GetByID(ctx, c.db.SQL, user.ID, receiptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: receipt", ErrNotFound)
	}
	return receipt, err
}

// Update edits a receipt owned by user. Visit and cuisine counts were taken
// when the receipt was created and are not touched here.
func (c *ReceiptController) Update(
	ctx context.Context,
	user *User,
	receiptID uuid.UUID,
	request *types.UpdateReceiptRequest,
) (*Receipt, error) {
	log := c.log.Function("Update").TraceFromContext(ctx)

	if request == nil {
		return nil, fmt.Errorf("%w: request body is required", ErrValidation)
	}
	if err := validate.Struct(request); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err)
	}

	receipt, err := c.Get(ctx, user, receiptID)
	if err != nil {
		return nil, err
	}

	if request.Date != nil {
		date, err := utils.ParseDate(*request.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date, expected YYYY-MM-DD", ErrValidation)
		}
		receipt.Date = date
	}
	if request.Price != nil {
		if !request.Price.IsPositive() {
			return nil, fmt.Errorf("%w: price must be greater than zero", ErrValidation)
		}
		receipt.Price = *request.Price
	}
	if request.RestaurantName != nil {
		receipt.RestaurantName = utils.NormalizeText(*request.RestaurantName)
	}
	if request.Address != nil {
		receipt.Address = utils.NormalizeText(*request.Address)
	}
	if request.Notes != nil {
		receipt.Notes = request.Notes
	}

	if err := c.receiptRepo.Update(ctx, c.db.SQL, receipt); err != nil {
		return nil, log.Err("failed to update receipt", err, "receiptID", receiptID)
	}
	return receipt, nil
}

// Delete removes a receipt owned by user. Like Update it leaves visit and
// cuisine counts as they are.
func (c *ReceiptController) Delete(ctx context.Context, user *User, receiptID uuid.UUID) error {
	if user == nil {
		return fmt.Errorf("%w: user is required", ErrValidation)
	}

	err := c.receiptRepo.Delete(ctx, c.db.SQL, user.ID, receiptID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: receipt", ErrNotFound)
	}
	return err
}

// resolveRestaurant links the receipt by restaurant id, then place id, then
// name and address. Nil means the receipt has no restaurant.
func (c *ReceiptController) resolveRestaurant(
	ctx context.Context,
	tx *gorm.DB,
	request *types.CreateReceiptRequest,
	details *types.PlaceDetails,
) (*Restaurant, error) {
	switch {
	case request.RestaurantID != nil:
		return c.restaurantService.GetByID(ctx, tx, *request.RestaurantID)
	case request.PlaceID != "":
		return c.restaurantService.CreateFromPlace(
			ctx,
			tx,
			request.PlaceID,
			request.RestaurantName,
			request.Address,
			details,
		)
	case utils.NormalizeText(request.RestaurantName) != "":
		return c.restaurantService.FindOrCreateStub(ctx, tx, request.RestaurantName, request.Address)
	default:
		return nil, nil
	}
}

func validateCreateRequest(request *types.CreateReceiptRequest) error {
	if request == nil {
		return fmt.Errorf("%w: request body is required", ErrValidation)
	}
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %s", ErrValidation, err)
	}
	if !request.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", ErrValidation)
	}
	return nil
}
