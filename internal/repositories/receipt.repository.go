package repositories

import (
	"context"

	. "lunchlog/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ReceiptRepository interface {
	Create(ctx context.Context, tx *gorm.DB, receipt *Receipt) error
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uuid.UUID) (*Receipt, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*Receipt, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, receipt *Receipt) error
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, id uuid.UUID) error
}

type receiptRepository struct {
	log logger.Logger
}

func NewReceiptRepository() ReceiptRepository {
	return &receiptRepository{
		log: logger.New("receiptRepository"),
	}
}

func (r *receiptRepository) Create(ctx context.Context, tx *gorm.DB, receipt *Receipt) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(receipt).Error; err != nil {
		return log.Err(
			"failed to create receipt",
			err,
			"userID",
			receipt.UserID,
			"restaurantID",
			receipt.RestaurantID,
		)
	}

	return nil
}

func (r *receiptRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	id uuid.UUID,
) (*Receipt, error) {
	log := r.log.Function("GetByID")

	receipt, err := gorm.G[*Receipt](tx).
		Preload("Restaurant.Cuisines", nil).
		Where("id = ? AND user_id = ?", id, userID).
		First(ctx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, err
		}
		return nil, log.Err("failed to get receipt", err, "id", id, "userID", userID)
	}

	return receipt, nil
}

func (r *receiptRepository) ListByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*Receipt, error) {
	log := r.log.Function("ListByUser")

	receipts, err := gorm.G[*Receipt](tx).
		Preload("Restaurant", nil).
		Where("user_id = ?", userID).
		Order("date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list receipts", err, "userID", userID)
	}

	return receipts, nil
}

func (r *receiptRepository) CountByUser(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountByUser")

	count, err := gorm.G[Receipt](tx).Where("user_id = ?", userID).Count(ctx, "*")
	if err != nil {
		return 0, log.Err("failed to count receipts", err, "userID", userID)
	}

	return count, nil
}

// Update writes the editable receipt columns. The owner and restaurant link
// are fixed at creation.
func (r *receiptRepository) Update(ctx context.Context, tx *gorm.DB, receipt *Receipt) error {
	log := r.log.Function("Update")

	result := tx.WithContext(ctx).
		Model(receipt).
		Omit(clause.Associations).
		Select("Date", "Price", "RestaurantName", "Address", "Notes", "UpdatedAt").
		Where("user_id = ?", receipt.UserID).
		Updates(receipt)
	if result.Error != nil {
		return log.Err("failed to update receipt", result.Error, "id", receipt.ID)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *receiptRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	id uuid.UUID,
) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Receipt{})
	if result.Error != nil {
		return log.Err("failed to delete receipt", result.Error, "id", id, "userID", userID)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
