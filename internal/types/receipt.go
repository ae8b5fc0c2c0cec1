package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateReceiptRequest struct {
	Date           string          `json:"date"                     validate:"required,datetime=2006-01-02"`
	Price          decimal.Decimal `json:"price"`
	RestaurantID   *uuid.UUID      `json:"restaurantId,omitempty"`
	PlaceID        string          `json:"placeId,omitempty"        validate:"omitempty,max=255"`
	RestaurantName string          `json:"restaurantName,omitempty" validate:"omitempty,max=255"`
	Address        string          `json:"address,omitempty"        validate:"omitempty,max=500"`
	Notes          *string         `json:"notes,omitempty"          validate:"omitempty,max=2000"`
}

// UpdateReceiptRequest edits receipt fields in place. Absent fields are left
// alone. The linked restaurant cannot be changed.
type UpdateReceiptRequest struct {
	Date           *string          `json:"date,omitempty"           validate:"omitempty,datetime=2006-01-02"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	RestaurantName *string          `json:"restaurantName,omitempty" validate:"omitempty,max=255"`
	Address        *string          `json:"address,omitempty"        validate:"omitempty,max=500"`
	Notes          *string          `json:"notes,omitempty"          validate:"omitempty,max=2000"`
}
