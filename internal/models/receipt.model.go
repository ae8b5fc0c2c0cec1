package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Receipt struct {
	BaseUUIDModel
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_receipts_user_date,priority:1" json:"userId"`
	User           User            `gorm:"foreignKey:UserID"                                          json:"-"`
	RestaurantID   *uuid.UUID      `gorm:"type:uuid;index"                                            json:"restaurantId,omitempty"`
	Restaurant     *Restaurant     `gorm:"foreignKey:RestaurantID"                                    json:"restaurant,omitempty"`
	Date           time.Time       `gorm:"type:date;not null;index:idx_receipts_user_date,priority:2" json:"date"`
	Price          decimal.Decimal `gorm:"type:decimal(10,2);not null"                                json:"price"`
	RestaurantName string          `gorm:"type:text"                                                  json:"restaurantName"`
	Address        string          `gorm:"type:text"                                                  json:"address"`
	Notes          *string         `gorm:"type:text"                                                  json:"notes,omitempty"`
}

func (r *Receipt) BeforeSave(tx *gorm.DB) error {
	if !r.Price.IsPositive() {
		return gorm.ErrInvalidValue
	}
	return nil
}
