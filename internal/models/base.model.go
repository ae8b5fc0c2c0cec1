package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"autoCreateTime"       json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"       json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index"                json:"deletedAt"`
}

func (b *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	return assignID(&b.ID)
}

// BaseModel is used by rows this service never soft deletes.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"       json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"       json:"updatedAt"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	return assignID(&b.ID)
}

func assignID(id *uuid.UUID) error {
	if *id != uuid.Nil {
		return nil
	}

	generated, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = generated
	return nil
}
