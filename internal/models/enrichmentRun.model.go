package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EnrichmentStatusSuccess = "success"
	EnrichmentStatusError   = "error"
)

// EnrichmentRun records the final outcome of one enrichment job execution.
type EnrichmentRun struct {
	BaseModel
	RestaurantID  uuid.UUID                   `gorm:"type:uuid;not null;index" json:"restaurantId"`
	Status        string                      `gorm:"type:text;not null"       json:"status"`
	Attempts      int                         `gorm:"type:int;not null"        json:"attempts"`
	ChangedFields datatypes.JSONSlice[string] `                                json:"changedFields"`
	Message       string                      `gorm:"type:text"                json:"message,omitempty"`
	StartedAt     time.Time                   `gorm:"type:timestamp;not null"  json:"startedAt"`
	FinishedAt    time.Time                   `gorm:"type:timestamp;not null"  json:"finishedAt"`
}
