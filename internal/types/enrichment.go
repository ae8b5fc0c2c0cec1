package types

import "github.com/google/uuid"

type EnrichmentStatus string

const (
	EnrichmentSuccess EnrichmentStatus = "success"
	EnrichmentError   EnrichmentStatus = "error"
)

// Fields reported as changed by an enrichment run.
const (
	FieldPlaceID     = "place_id"
	FieldName        = "name"
	FieldAddress     = "address"
	FieldCoordinates = "coordinates"
	FieldRating      = "rating"
	FieldCuisines    = "cuisines"
)

type EnrichmentOutcome struct {
	Status         EnrichmentStatus `json:"status"`
	RestaurantID   uuid.UUID        `json:"restaurantId"`
	RestaurantName string           `json:"restaurantName,omitempty"`
	ChangedFields  []string         `json:"changedFields,omitempty"`
	Message        string           `json:"message,omitempty"`
	Attempts       int              `json:"attempts,omitempty"`
}

func (o EnrichmentOutcome) Succeeded() bool {
	return o.Status == EnrichmentSuccess
}

// EnrichmentRequest is the payload published to enqueue enrichment.
type EnrichmentRequest struct {
	RestaurantID uuid.UUID `json:"restaurantId"`
	Reason       string    `json:"reason"`
}

const (
	EnrichmentReasonReceipt = "receipt"
	EnrichmentReasonSweep   = "sweep"
	EnrichmentReasonManual  = "manual"
	EnrichmentReasonCreate  = "create"
)
