package models

import (
	"slices"
	"strings"

	"lunchlog/internal/utils"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	minRating = decimal.Zero
	maxRating = decimal.NewFromInt(5)
)

type Restaurant struct {
	BaseModel
	PlaceID        string                      `gorm:"type:text;not null;uniqueIndex"          json:"placeId"`
	Name           string                      `gorm:"type:text;not null;index"                json:"name"`
	Address        string                      `gorm:"type:text"                               json:"address"`
	Latitude       *float64                    `gorm:"type:double precision"                   json:"latitude,omitempty"`
	Longitude      *float64                    `gorm:"type:double precision"                   json:"longitude,omitempty"`
	Rating         *decimal.Decimal            `gorm:"type:decimal(3,2)"                       json:"rating,omitempty"`
	BusinessStatus *string                     `gorm:"type:text"                               json:"businessStatus,omitempty"`
	PlaceTypes     datatypes.JSONSlice[string] `                                               json:"placeTypes,omitempty"`
	Cuisines       []Cuisine                   `gorm:"many2many:restaurant_cuisines;"          json:"cuisines,omitempty"`
}

func (r *Restaurant) BeforeSave(tx *gorm.DB) error {
	if r.PlaceID == "" || strings.TrimSpace(r.Name) == "" {
		return gorm.ErrInvalidValue
	}
	if r.Rating != nil && (r.Rating.LessThan(minRating) || r.Rating.GreaterThan(maxRating)) {
		return gorm.ErrInvalidValue
	}
	return nil
}

// IsStub reports whether the place id is a locally generated placeholder.
func (r *Restaurant) IsStub() bool {
	return utils.IsStubPlaceID(r.PlaceID)
}

func (r *Restaurant) HasCoordinates() bool {
	return r.Latitude != nil && r.Longitude != nil
}

// NeedsEnrichment reports whether the row lacks verified place data.
func (r *Restaurant) NeedsEnrichment() bool {
	return r.IsStub() || !r.HasCoordinates()
}

// SearchQuery is the free-text query used to resolve a placeholder: name and
// address joined by ", ", even when the address is empty.
func (r *Restaurant) SearchQuery() string {
	return r.Name + ", " + r.Address
}

// CuisineNames returns the associated cuisine names sorted.
func (r *Restaurant) CuisineNames() []string {
	names := make([]string, 0, len(r.Cuisines))
	for _, cuisine := range r.Cuisines {
		names = append(names, cuisine.Name)
	}
	slices.Sort(names)
	return names
}
