package utils

import (
	"strings"

	"github.com/google/uuid"
)

const stubPlaceIDPrefix = "stub_"

// NewStubPlaceID returns a placeholder place id for an unverified restaurant.
func NewStubPlaceID() string {
	return stubPlaceIDPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func IsStubPlaceID(placeID string) bool {
	return strings.HasPrefix(placeID, stubPlaceIDPrefix)
}
