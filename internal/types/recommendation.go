package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type RecommendationKind int

const (
	HighlyRated RecommendationKind = iota
	Budget
	CuisineMatch
)

var AllRecommendationKinds = []RecommendationKind{HighlyRated, Budget, CuisineMatch}

var ErrInvalidKind = errors.New("invalid recommendation kind")

func (k RecommendationKind) String() string {
	switch k {
	case HighlyRated:
		return "highly_rated"
	case Budget:
		return "budget"
	case CuisineMatch:
		return "cuisine_match"
	default:
		return fmt.Sprintf("RecommendationKind(%d)", int(k))
	}
}

func (k RecommendationKind) Valid() bool {
	return k >= HighlyRated && k <= CuisineMatch
}

// ParseRecommendationKind accepts the canonical names plus the short aliases
// "good" and "cheap".
func ParseRecommendationKind(value string) (RecommendationKind, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
	switch normalized {
	case "highly_rated", "good":
		return HighlyRated, nil
	case "budget", "cheap":
		return Budget, nil
	case "cuisine_match", "cuisine":
		return CuisineMatch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidKind, value)
	}
}

func (k RecommendationKind) MarshalJSON() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidKind, int(k))
	}
	return json.Marshal(k.String())
}

func (k *RecommendationKind) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	parsed, err := ParseRecommendationKind(value)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// FrequentLocation is a visited restaurant used as a search anchor.
type FrequentLocation struct {
	RestaurantID   uuid.UUID `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	VisitCount     int       `json:"visitCount"`
}

// ReferenceLocation identifies which frequent location produced a recommendation.
type ReferenceLocation struct {
	RestaurantName string `json:"restaurantName"`
	VisitCount     int    `json:"visitCount"`
}

type Recommendation struct {
	PlaceID           string             `json:"placeId"`
	Name              string             `json:"name"`
	Rating            *float64           `json:"rating"`
	PriceLevel        *int               `json:"priceLevel"`
	Vicinity          string             `json:"vicinity"`
	Location          *LatLng            `json:"location,omitempty"`
	Cuisines          []string           `json:"cuisines"`
	Kind              RecommendationKind `json:"recommendationType"`
	ReferenceLocation ReferenceLocation  `json:"referenceLocation"`
	MatchedCuisines   []string           `json:"matchedCuisines,omitempty"`
}

// RatingOrZero treats a missing rating as zero for ordering.
func (r Recommendation) RatingOrZero() float64 {
	if r.Rating == nil {
		return 0
	}
	return *r.Rating
}

type RecommendationOptions struct {
	Limit            int
	Radius           int
	PerLocationLimit int
}

const (
	DefaultRecommendationLimit    = 20
	DefaultCombinedLimit          = 10
	DefaultSearchRadius           = 2000
	DefaultPerLocationSearchLimit = 20
	PreferenceAnchorLimit         = 5
)

func DefaultRecommendationOptions() RecommendationOptions {
	return RecommendationOptions{
		Limit:            DefaultRecommendationLimit,
		Radius:           DefaultSearchRadius,
		PerLocationLimit: DefaultPerLocationSearchLimit,
	}
}

// RecommendationBundle holds one independently computed list per kind.
type RecommendationBundle struct {
	HighlyRated  []Recommendation `json:"highly_rated"`
	Budget       []Recommendation `json:"budget"`
	CuisineMatch []Recommendation `json:"cuisine_match"`
}

func (b *RecommendationBundle) Set(kind RecommendationKind, recommendations []Recommendation) {
	switch kind {
	case HighlyRated:
		b.HighlyRated = recommendations
	case Budget:
		b.Budget = recommendations
	case CuisineMatch:
		b.CuisineMatch = recommendations
	}
}

type UserContext struct {
	FrequentRestaurants []FrequentLocation `json:"frequentRestaurants"`
	PreferredCuisines   []string           `json:"preferredCuisines"`
}

type RecommendationResponse struct {
	RecommendationType RecommendationKind `json:"recommendationType"`
	Count              int                `json:"count"`
	Recommendations    []Recommendation   `json:"recommendations"`
	UserContext        UserContext        `json:"userContext"`
}

type AllRecommendationsResponse struct {
	Recommendations RecommendationBundle `json:"recommendations"`
	UserContext     UserContext          `json:"userContext"`
}
