package types

// LatLng is a WGS84 coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// PlaceCandidate is the best free-text match for a query.
type PlaceCandidate struct {
	PlaceID          string  `json:"placeId"`
	Name             string  `json:"name"`
	FormattedAddress string  `json:"formattedAddress"`
	Location         *LatLng `json:"location,omitempty"`
}

// PlaceDetails is the normalized view of a single place.
type PlaceDetails struct {
	PlaceID          string   `json:"placeId"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formattedAddress"`
	Location         *LatLng  `json:"location,omitempty"`
	Rating           *float64 `json:"rating,omitempty"`
	PriceLevel       *int     `json:"priceLevel,omitempty"`
	BusinessStatus   string   `json:"businessStatus,omitempty"`
	Types            []string `json:"types"`
	Cuisines         []string `json:"cuisines"`
}

// NearbySearch describes a radius search around a point.
type NearbySearch struct {
	Latitude      float64
	Longitude     float64
	Radius        int
	MinRating     *float64
	MaxPriceLevel *int
	Cuisines      []string
	Limit         int
}

// NearbyPlace is one candidate returned by a radius search.
type NearbyPlace struct {
	PlaceID    string   `json:"placeId"`
	Name       string   `json:"name"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel *int     `json:"priceLevel,omitempty"`
	Vicinity   string   `json:"vicinity"`
	Location   *LatLng  `json:"location,omitempty"`
	Types      []string `json:"types"`
	Cuisines   []string `json:"cuisines"`
}
