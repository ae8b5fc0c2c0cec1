package services

import "errors"

var (
	ErrRestaurantNotFound      = errors.New("restaurant not found")
	ErrPlaceDetailsUnavailable = errors.New("place details unavailable")
	ErrInvalidRequest          = errors.New("invalid request")
)
