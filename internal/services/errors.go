package services

import "errors"

// Errors returned by services. The HTTP layer maps each to a status code.
var (
	ErrMissingFields         = errors.New("missing required fields")
	ErrInvalidBody           = errors.New("invalid request body")
	ErrUsernameTaken         = errors.New("username already exists")
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrInvalidToken          = errors.New("invalid token")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrOrderNotFound         = errors.New("order not found")
	ErrProductNotFound       = errors.New("product not found")
	ErrInvalidProduct        = errors.New("invalid product")
	ErrProductAlreadyInOrder = errors.New("product already in order")
)
