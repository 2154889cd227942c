package domain

import "errors"

// Pricing errors are programmer/data errors: the caller decides how to reject them.
var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrInvalidProduct  = errors.New("invalid product")

	// Catalogue errors
	ErrProductNotFound = errors.New("product not found")
)
