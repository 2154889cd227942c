package domain

import (
	"errors"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// Domain errors as sentinel values
var (
	// Cart errors
	ErrCartNotFound    = errors.New("cart not found")
	ErrCartCheckedOut  = errors.New("cart is already checked out")
	ErrCartEmpty       = errors.New("cart is empty")
	ErrEmptyCustomerID = errors.New("customer ID cannot be empty")
	ErrMissingCartID   = errors.New("cart ID is required")
	ErrInvalidStatus   = errors.New("invalid cart status")

	// Item errors
	ErrItemNotFound  = errors.New("cart item not found")
	ErrMissingItemID = errors.New("item ID is required")

	// Shared with the pricing engine so either layer's error matches.
	ErrInvalidQuantity = pricing.ErrInvalidQuantity
	ErrProductNotFound = pricing.ErrProductNotFound
)
