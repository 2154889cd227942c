package http

import (
	"errors"
	"net/http"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// errMissingCustomer is returned when the X-Customer-ID header is absent.
var errMissingCustomer = errors.New("X-Customer-ID header is required")

// statusFor maps domain errors to HTTP status codes and client messages.
// Unknown errors map to 500 with a generic message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, errMissingCustomer):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, domain.ErrCartNotFound):
		return http.StatusNotFound, "cart not found"

	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "cart item not found"

	case errors.Is(err, pricing.ErrProductNotFound):
		return http.StatusNotFound, "product not found"

	case errors.Is(err, domain.ErrCartCheckedOut):
		return http.StatusConflict, "cart is already checked out"

	case errors.Is(err, committer.ErrOptimisticLockConflict):
		return http.StatusConflict, "cart was modified concurrently, retry"

	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusUnprocessableEntity, "cart is empty"

	case errors.Is(err, pricing.ErrInvalidQuantity):
		return http.StatusBadRequest, "quantity must be at least 1"

	case errors.Is(err, pricing.ErrInvalidProduct):
		return http.StatusUnprocessableEntity, err.Error()

	case errors.Is(err, domain.ErrEmptyCustomerID),
		errors.Is(err, domain.ErrMissingCartID),
		errors.Is(err, domain.ErrMissingItemID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, err.Error()

	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
