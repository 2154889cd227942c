package list_carts

import (
	"context"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Request contains filtering and pagination parameters.
type Request struct {
	CustomerID string
	Status     string
	PageSize   int
	Offset     int
}

// Query handles the list carts query use case.
type Query struct {
	readModel contracts.ReadModel
}

// NewQuery creates a new list carts query.
func NewQuery(readModel contracts.ReadModel) *Query {
	return &Query{readModel: readModel}
}

// Execute lists the customer's carts, newest first.
func (q *Query) Execute(ctx context.Context, req *Request) (*contracts.CartListResult, error) {
	if req.CustomerID == "" {
		return nil, domain.ErrEmptyCustomerID
	}
	if req.Status != "" && !domain.CartStatus(req.Status).IsValid() {
		return nil, domain.ErrInvalidStatus
	}

	filter := &contracts.CartFilter{
		CustomerID: req.CustomerID,
		Status:     req.Status,
		PageSize:   req.PageSize,
		Offset:     req.Offset,
	}
	if filter.PageSize <= 0 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return q.readModel.ListCarts(ctx, filter)
}
