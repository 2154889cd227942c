package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_cart"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ReadModelImpl implements ReadModel for Spanner.
type ReadModelImpl struct {
	client *spanner.Client
}

// NewReadModel creates a new ReadModel implementation.
func NewReadModel(client *spanner.Client) contracts.ReadModel {
	return &ReadModelImpl{client: client}
}

// itemCountColumn counts the interleaved items of each cart row.
const itemCountColumn = "(SELECT COUNT(*) FROM cart_items WHERE cart_items.cart_id = carts.cart_id) AS item_count"

// ListCarts retrieves a customer's carts, newest first.
func (rm *ReadModelImpl) ListCarts(ctx context.Context, filter *contracts.CartFilter) (*contracts.CartListResult, error) {
	base := query.From(m_cart.TableName).
		UseIndex(m_cart.IndexByCustomer).
		Where(query.Eq(m_cart.CustomerID, filter.CustomerID))
	if filter.Status != "" {
		base = base.Where(query.Eq(m_cart.Status, filter.Status))
	}

	total, err := query.ScalarInt64(ctx, rm.client.Single(), base.Count().Build())
	if err != nil {
		return nil, fmt.Errorf("failed to count carts: %w", err)
	}

	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	stmt := base.
		Select(m_cart.Columns...).
		Select(itemCountColumn).
		OrderBy(m_cart.CreatedAt, query.Desc).
		OrderBy(m_cart.CartID, query.Asc).
		Limit(int64(pageSize)).
		Offset(int64(filter.Offset)).
		Build()

	iter := rm.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	carts := make([]*contracts.CartSummaryDTO, 0, pageSize)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate carts: %w", err)
		}

		var data m_cart.Data
		var itemCount int64
		if err := row.Columns(
			&data.CartID,
			&data.CustomerID,
			&data.Status,
			&data.TotalPrice,
			&data.CheckoutAt,
			&data.Version,
			&data.CreatedAt,
			&data.UpdatedAt,
			&itemCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}

		carts = append(carts, dataToSummary(&data, itemCount))
	}

	return &contracts.CartListResult{Carts: carts, TotalCount: total}, nil
}

func dataToSummary(data *m_cart.Data, itemCount int64) *contracts.CartSummaryDTO {
	var checkoutAt *time.Time
	if data.CheckoutAt.Valid {
		at := data.CheckoutAt.Time
		checkoutAt = &at
	}

	return &contracts.CartSummaryDTO{
		CartID:     data.CartID,
		CustomerID: data.CustomerID,
		Status:     data.Status,
		TotalPrice: pricing.NewMoneyFromRat(&data.TotalPrice),
		ItemCount:  itemCount,
		CheckoutAt: checkoutAt,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
