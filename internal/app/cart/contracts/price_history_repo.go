package contracts

import (
	"context"
	"time"

	"cloud.google.com/go/spanner"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// PriceHistoryRepository records how item prices moved when a cart was repriced.
type PriceHistoryRepository interface {
	// InsertMut creates a mutation for inserting a price change record.
	InsertMut(record *PriceHistoryRecord) (*spanner.Mutation, error)

	// GetByCartID returns a cart's records in item order.
	GetByCartID(ctx context.Context, cartID string) ([]PriceHistoryRecord, error)
}

// PriceHistoryRecord represents one item's price change.
type PriceHistoryRecord struct {
	HistoryID string
	CartID    string
	ItemID    string
	ProductID string
	Quantity  int64
	OldPrice  *pricing.Money // nil when the item had no price before
	NewPrice  *pricing.Money
	Reason    string
	ChangedAt time.Time
}
