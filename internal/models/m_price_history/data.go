package m_price_history

import (
	"math/big"
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a price history record in the database.
type Data struct {
	HistoryID string              `spanner:"history_id"`
	CartID    string              `spanner:"cart_id"`
	ItemID    string              `spanner:"item_id"`
	ProductID string              `spanner:"product_id"`
	Quantity  int64               `spanner:"quantity"`
	OldPrice  spanner.NullNumeric `spanner:"old_price"`
	NewPrice  big.Rat             `spanner:"new_price"`
	Reason    string              `spanner:"reason"`
	ChangedAt time.Time           `spanner:"changed_at"`
}

// Model provides type-safe database operations for price history.
type Model struct{}

// NewModel creates a new price history model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a price history record.
func (m *Model) InsertMut(data *Data) (*spanner.Mutation, error) {
	return spanner.InsertStruct(TableName, data)
}

// ReadColumns returns the column names for reading price history.
func (m *Model) ReadColumns() []string {
	return []string{
		HistoryID,
		CartID,
		ItemID,
		ProductID,
		Quantity,
		OldPrice,
		NewPrice,
		Reason,
		ChangedAt,
	}
}
