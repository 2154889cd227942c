package m_cart

import (
	"sort"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the carts table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertValues returns the column/value map written for a new cart.
func (m *Model) InsertValues(data *Data) map[string]interface{} {
	return map[string]interface{}{
		CartID:     data.CartID,
		CustomerID: data.CustomerID,
		Status:     data.Status,
		TotalPrice: data.TotalPrice,
		CheckoutAt: data.CheckoutAt,
		Version:    data.Version,
		CreatedAt:  spanner.CommitTimestamp,
		UpdatedAt:  spanner.CommitTimestamp,
	}
}

// InsertMut creates a Spanner mutation for inserting a cart.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertMap(TableName, m.InsertValues(data))
}

// UpdateMut creates a Spanner mutation for updating specific cart columns.
// updated_at is always refreshed. Returns nil when there is nothing to write.
func (m *Model) UpdateMut(cartID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+2)
	for col := range updates {
		if col != CartID && col != UpdatedAt {
			columns = append(columns, col)
		}
	}
	sort.Strings(columns)

	values := make([]interface{}, 0, len(columns)+2)
	for _, col := range columns {
		values = append(values, updates[col])
	}

	columns = append([]string{CartID}, append(columns, UpdatedAt)...)
	values = append([]interface{}{cartID}, append(values, spanner.CommitTimestamp)...)

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for deleting a cart and, through
// the interleaved parent, its items.
func (m *Model) DeleteMut(cartID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{cartID})
}
