package m_cart_item

import (
	"math/big"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the cart_items table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Key returns the primary key of an item row.
func Key(cartID, itemID string) spanner.Key {
	return spanner.Key{cartID, itemID}
}

// InsertValues returns the column/value map written for a new item.
func (m *Model) InsertValues(data *Data) map[string]interface{} {
	return map[string]interface{}{
		CartID:          data.CartID,
		ItemID:          data.ItemID,
		ProductID:       data.ProductID,
		Quantity:        data.Quantity,
		CalculatedPrice: data.CalculatedPrice,
		CreatedAt:       spanner.CommitTimestamp,
		UpdatedAt:       spanner.CommitTimestamp,
	}
}

// InsertMut creates a Spanner mutation for inserting an item.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertMap(TableName, m.InsertValues(data))
}

// UpdateValues returns the column/value map written when an item is repriced.
func (m *Model) UpdateValues(cartID, itemID string, quantity int64, price big.Rat) map[string]interface{} {
	return map[string]interface{}{
		CartID:          cartID,
		ItemID:          itemID,
		Quantity:        quantity,
		CalculatedPrice: price,
		UpdatedAt:       spanner.CommitTimestamp,
	}
}

// UpdateMut creates a Spanner mutation for updating an item's quantity and price.
func (m *Model) UpdateMut(cartID, itemID string, quantity int64, price big.Rat) *spanner.Mutation {
	return spanner.UpdateMap(TableName, m.UpdateValues(cartID, itemID, quantity, price))
}

// DeleteMut creates a Spanner mutation for deleting an item.
func (m *Model) DeleteMut(cartID, itemID string) *spanner.Mutation {
	return spanner.Delete(TableName, Key(cartID, itemID))
}
