package m_price_history

// Table name constant. Rows record how a cart item's locked price moved
// when the cart was repriced at checkout.
const TableName = "item_price_history"

// Field name constants for type-safe database access
const (
	HistoryID = "history_id"
	CartID    = "cart_id"
	ItemID    = "item_id"
	ProductID = "product_id"
	Quantity  = "quantity"
	OldPrice  = "old_price"
	NewPrice  = "new_price"
	Reason    = "reason"
	ChangedAt = "changed_at"
)

// Reasons
const (
	ReasonCheckout = "checkout"
)
