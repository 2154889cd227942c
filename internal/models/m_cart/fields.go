package m_cart

// Field name constants for the carts table.
const (
	TableName = "carts"

	CartID     = "cart_id"
	CustomerID = "customer_id"
	Status     = "status"
	TotalPrice = "total_price"
	CheckoutAt = "checkout_at"
	Version    = "version"
	CreatedAt  = "created_at"
	UpdatedAt  = "updated_at"
)

// Columns lists every carts column in table order.
var Columns = []string{
	CartID,
	CustomerID,
	Status,
	TotalPrice,
	CheckoutAt,
	Version,
	CreatedAt,
	UpdatedAt,
}

// Indexes
const (
	IndexByCustomer = "carts_by_customer"
)
