package m_product

// Field name constants for the products table.
const (
	TableName = "products"

	ProductID  = "product_id"
	Name       = "name"
	CategoryID = "category_id"
	BasePrice  = "base_price"
	CreatedAt  = "created_at"
	UpdatedAt  = "updated_at"
)

// Columns lists every products column in table order.
var Columns = []string{
	ProductID,
	Name,
	CategoryID,
	BasePrice,
	CreatedAt,
	UpdatedAt,
}
