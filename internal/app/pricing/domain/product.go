package domain

import "fmt"

// Product is the pricing view of a catalogue product.
type Product struct {
	ID        string
	Name      string
	Category  Category
	BasePrice *Money
}

// NewProduct creates a validated Product.
func NewProduct(id, name string, category Category, basePrice *Money) (*Product, error) {
	p := &Product{
		ID:        id,
		Name:      name,
		Category:  category,
		BasePrice: basePrice,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants the pricing rules depend on.
func (p *Product) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: product is required", ErrInvalidProduct)
	}
	if p.BasePrice == nil {
		return fmt.Errorf("%w: product %s has no base price", ErrInvalidProduct, p.ID)
	}
	if p.BasePrice.IsNegative() {
		return fmt.Errorf("%w: product %s has negative base price %s", ErrInvalidProduct, p.ID, p.BasePrice)
	}
	if !p.Category.IsValid() {
		return fmt.Errorf("%w: product %s has unknown category %d", ErrInvalidProduct, p.ID, int(p.Category))
	}
	return nil
}
