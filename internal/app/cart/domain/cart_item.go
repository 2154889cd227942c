package domain

import pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"

// CartItem is one product line of a cart with its locked price.
type CartItem struct {
	id              string
	productID       string
	quantity        int64
	calculatedPrice *pricing.Money
}

// ReconstructCartItem reconstitutes an item loaded from storage.
func ReconstructCartItem(id, productID string, quantity int64, calculatedPrice *pricing.Money) *CartItem {
	return &CartItem{
		id:              id,
		productID:       productID,
		quantity:        quantity,
		calculatedPrice: calculatedPrice,
	}
}

func (i *CartItem) ID() string                      { return i.id }
func (i *CartItem) ProductID() string               { return i.productID }
func (i *CartItem) Quantity() int64                 { return i.quantity }
func (i *CartItem) CalculatedPrice() *pricing.Money { return i.calculatedPrice.Copy() }
