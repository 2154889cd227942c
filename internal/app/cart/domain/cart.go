package domain

import (
	"fmt"
	"time"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// Field names for change tracking
const (
	FieldStatus     = "status"
	FieldTotalPrice = "total_price"
	FieldCheckoutAt = "checkout_at"
)

// CartStatus represents the lifecycle status of a cart
type CartStatus string

const (
	StatusCreated  CartStatus = "created"
	StatusBuilding CartStatus = "building"
	StatusCheckout CartStatus = "checkout"
)

// IsValid reports whether s is a known status.
func (s CartStatus) IsValid() bool {
	switch s {
	case StatusCreated, StatusBuilding, StatusCheckout:
		return true
	}
	return false
}

// ItemPricer returns the locked price of quantity units of a product.
// The cart never prices items itself; usecases pass a closure over the
// price calculator and the as-of date.
type ItemPricer func(productID string, quantity int64) (*pricing.Money, error)

// CheckoutResult describes the repricing performed at checkout.
type CheckoutResult struct {
	PreviousTotal *pricing.Money
	NewTotal      *pricing.Money
	Items         []RepricedItem
}

// Cart is the aggregate root for a customer's shopping cart.
type Cart struct {
	id         string
	customerID string
	status     CartStatus
	items      []*CartItem
	totalPrice *pricing.Money
	checkoutAt *time.Time
	version    int64
	createdAt  time.Time
	updatedAt  time.Time

	changes *ChangeTracker
	events  []DomainEvent
}

// NewCart creates an empty cart in the created state at version 1.
func NewCart(id, customerID string, now time.Time) (*Cart, error) {
	if customerID == "" {
		return nil, ErrEmptyCustomerID
	}

	c := &Cart{
		id:         id,
		customerID: customerID,
		status:     StatusCreated,
		items:      make([]*CartItem, 0),
		totalPrice: pricing.Zero(),
		version:    1,
		createdAt:  now,
		updatedAt:  now,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}

	c.changes.MarkDirty(FieldStatus)
	c.changes.MarkDirty(FieldTotalPrice)

	c.recordEvent(&CartCreatedEvent{
		CartID:     c.id,
		CustomerID: c.customerID,
		CreatedAt:  now,
	})

	return c, nil
}

// ReconstructCart reconstitutes a Cart from the database.
func ReconstructCart(
	id, customerID string,
	status CartStatus,
	items []*CartItem,
	totalPrice *pricing.Money,
	checkoutAt *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Cart {
	if items == nil {
		items = make([]*CartItem, 0)
	}
	if totalPrice == nil {
		totalPrice = pricing.Zero()
	}
	return &Cart{
		id:         id,
		customerID: customerID,
		status:     status,
		items:      items,
		totalPrice: totalPrice,
		checkoutAt: checkoutAt,
		version:    version,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
		changes:    NewChangeTracker(),
		events:     make([]DomainEvent, 0),
	}
}

// Getters
func (c *Cart) ID() string                     { return c.id }
func (c *Cart) CustomerID() string             { return c.customerID }
func (c *Cart) Status() CartStatus             { return c.status }
func (c *Cart) TotalPrice() *pricing.Money     { return c.totalPrice.Copy() }
func (c *Cart) CheckoutAt() *time.Time         { return c.checkoutAt }
func (c *Cart) Version() int64                 { return c.version }
func (c *Cart) CreatedAt() time.Time           { return c.createdAt }
func (c *Cart) UpdatedAt() time.Time           { return c.updatedAt }
func (c *Cart) Changes() *ChangeTracker        { return c.changes }
func (c *Cart) DomainEvents() []DomainEvent    { return c.events }
func (c *Cart) IsCheckedOut() bool             { return c.status == StatusCheckout }
func (c *Cart) ItemCount() int                 { return len(c.items) }
func (c *Cart) OwnedBy(customerID string) bool { return c.customerID == customerID }

// Items returns the cart lines in insertion order.
func (c *Cart) Items() []*CartItem {
	out := make([]*CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Item returns the line with the given ID.
func (c *Cart) Item(itemID string) (*CartItem, bool) {
	for _, item := range c.items {
		if item.id == itemID {
			return item, true
		}
	}
	return nil, false
}

// ItemForProduct returns the line holding productID, if any.
func (c *Cart) ItemForProduct(productID string) (*CartItem, bool) {
	for _, item := range c.items {
		if item.productID == productID {
			return item, true
		}
	}
	return nil, false
}

// AddItem adds quantity units of a product. If the product is already in the
// cart the quantities are merged into the existing line and the merged
// quantity is repriced; newItemID is only used for a new line. Returns the
// line that holds the product.
func (c *Cart) AddItem(newItemID, productID string, quantity int64, price ItemPricer, now time.Time) (*CartItem, error) {
	if err := c.checkNotCheckedOut(); err != nil {
		return nil, err
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	item, exists := c.ItemForProduct(productID)
	merged := quantity
	if exists {
		merged += item.quantity
	}

	calculated, err := price(productID, merged)
	if err != nil {
		return nil, fmt.Errorf("failed to price product %s: %w", productID, err)
	}

	if exists {
		item.quantity = merged
		item.calculatedPrice = calculated
		c.changes.MarkItemUpdated(item.id)
	} else {
		item = &CartItem{
			id:              newItemID,
			productID:       productID,
			quantity:        merged,
			calculatedPrice: calculated,
		}
		c.items = append(c.items, item)
		c.changes.MarkItemAdded(item.id)
	}

	c.setStatus(StatusBuilding)
	c.recomputeTotal()
	c.touch(now)

	c.recordEvent(&CartItemAddedEvent{
		CartID:          c.id,
		ItemID:          item.id,
		ProductID:       productID,
		Quantity:        merged,
		CalculatedPrice: calculated.Copy(),
		AddedAt:         now,
	})

	return item, nil
}

// UpdateItemQuantity sets the quantity of an existing line and reprices it.
func (c *Cart) UpdateItemQuantity(itemID string, quantity int64, price ItemPricer, now time.Time) error {
	if err := c.checkNotCheckedOut(); err != nil {
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	item, ok := c.Item(itemID)
	if !ok {
		return ErrItemNotFound
	}

	calculated, err := price(item.productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to price product %s: %w", item.productID, err)
	}

	old := item.quantity
	item.quantity = quantity
	item.calculatedPrice = calculated
	c.changes.MarkItemUpdated(item.id)

	c.setStatus(StatusBuilding)
	c.recomputeTotal()
	c.touch(now)

	c.recordEvent(&CartItemUpdatedEvent{
		CartID:          c.id,
		ItemID:          item.id,
		OldQuantity:     old,
		NewQuantity:     quantity,
		CalculatedPrice: calculated.Copy(),
		UpdatedAt:       now,
	})

	return nil
}

// RemoveItem deletes a line from the cart.
func (c *Cart) RemoveItem(itemID string, now time.Time) error {
	if err := c.checkNotCheckedOut(); err != nil {
		return err
	}

	idx := -1
	for i, item := range c.items {
		if item.id == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrItemNotFound
	}

	removed := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.changes.MarkItemRemoved(removed.id)

	c.recomputeTotal()
	c.touch(now)

	c.recordEvent(&CartItemRemovedEvent{
		CartID:    c.id,
		ItemID:    removed.id,
		ProductID: removed.productID,
		RemovedAt: now,
	})

	return nil
}

// Clear removes every line. The status is left as is.
func (c *Cart) Clear(now time.Time) error {
	if err := c.checkNotCheckedOut(); err != nil {
		return err
	}

	count := len(c.items)
	for _, item := range c.items {
		c.changes.MarkItemRemoved(item.id)
	}
	c.items = make([]*CartItem, 0)

	c.recomputeTotal()
	c.touch(now)

	c.recordEvent(&CartClearedEvent{
		CartID:       c.id,
		RemovedItems: count,
		ClearedAt:    now,
	})

	return nil
}

// Checkout reprices every line as of at and freezes the cart.
// All prices are computed before anything is changed: if any line fails to
// price the cart is left exactly as it was.
func (c *Cart) Checkout(at time.Time, price ItemPricer) (*CheckoutResult, error) {
	if err := c.checkNotCheckedOut(); err != nil {
		return nil, err
	}
	if len(c.items) == 0 {
		return nil, ErrCartEmpty
	}

	newPrices := make([]*pricing.Money, len(c.items))
	for i, item := range c.items {
		p, err := price(item.productID, item.quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to price item %s: %w", item.id, err)
		}
		newPrices[i] = p
	}

	result := &CheckoutResult{
		PreviousTotal: c.totalPrice.Copy(),
		Items:         make([]RepricedItem, 0, len(c.items)),
	}

	for i, item := range c.items {
		result.Items = append(result.Items, RepricedItem{
			ItemID:    item.id,
			ProductID: item.productID,
			Quantity:  item.quantity,
			OldPrice:  item.calculatedPrice.Copy(),
			NewPrice:  newPrices[i].Copy(),
		})
		item.calculatedPrice = newPrices[i]
		c.changes.MarkItemUpdated(item.id)
	}

	checkoutAt := at
	c.checkoutAt = &checkoutAt
	c.changes.MarkDirty(FieldCheckoutAt)
	c.setStatus(StatusCheckout)
	c.recomputeTotal()
	c.touch(at)

	result.NewTotal = c.totalPrice.Copy()

	c.recordEvent(&CartCheckedOutEvent{
		CartID:        c.id,
		CustomerID:    c.customerID,
		CheckoutAt:    at,
		PreviousTotal: result.PreviousTotal,
		NewTotal:      result.NewTotal,
		Items:         result.Items,
	})

	return result, nil
}

func (c *Cart) setStatus(status CartStatus) {
	if c.status == status {
		return
	}
	c.status = status
	c.changes.MarkDirty(FieldStatus)
}

// recomputeTotal keeps the total equal to the sum of locked item prices.
func (c *Cart) recomputeTotal() {
	total := pricing.Zero()
	for _, item := range c.items {
		total = total.Add(item.calculatedPrice)
	}
	c.totalPrice = total
	c.changes.MarkDirty(FieldTotalPrice)
}

func (c *Cart) touch(now time.Time) {
	c.updatedAt = now
}

// checkNotCheckedOut returns an error if the cart is frozen.
func (c *Cart) checkNotCheckedOut() error {
	if c.status == StatusCheckout {
		return ErrCartCheckedOut
	}
	return nil
}

// recordEvent adds a domain event to the list of events.
func (c *Cart) recordEvent(event DomainEvent) {
	c.events = append(c.events, event)
}

// ClearEvents clears all recorded domain events (called after publishing).
func (c *Cart) ClearEvents() {
	c.events = make([]DomainEvent, 0)
}
