package domain

import (
	"time"

	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// DomainEvent is the base interface for all domain events.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// CartCreatedEvent is emitted when a cart is created.
type CartCreatedEvent struct {
	CartID     string    `json:"cart_id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (e *CartCreatedEvent) EventType() string   { return "cart.created" }
func (e *CartCreatedEvent) AggregateID() string { return e.CartID }

// CartItemAddedEvent is emitted when a product is added to a cart.
// Quantity is the line's quantity after merging.
type CartItemAddedEvent struct {
	CartID          string         `json:"cart_id"`
	ItemID          string         `json:"item_id"`
	ProductID       string         `json:"product_id"`
	Quantity        int64          `json:"quantity"`
	CalculatedPrice *pricing.Money `json:"calculated_price"`
	AddedAt         time.Time      `json:"added_at"`
}

func (e *CartItemAddedEvent) EventType() string   { return "cart.item_added" }
func (e *CartItemAddedEvent) AggregateID() string { return e.CartID }

// CartItemUpdatedEvent is emitted when an item's quantity changes.
type CartItemUpdatedEvent struct {
	CartID          string         `json:"cart_id"`
	ItemID          string         `json:"item_id"`
	OldQuantity     int64          `json:"old_quantity"`
	NewQuantity     int64          `json:"new_quantity"`
	CalculatedPrice *pricing.Money `json:"calculated_price"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

func (e *CartItemUpdatedEvent) EventType() string   { return "cart.item_updated" }
func (e *CartItemUpdatedEvent) AggregateID() string { return e.CartID }

// CartItemRemovedEvent is emitted when an item is removed.
type CartItemRemovedEvent struct {
	CartID    string    `json:"cart_id"`
	ItemID    string    `json:"item_id"`
	ProductID string    `json:"product_id"`
	RemovedAt time.Time `json:"removed_at"`
}

func (e *CartItemRemovedEvent) EventType() string   { return "cart.item_removed" }
func (e *CartItemRemovedEvent) AggregateID() string { return e.CartID }

// CartClearedEvent is emitted when every item is removed at once.
type CartClearedEvent struct {
	CartID       string    `json:"cart_id"`
	RemovedItems int       `json:"removed_items"`
	ClearedAt    time.Time `json:"cleared_at"`
}

func (e *CartClearedEvent) EventType() string   { return "cart.cleared" }
func (e *CartClearedEvent) AggregateID() string { return e.CartID }

// RepricedItem records one item's price change at checkout.
type RepricedItem struct {
	ItemID    string         `json:"item_id"`
	ProductID string         `json:"product_id"`
	Quantity  int64          `json:"quantity"`
	OldPrice  *pricing.Money `json:"old_price"`
	NewPrice  *pricing.Money `json:"new_price"`
}

// CartCheckedOutEvent is emitted when a cart is frozen at checkout.
type CartCheckedOutEvent struct {
	CartID        string         `json:"cart_id"`
	CustomerID    string         `json:"customer_id"`
	CheckoutAt    time.Time      `json:"checkout_at"`
	PreviousTotal *pricing.Money `json:"previous_total"`
	NewTotal      *pricing.Money `json:"new_total"`
	Items         []RepricedItem `json:"items"`
}

func (e *CartCheckedOutEvent) EventType() string   { return "cart.checked_out" }
func (e *CartCheckedOutEvent) AggregateID() string { return e.CartID }
