package http

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/get_cart"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/usecases/checkout"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
)

// amount renders money with two decimals.
func amount(m *pricing.Money) string {
	if m == nil {
		return ""
	}
	return m.String()
}

// percent renders a percentage with two decimals.
func percent(r *big.Rat) string {
	if r == nil {
		return "0.00"
	}
	return decimal.NewFromBigRat(r, 2).StringFixed(2)
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func optionalTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := timestamp(*t)
	return &s
}

// PromotionDTO is one applied promotion.
type PromotionDTO struct {
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Saved       string `json:"saved"`
}

// BreakdownDTO explains a line's price.
type BreakdownDTO struct {
	Mode            string         `json:"mode"`
	UnitPrice       string         `json:"unit_price"`
	BilledQuantity  int64          `json:"billed_quantity"`
	OriginalTotal   string         `json:"original_total"`
	DiscountedTotal string         `json:"discounted_total"`
	SavedAmount     string         `json:"saved_amount"`
	SavedPercentage string         `json:"saved_percentage"`
	Promotions      []PromotionDTO `json:"promotions"`
}

func toBreakdownDTO(r *pricing.PriceResult) *BreakdownDTO {
	if r == nil {
		return nil
	}
	promotions := make([]PromotionDTO, 0, len(r.AppliedPromotions))
	for _, p := range r.AppliedPromotions {
		promotions = append(promotions, PromotionDTO{
			Kind:        string(p.Kind()),
			Description: p.Description(),
			Saved:       amount(p.Saved()),
		})
	}
	return &BreakdownDTO{
		Mode:            string(r.Mode),
		UnitPrice:       amount(r.UnitPrice),
		BilledQuantity:  r.BilledQuantity,
		OriginalTotal:   amount(r.OriginalTotal),
		DiscountedTotal: amount(r.DiscountedTotal),
		SavedAmount:     amount(r.SavedAmount),
		SavedPercentage: percent(r.SavedPercentage),
		Promotions:      promotions,
	}
}

// SummaryDTO aggregates a cart's breakdowns.
type SummaryDTO struct {
	OriginalTotal   string `json:"original_total"`
	DiscountedTotal string `json:"discounted_total"`
	SavedAmount     string `json:"saved_amount"`
	SavedPercentage string `json:"saved_percentage"`
}

// CartItemDTO is one cart line. CalculatedPrice is the locked price that
// TotalPrice sums; Pricing is evaluated at the cart's PricedAt. PriceChanged
// is set when the two disagree, which happens on an open cart whose promotion
// has changed since the item was added.
type CartItemDTO struct {
	ItemID          string        `json:"item_id"`
	ProductID       string        `json:"product_id"`
	ProductName     string        `json:"product_name,omitempty"`
	Category        string        `json:"category,omitempty"`
	Quantity        int64         `json:"quantity"`
	CalculatedPrice string        `json:"calculated_price"`
	Pricing         *BreakdownDTO `json:"pricing,omitempty"`
	PriceChanged    bool          `json:"price_changed"`
}

// PriceChangeDTO is one recorded price change.
type PriceChangeDTO struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	OldPrice  string `json:"old_price,omitempty"`
	NewPrice  string `json:"new_price"`
	Reason    string `json:"reason"`
	ChangedAt string `json:"changed_at"`
}

// CartDTO is a cart with its breakdowns. TotalPrice is the sum of locked
// item prices; Summary totals the breakdowns priced at PricedAt.
type CartDTO struct {
	CartID       string           `json:"cart_id"`
	CustomerID   string           `json:"customer_id"`
	Status       string           `json:"status"`
	TotalPrice   string           `json:"total_price"`
	CheckoutAt   *string          `json:"checkout_at,omitempty"`
	Version      int64            `json:"version"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
	PricedAt     string           `json:"priced_at"`
	Items        []CartItemDTO    `json:"items"`
	Summary      SummaryDTO       `json:"summary"`
	PriceHistory []PriceChangeDTO `json:"price_history,omitempty"`
}

func toCartDTO(resp *get_cart.Response) CartDTO {
	cart := resp.Cart
	items := make([]CartItemDTO, 0, len(resp.Lines))
	for _, line := range resp.Lines {
		item := CartItemDTO{
			ItemID:          line.Item.ID(),
			ProductID:       line.Item.ProductID(),
			Quantity:        line.Item.Quantity(),
			CalculatedPrice: amount(line.Item.CalculatedPrice()),
			Pricing:         toBreakdownDTO(line.Breakdown),
			PriceChanged:    line.Repriced,
		}
		if line.Product != nil {
			item.ProductName = line.Product.Name
			item.Category = line.Product.Category.String()
		}
		items = append(items, item)
	}

	var history []PriceChangeDTO
	for _, rec := range resp.History {
		history = append(history, PriceChangeDTO{
			ItemID:    rec.ItemID,
			ProductID: rec.ProductID,
			Quantity:  rec.Quantity,
			OldPrice:  amount(rec.OldPrice),
			NewPrice:  amount(rec.NewPrice),
			Reason:    rec.Reason,
			ChangedAt: timestamp(rec.ChangedAt),
		})
	}

	return CartDTO{
		CartID:     cart.ID(),
		CustomerID: cart.CustomerID(),
		Status:     string(cart.Status()),
		TotalPrice: amount(cart.TotalPrice()),
		CheckoutAt: optionalTimestamp(cart.CheckoutAt()),
		Version:    cart.Version(),
		CreatedAt:  timestamp(cart.CreatedAt()),
		UpdatedAt:  timestamp(cart.UpdatedAt()),
		PricedAt:   timestamp(resp.PricedAt),
		Items:      items,
		Summary: SummaryDTO{
			OriginalTotal:   amount(resp.Summary.OriginalTotal),
			DiscountedTotal: amount(resp.Summary.DiscountedTotal),
			SavedAmount:     amount(resp.Summary.SavedAmount),
			SavedPercentage: percent(resp.Summary.SavedPercentage),
		},
		PriceHistory: history,
	}
}

// CartSummaryDTO is a cart row in a listing.
type CartSummaryDTO struct {
	CartID     string  `json:"cart_id"`
	Status     string  `json:"status"`
	TotalPrice string  `json:"total_price"`
	ItemCount  int64   `json:"item_count"`
	CheckoutAt *string `json:"checkout_at,omitempty"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

// ListCartsResponse is one page of carts.
type ListCartsResponse struct {
	Carts      []CartSummaryDTO `json:"carts"`
	TotalCount int64            `json:"total_count"`
}

func toListCartsResponse(result *contracts.CartListResult) ListCartsResponse {
	carts := make([]CartSummaryDTO, 0, len(result.Carts))
	for _, c := range result.Carts {
		carts = append(carts, CartSummaryDTO{
			CartID:     c.CartID,
			Status:     c.Status,
			TotalPrice: amount(c.TotalPrice),
			ItemCount:  c.ItemCount,
			CheckoutAt: optionalTimestamp(c.CheckoutAt),
			CreatedAt:  timestamp(c.CreatedAt),
			UpdatedAt:  timestamp(c.UpdatedAt),
		})
	}
	return ListCartsResponse{Carts: carts, TotalCount: result.TotalCount}
}

// RepricedItemDTO is one line's repricing at checkout.
type RepricedItemDTO struct {
	ItemID    string `json:"item_id"`
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	OldPrice  string `json:"old_price"`
	NewPrice  string `json:"new_price"`
}

// CheckoutResponse describes a completed checkout.
type CheckoutResponse struct {
	CartID        string            `json:"cart_id"`
	Status        string            `json:"status"`
	CheckoutAt    string            `json:"checkout_at"`
	PreviousTotal string            `json:"previous_total"`
	TotalPrice    string            `json:"total_price"`
	Items         []RepricedItemDTO `json:"items"`
}

func toCheckoutResponse(resp *checkout.Response) CheckoutResponse {
	items := make([]RepricedItemDTO, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, RepricedItemDTO{
			ItemID:    item.ItemID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			OldPrice:  amount(item.OldPrice),
			NewPrice:  amount(item.NewPrice),
		})
	}
	return CheckoutResponse{
		CartID:        resp.CartID,
		Status:        "checkout",
		CheckoutAt:    timestamp(resp.CheckoutAt),
		PreviousTotal: amount(resp.PreviousTotal),
		TotalPrice:    amount(resp.NewTotal),
		Items:         items,
	}
}

// BadgeDTO is a listing badge.
type BadgeDTO struct {
	Type         string   `json:"type"`
	Title        string   `json:"title"`
	Details      []string `json:"details"`
	SpecialPrice string   `json:"special_price,omitempty"`
}

// ProductDTO is a catalogue product with its badges.
type ProductDTO struct {
	ProductID string     `json:"product_id"`
	Name      string     `json:"name"`
	Category  string     `json:"category"`
	BasePrice string     `json:"base_price"`
	Badges    []BadgeDTO `json:"promotions"`
}

func toProductDTO(p *pricing.Product, badges []services.Badge) ProductDTO {
	out := ProductDTO{
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category.String(),
		BasePrice: amount(p.BasePrice),
		Badges:    make([]BadgeDTO, 0, len(badges)),
	}
	for _, b := range badges {
		out.Badges = append(out.Badges, BadgeDTO{
			Type:         string(b.Type),
			Title:        b.Title,
			Details:      b.Details,
			SpecialPrice: amount(b.SpecialPrice),
		})
	}
	return out
}

// ListProductsResponse is one page of products.
type ListProductsResponse struct {
	Products   []ProductDTO `json:"products"`
	TotalCount int64        `json:"total_count"`
}

// TierOfferDTO is a quantity tier.
type TierOfferDTO struct {
	Threshold   int64  `json:"threshold"`
	Percent     int64  `json:"percent"`
	Description string `json:"description"`
}

// CategoryOfferDTO is a category free-item promotion.
type CategoryOfferDTO struct {
	Category    string `json:"category"`
	GroupOf     int64  `json:"group_of"`
	Description string `json:"description"`
}

// OneShotOfferDTO is the last-Friday promotion.
type OneShotOfferDTO struct {
	Active         bool   `json:"active"`
	Category       string `json:"category"`
	SpecialPrice   string `json:"special_price"`
	NextLastFriday string `json:"next_last_friday,omitempty"`
	Description    string `json:"description"`
}

// PromotionsResponse is the promotion catalogue.
type PromotionsResponse struct {
	AsOf              string             `json:"as_of"`
	QuantityDiscounts []TierOfferDTO     `json:"quantity_discounts"`
	CategoryOffers    []CategoryOfferDTO `json:"category_promotions"`
	OneShot           OneShotOfferDTO    `json:"last_friday_promotion"`
}

func toPromotionsResponse(p *services.ActivePromotions) PromotionsResponse {
	out := PromotionsResponse{
		AsOf:              timestamp(p.AsOf),
		QuantityDiscounts: make([]TierOfferDTO, 0, len(p.QuantityDiscounts)),
		CategoryOffers:    make([]CategoryOfferDTO, 0, len(p.CategoryOffers)),
		OneShot: OneShotOfferDTO{
			Active:       p.OneShot.Active,
			Category:     p.OneShot.Category.String(),
			SpecialPrice: amount(p.OneShot.SpecialPrice),
			Description:  p.OneShot.Description,
		},
	}
	if !p.OneShot.Active {
		out.OneShot.NextLastFriday = p.OneShot.Date.Format("2006-01-02")
	}
	for _, t := range p.QuantityDiscounts {
		out.QuantityDiscounts = append(out.QuantityDiscounts, TierOfferDTO(t))
	}
	for _, c := range p.CategoryOffers {
		out.CategoryOffers = append(out.CategoryOffers, CategoryOfferDTO{
			Category:    c.Category.String(),
			GroupOf:     c.GroupOf,
			Description: c.Description,
		})
	}
	return out
}

// QuoteResponse is an explained price without a cart.
type QuoteResponse struct {
	ProductID string        `json:"product_id"`
	Quantity  int64         `json:"quantity"`
	AsOf      string        `json:"as_of"`
	Total     string        `json:"total"`
	Pricing   *BreakdownDTO `json:"pricing"`
	Narrative string        `json:"narrative"`
}

// Event is an outbox event in the HTTP response.
type Event struct {
	EventID     string  `json:"event_id"`
	EventType   string  `json:"event_type"`
	AggregateID string  `json:"aggregate_id"`
	Payload     string  `json:"payload"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`
	ProcessedAt *string `json:"processed_at,omitempty"`
}

// ListEventsResponse represents the HTTP response for listing events.
type ListEventsResponse struct {
	Events     []Event `json:"events"`
	TotalCount int64   `json:"total_count"`
}

func toEvent(d *m_outbox.Data) Event {
	e := Event{
		EventID:     d.EventID,
		EventType:   d.EventType,
		AggregateID: d.AggregateID,
		Status:      d.Status,
		CreatedAt:   timestamp(d.CreatedAt),
	}
	if d.Payload.Valid {
		if raw, err := d.Payload.MarshalJSON(); err == nil {
			e.Payload = string(raw)
		}
	}
	if d.ProcessedAt.Valid {
		e.ProcessedAt = optionalTimestamp(&d.ProcessedAt.Time)
	}
	return e
}
