package update_item

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain/services"
	pricingcontracts "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// Request contains the data needed to change a line's quantity.
type Request struct {
	CustomerID string
	CartID     string
	ItemID     string
	Quantity   int64
}

// Interactor handles the update item use case.
type Interactor struct {
	repo       contracts.CartRepository
	products   pricingcontracts.ProductRepository
	calculator services.Calculator
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new update item interactor.
func NewInteractor(
	repo contracts.CartRepository,
	products pricingcontracts.ProductRepository,
	calculator services.Calculator,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		products:   products,
		calculator: calculator,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
	}
}

// Execute sets the line's quantity and reprices it at today's price.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return err
	}

	// 2. Load aggregates
	cart, err := i.repo.GetByID(ctx, req.CartID)
	if err != nil {
		return err
	}
	if !cart.OwnedBy(req.CustomerID) {
		return domain.ErrCartNotFound
	}
	defer cart.ClearEvents()

	item, ok := cart.Item(req.ItemID)
	if !ok {
		return domain.ErrItemNotFound
	}
	product, err := i.products.GetByID(ctx, item.ProductID())
	if err != nil {
		return err
	}

	// 3. Call domain method
	now := i.clock.Now()
	pricer := services.CatalogPricer(i.calculator, map[string]*pricing.Product{product.ID: product}, now)
	if err := cart.UpdateItemQuantity(req.ItemID, req.Quantity, pricer, now); err != nil {
		return err
	}

	// 4. Create commit plan
	plan := committer.NewPlan()
	plan.AddMultiple(i.repo.UpdateMuts(cart))

	// 5. Add outbox events
	for _, event := range cart.DomainEvents() {
		payload, err := i.serializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
	}

	// 6. Apply plan
	if err := i.committer.ApplyWithVersionCheck(ctx, i.repo.VersionGuard(cart), plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if req.CartID == "" {
		return domain.ErrMissingCartID
	}
	if req.ItemID == "" {
		return domain.ErrMissingItemID
	}
	if req.CustomerID == "" {
		return domain.ErrEmptyCustomerID
	}
	if req.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}

// serializeEvent converts a domain event to JSON payload.
func (i *Interactor) serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
