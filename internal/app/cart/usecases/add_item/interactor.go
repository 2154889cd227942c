package add_item

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain/services"
	pricingcontracts "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// Request contains the data needed to add a product to a cart.
type Request struct {
	CustomerID string
	CartID     string
	ProductID  string
	Quantity   int64
}

// Response describes the line that now holds the product.
type Response struct {
	ItemID          string
	Quantity        int64
	CalculatedPrice *pricing.Money
	CartTotal       *pricing.Money
}

// Interactor handles the add item use case.
type Interactor struct {
	repo       contracts.CartRepository
	products   pricingcontracts.ProductRepository
	calculator services.Calculator
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new add item interactor.
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

// Execute adds the product at today's price. Adding a product that is
// already in the cart merges the quantities into its line.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if err := i.validate(req); err != nil {
		return nil, err
	}

	// 2. Load aggregates
	cart, err := i.repo.GetByID(ctx, req.CartID)
	if err != nil {
		return nil, err
	}
	if !cart.OwnedBy(req.CustomerID) {
		return nil, domain.ErrCartNotFound
	}
	defer cart.ClearEvents()

	product, err := i.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// 3. Call domain method
	now := i.clock.Now()
	pricer := services.CatalogPricer(i.calculator, map[string]*pricing.Product{product.ID: product}, now)
	item, err := cart.AddItem(uuid.New().String(), product.ID, req.Quantity, pricer, now)
	if err != nil {
		return nil, err
	}

	// 4. Create commit plan
	plan := committer.NewPlan()
	plan.AddMultiple(i.repo.UpdateMuts(cart))

	// 5. Add outbox events
	for _, event := range cart.DomainEvents() {
		payload, err := i.serializeEvent(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
	}

	// 6. Apply plan, guarded by the version the cart was loaded with
	if err := i.committer.ApplyWithVersionCheck(ctx, i.repo.VersionGuard(cart), plan); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &Response{
		ItemID:          item.ID(),
		Quantity:        item.Quantity(),
		CalculatedPrice: item.CalculatedPrice(),
		CartTotal:       cart.TotalPrice(),
	}, nil
}

// validate validates the request.
func (i *Interactor) validate(req *Request) error {
	if req.CartID == "" {
		return domain.ErrMissingCartID
	}
	if req.CustomerID == "" {
		return domain.ErrEmptyCustomerID
	}
	if req.ProductID == "" {
		return fmt.Errorf("%w: product ID is required", domain.ErrProductNotFound)
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
