package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain/services"
	pricingcontracts "github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_price_history"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// Request identifies the cart to check out.
type Request struct {
	CustomerID string
	CartID     string
}

// Response describes the repricing performed at checkout.
type Response struct {
	CartID        string
	CheckoutAt    time.Time
	PreviousTotal *pricing.Money
	NewTotal      *pricing.Money
	Items         []domain.RepricedItem
}

// Interactor handles the checkout use case.
type Interactor struct {
	repo             contracts.CartRepository
	products         pricingcontracts.ProductRepository
	calculator       services.Calculator
	outboxRepo       contracts.OutboxRepository
	priceHistoryRepo contracts.PriceHistoryRepository
	committer        contracts.Committer
	clock            clock.Clock
	logger           *zap.Logger
}

// NewInteractor creates a new checkout interactor.
func NewInteractor(
	repo contracts.CartRepository,
	products pricingcontracts.ProductRepository,
	calculator services.Calculator,
	outboxRepo contracts.OutboxRepository,
	priceHistoryRepo contracts.PriceHistoryRepository,
	committer contracts.Committer,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:             repo,
		products:         products,
		calculator:       calculator,
		outboxRepo:       outboxRepo,
		priceHistoryRepo: priceHistoryRepo,
		committer:        committer,
		clock:            clock,
		logger:           logger,
	}
}

// Execute reprices every line at the checkout instant and freezes the cart.
// Prices are recomputed from the catalogue, so a promotion that started or
// ended since an item was added is reflected in the final total.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Validate request
	if req.CartID == "" {
		return nil, domain.ErrMissingCartID
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

	products, err := i.loadProducts(ctx, cart)
	if err != nil {
		return nil, err
	}

	// 3. Call domain method; any pricing error leaves the cart untouched
	at := i.clock.Now()
	result, err := cart.Checkout(at, services.CatalogPricer(i.calculator, products, at))
	if err != nil {
		return nil, err
	}

	// 4. Create commit plan
	plan := committer.NewPlan()
	plan.AddMultiple(i.repo.UpdateMuts(cart))

	// 5. Record how each line's price moved
	for _, item := range result.Items {
		mut, err := i.priceHistoryRepo.InsertMut(&contracts.PriceHistoryRecord{
			HistoryID: uuid.New().String(),
			CartID:    cart.ID(),
			ItemID:    item.ItemID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			OldPrice:  item.OldPrice,
			NewPrice:  item.NewPrice,
			Reason:    m_price_history.ReasonCheckout,
			ChangedAt: at,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build price history: %w", err)
		}
		plan.Add(mut)
	}

	// 6. Add outbox events
	for _, event := range cart.DomainEvents() {
		payload, err := i.serializeEvent(event)
		if err != nil {
			return nil, fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
	}

	// 7. Apply plan; a concurrent change or checkout aborts everything
	if err := i.committer.ApplyWithVersionCheck(ctx, i.repo.VersionGuard(cart), plan); err != nil {
		i.logger.Warn("checkout aborted",
			zap.String("cart_id", cart.ID()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	i.logger.Info("cart checked out",
		zap.String("cart_id", cart.ID()),
		zap.String("customer_id", cart.CustomerID()),
		zap.Int("items", len(result.Items)),
		zap.String("previous_total", result.PreviousTotal.String()),
		zap.String("new_total", result.NewTotal.String()))

	return &Response{
		CartID:        cart.ID(),
		CheckoutAt:    at,
		PreviousTotal: result.PreviousTotal,
		NewTotal:      result.NewTotal,
		Items:         result.Items,
	}, nil
}

// loadProducts fetches the catalogue entries of every line in one read.
func (i *Interactor) loadProducts(ctx context.Context, cart *domain.Cart) (map[string]*pricing.Product, error) {
	ids := make([]string, 0, cart.ItemCount())
	for _, item := range cart.Items() {
		ids = append(ids, item.ProductID())
	}
	if len(ids) == 0 {
		return map[string]*pricing.Product{}, nil
	}
	products, err := i.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	return products, nil
}

// serializeEvent converts a domain event to JSON payload.
func (i *Interactor) serializeEvent(event domain.DomainEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
