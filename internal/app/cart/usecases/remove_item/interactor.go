package remove_item

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/clock"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// Request identifies the line to remove.
type Request struct {
	CustomerID string
	CartID     string
	ItemID     string
}

// Interactor handles the remove item use case.
type Interactor struct {
	repo       contracts.CartRepository
	outboxRepo contracts.OutboxRepository
	committer  contracts.Committer
	clock      clock.Clock
}

// NewInteractor creates a new remove item interactor.
func NewInteractor(
	repo contracts.CartRepository,
	outboxRepo contracts.OutboxRepository,
	committer contracts.Committer,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		repo:       repo,
		outboxRepo: outboxRepo,
		committer:  committer,
		clock:      clock,
	}
}

// Execute deletes the line. Other lines keep their locked prices.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.CartID == "" {
		return domain.ErrMissingCartID
	}
	if req.ItemID == "" {
		return domain.ErrMissingItemID
	}

	cart, err := i.repo.GetByID(ctx, req.CartID)
	if err != nil {
		return err
	}
	if !cart.OwnedBy(req.CustomerID) {
		return domain.ErrCartNotFound
	}
	defer cart.ClearEvents()

	if err := cart.RemoveItem(req.ItemID, i.clock.Now()); err != nil {
		return err
	}

	plan := committer.NewPlan()
	plan.AddMultiple(i.repo.UpdateMuts(cart))

	for _, event := range cart.DomainEvents() {
		payload, err := i.serializeEvent(event)
		if err != nil {
			return fmt.Errorf("failed to serialize event: %w", err)
		}
		plan.Add(i.outboxRepo.InsertMut(i.outboxRepo.EnrichEvent(event, payload)))
	}

	if err := i.committer.ApplyWithVersionCheck(ctx, i.repo.VersionGuard(cart), plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
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
