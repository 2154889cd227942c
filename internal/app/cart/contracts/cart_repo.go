package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

// CartRepository defines the interface for cart persistence.
// Repositories return mutations, they don't apply them (Golden Mutation Pattern).
type CartRepository interface {
	// InsertMuts creates the mutations for a new cart and its items.
	InsertMuts(cart *domain.Cart) []*spanner.Mutation

	// UpdateMuts creates the mutations for the tracked changes of a loaded
	// cart (dirty columns, added/updated/removed items) and bumps its version.
	// Returns nil when nothing changed.
	UpdateMuts(cart *domain.Cart) []*spanner.Mutation

	// VersionGuard returns the guard that makes UpdateMuts conditional on
	// the cart still being at the version it was loaded with.
	VersionGuard(cart *domain.Cart) committer.VersionGuard

	// GetByID retrieves a cart with its items. Returns ErrCartNotFound.
	GetByID(ctx context.Context, cartID string) (*domain.Cart, error)
}
