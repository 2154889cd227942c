// Package contractstest provides in-memory implementations of the pricing
// contracts for tests.
package contractstest

import (
	"context"
	"sort"
	"sync"

	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
)

// Products is an in-memory ProductRepository.
type Products struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	// Err, when set, is returned by every call.
	Err error
}

var _ contracts.ProductRepository = (*Products)(nil)

// NewProducts creates a repository holding products.
func NewProducts(products ...*domain.Product) *Products {
	r := &Products{products: make(map[string]*domain.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

// Put adds or replaces a product.
func (r *Products) Put(p *domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *Products) GetByID(_ context.Context, productID string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	p, ok := r.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (r *Products) GetByIDs(_ context.Context, productIDs []string) (map[string]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make(map[string]*domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := r.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (r *Products) List(_ context.Context, filter contracts.ProductFilter) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.Err != nil {
		return nil, 0, r.Err
	}

	matched := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Category == 0 || p.Category == filter.Category {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Name != matched[j].Name {
			return matched[i].Name < matched[j].Name
		}
		return matched[i].ID < matched[j].ID
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return []*domain.Product{}, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.PageSize > 0 && filter.PageSize < len(matched) {
		matched = matched[:filter.PageSize]
	}
	return matched, total, nil
}
