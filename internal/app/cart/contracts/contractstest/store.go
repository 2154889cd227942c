// Package contractstest provides an in-memory implementation of the cart
// contracts for usecase and transport tests.
//
// Repositories stage their writes behind the mutations they return; the
// Store's committer runs the staged writes of a plan only when the plan is
// applied, so a usecase that fails before Apply leaves the store untouched.
package contractstest

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
)

type itemRow struct {
	id        string
	productID string
	quantity  int64
	price     *pricing.Money
}

type cartRow struct {
	id         string
	customerID string
	status     domain.CartStatus
	items      []itemRow
	total      *pricing.Money
	checkoutAt *time.Time
	version    int64
	createdAt  time.Time
	updatedAt  time.Time
}

// Store holds committed carts, outbox events and price history.
type Store struct {
	mu      sync.Mutex
	carts   map[string]cartRow
	events  []*contracts.OutboxEvent
	history []contracts.PriceHistoryRecord
	staged  map[*spanner.Mutation]func()
	plans   int

	// ApplyErr, when set, is returned by the committer instead of applying.
	ApplyErr error
	// BeforeApply, when set, runs at the start of every Apply call.
	BeforeApply func()
}

var (
	_ contracts.CartRepository         = (*Store)(nil)
	_ contracts.Committer              = (*Store)(nil)
	_ contracts.ReadModel              = (*Store)(nil)
	_ contracts.OutboxRepository       = (*Outbox)(nil)
	_ contracts.PriceHistoryRepository = (*PriceHistory)(nil)
)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		carts:  make(map[string]cartRow),
		staged: make(map[*spanner.Mutation]func()),
	}
}

// Outbox returns the store's OutboxRepository.
func (s *Store) Outbox() *Outbox { return &Outbox{store: s} }

// PriceHistory returns the store's PriceHistoryRepository.
func (s *Store) PriceHistory() *PriceHistory { return &PriceHistory{store: s} }

func (s *Store) stage(table string, apply func()) *spanner.Mutation {
	s.mu.Lock()
	defer s.mu.Unlock()
	mut := spanner.Delete(table, spanner.Key{uuid.New().String()})
	s.staged[mut] = apply
	return mut
}

func snapshot(cart *domain.Cart, version int64) cartRow {
	row := cartRow{
		id:         cart.ID(),
		customerID: cart.CustomerID(),
		status:     cart.Status(),
		total:      cart.TotalPrice(),
		version:    version,
		createdAt:  cart.CreatedAt(),
		updatedAt:  cart.UpdatedAt(),
	}
	if at := cart.CheckoutAt(); at != nil {
		t := *at
		row.checkoutAt = &t
	}
	for _, item := range cart.Items() {
		row.items = append(row.items, itemRow{
			id:        item.ID(),
			productID: item.ProductID(),
			quantity:  item.Quantity(),
			price:     item.CalculatedPrice(),
		})
	}
	return row
}

func (r cartRow) toDomain() *domain.Cart {
	items := make([]*domain.CartItem, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, domain.ReconstructCartItem(item.id, item.productID, item.quantity, item.price.Copy()))
	}
	return domain.ReconstructCart(r.id, r.customerID, r.status, items, r.total.Copy(), r.checkoutAt, r.version, r.createdAt, r.updatedAt)
}

// InsertMuts stages the cart as a new row.
func (s *Store) InsertMuts(cart *domain.Cart) []*spanner.Mutation {
	row := snapshot(cart, cart.Version())
	return []*spanner.Mutation{s.stage("carts", func() { s.carts[row.id] = row })}
}

// UpdateMuts stages the cart's current state at the next version.
func (s *Store) UpdateMuts(cart *domain.Cart) []*spanner.Mutation {
	if !cart.Changes().HasChanges() {
		return nil
	}
	row := snapshot(cart, cart.Version()+1)
	return []*spanner.Mutation{s.stage("carts", func() { s.carts[row.id] = row })}
}

// VersionGuard guards on the loaded version.
func (s *Store) VersionGuard(cart *domain.Cart) committer.VersionGuard {
	return committer.VersionGuard{
		Table:           "carts",
		Key:             spanner.Key{cart.ID()},
		VersionColumn:   "version",
		ExpectedVersion: cart.Version(),
	}
}

// GetByID returns a fresh copy of the committed cart.
func (s *Store) GetByID(_ context.Context, cartID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.carts[cartID]
	if !ok {
		return nil, domain.ErrCartNotFound
	}
	return row.toDomain(), nil
}

// Apply runs the staged writes of every mutation in the plan.
func (s *Store) Apply(_ context.Context, plan *committer.CommitPlan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}
	if s.BeforeApply != nil {
		s.BeforeApply()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApplyErr != nil {
		return s.ApplyErr
	}
	s.applyLocked(plan)
	return nil
}

// ApplyWithVersionCheck applies the plan only if the guarded cart is still
// at the expected version.
func (s *Store) ApplyWithVersionCheck(_ context.Context, guard committer.VersionGuard, plan *committer.CommitPlan) error {
	if plan == nil || plan.IsEmpty() {
		return nil
	}
	if s.BeforeApply != nil {
		s.BeforeApply()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ApplyErr != nil {
		return s.ApplyErr
	}

	cartID, _ := guard.Key[0].(string)
	row, ok := s.carts[cartID]
	if !ok {
		return fmt.Errorf("failed to read %s version: %w", guard.Table, domain.ErrCartNotFound)
	}
	if row.version != guard.ExpectedVersion {
		return fmt.Errorf("%w: expected version %d, got %d", committer.ErrOptimisticLockConflict, guard.ExpectedVersion, row.version)
	}

	s.applyLocked(plan)
	return nil
}

func (s *Store) applyLocked(plan *committer.CommitPlan) {
	for _, mut := range plan.Mutations() {
		if apply, ok := s.staged[mut]; ok {
			apply()
			delete(s.staged, mut)
		}
	}
	s.plans++
}

// Put stores cart as committed at its current version.
func (s *Store) Put(cart *domain.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[cart.ID()] = snapshot(cart, cart.Version())
}

// BumpVersion simulates a concurrent writer.
func (s *Store) BumpVersion(cartID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.carts[cartID]
	row.version++
	s.carts[cartID] = row
}

// AppliedPlans returns the number of plans applied so far.
func (s *Store) AppliedPlans() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plans
}

// Events returns the committed outbox events in insertion order.
func (s *Store) Events() []*contracts.OutboxEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*contracts.OutboxEvent(nil), s.events...)
}

// EventTypes returns the committed event types in insertion order.
func (s *Store) EventTypes() []string {
	events := s.Events()
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.EventType)
	}
	return types
}

// ListCarts lists committed carts, newest first.
func (s *Store) ListCarts(_ context.Context, filter *contracts.CartFilter) (*contracts.CartListResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]cartRow, 0)
	for _, row := range s.carts {
		if row.customerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && string(row.status) != filter.Status {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].createdAt.Equal(rows[j].createdAt) {
			return rows[i].createdAt.After(rows[j].createdAt)
		}
		return rows[i].id < rows[j].id
	})

	total := int64(len(rows))
	if filter.Offset < len(rows) {
		rows = rows[filter.Offset:]
	} else {
		rows = nil
	}
	if filter.PageSize > 0 && filter.PageSize < len(rows) {
		rows = rows[:filter.PageSize]
	}

	carts := make([]*contracts.CartSummaryDTO, 0, len(rows))
	for _, row := range rows {
		carts = append(carts, &contracts.CartSummaryDTO{
			CartID:     row.id,
			CustomerID: row.customerID,
			Status:     string(row.status),
			TotalPrice: row.total.Copy(),
			ItemCount:  int64(len(row.items)),
			CheckoutAt: row.checkoutAt,
			CreatedAt:  row.createdAt,
			UpdatedAt:  row.updatedAt,
		})
	}
	return &contracts.CartListResult{Carts: carts, TotalCount: total}, nil
}

// Outbox is the store's OutboxRepository.
type Outbox struct {
	store *Store
}

// InsertMut stages the event.
func (o *Outbox) InsertMut(event *contracts.OutboxEvent) *spanner.Mutation {
	return o.store.stage("outbox_events", func() { o.store.events = append(o.store.events, event) })
}

// EnrichEvent wraps the event as pending.
func (o *Outbox) EnrichEvent(event domain.DomainEvent, payload string) *contracts.OutboxEvent {
	return &contracts.OutboxEvent{
		EventID:     uuid.New().String(),
		EventType:   event.EventType(),
		AggregateID: event.AggregateID(),
		Payload:     payload,
		Status:      "pending",
	}
}

// PayloadOf decodes the payload of the first committed event of eventType into v.
func (s *Store) PayloadOf(eventType string, v interface{}) error {
	for _, e := range s.Events() {
		if e.EventType == eventType {
			return json.Unmarshal([]byte(e.Payload), v)
		}
	}
	return fmt.Errorf("no %s event", eventType)
}

// PriceHistory is the store's PriceHistoryRepository.
type PriceHistory struct {
	store *Store
}

// InsertMut stages the record.
func (p *PriceHistory) InsertMut(record *contracts.PriceHistoryRecord) (*spanner.Mutation, error) {
	rec := *record
	return p.store.stage("item_price_history", func() { p.store.history = append(p.store.history, rec) }), nil
}

// GetByCartID returns the committed records of a cart.
func (p *PriceHistory) GetByCartID(_ context.Context, cartID string) ([]contracts.PriceHistoryRecord, error) {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()
	var out []contracts.PriceHistoryRecord
	for _, rec := range p.store.history {
		if rec.CartID == cartID {
			out = append(out, rec)
		}
	}
	return out, nil
}
