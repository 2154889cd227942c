package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_cart"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_cart_item"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/committer"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

// CartRepo implements CartRepository for Spanner.
type CartRepo struct {
	client    *spanner.Client
	carts     *m_cart.Model
	cartItems *m_cart_item.Model
}

// NewCartRepo creates a new CartRepo.
func NewCartRepo(client *spanner.Client) contracts.CartRepository {
	return &CartRepo{
		client:    client,
		carts:     m_cart.NewModel(),
		cartItems: m_cart_item.NewModel(),
	}
}

// InsertMuts creates the mutations for a new cart and its items.
func (r *CartRepo) InsertMuts(cart *domain.Cart) []*spanner.Mutation {
	muts := []*spanner.Mutation{r.carts.InsertMut(cartToData(cart))}
	for _, item := range cart.Items() {
		muts = append(muts, r.cartItems.InsertMut(itemToData(cart.ID(), item)))
	}
	return muts
}

// UpdateMuts creates the mutations for a loaded cart's tracked changes.
// Parent row first so the interleaved item writes always have a parent.
func (r *CartRepo) UpdateMuts(cart *domain.Cart) []*spanner.Mutation {
	changes := cart.Changes()
	if !changes.HasChanges() {
		return nil
	}

	muts := []*spanner.Mutation{r.carts.UpdateMut(cart.ID(), r.updateValues(cart))}

	for _, itemID := range changes.AddedItems() {
		if item, ok := cart.Item(itemID); ok {
			muts = append(muts, r.cartItems.InsertMut(itemToData(cart.ID(), item)))
		}
	}

	for _, itemID := range changes.UpdatedItems() {
		if item, ok := cart.Item(itemID); ok {
			muts = append(muts, r.cartItems.UpdateMut(cart.ID(), item.ID(), item.Quantity(), *item.CalculatedPrice().Rat()))
		}
	}

	for _, itemID := range changes.RemovedItems() {
		muts = append(muts, r.cartItems.DeleteMut(cart.ID(), itemID))
	}

	return muts
}

// updateValues returns the dirty cart columns plus the next version.
// Item-only changes still bump the version so concurrent writers conflict.
func (r *CartRepo) updateValues(cart *domain.Cart) map[string]interface{} {
	changes := cart.Changes()
	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldStatus) {
		updates[m_cart.Status] = string(cart.Status())
	}

	if changes.Dirty(domain.FieldTotalPrice) {
		updates[m_cart.TotalPrice] = cart.TotalPrice().Rat()
	}

	if changes.Dirty(domain.FieldCheckoutAt) {
		if at := cart.CheckoutAt(); at != nil {
			updates[m_cart.CheckoutAt] = *at
		} else {
			updates[m_cart.CheckoutAt] = spanner.NullTime{}
		}
	}

	updates[m_cart.Version] = cart.Version() + 1

	return updates
}

// VersionGuard guards an update on the loaded cart version.
func (r *CartRepo) VersionGuard(cart *domain.Cart) committer.VersionGuard {
	return committer.VersionGuard{
		Table:           m_cart.TableName,
		Key:             spanner.Key{cart.ID()},
		VersionColumn:   m_cart.Version,
		ExpectedVersion: cart.Version(),
	}
}

// GetByID reads the cart row and its items from one snapshot.
func (r *CartRepo) GetByID(ctx context.Context, cartID string) (*domain.Cart, error) {
	txn := r.client.ReadOnlyTransaction()
	defer txn.Close()

	row, err := txn.ReadRow(ctx, m_cart.TableName, spanner.Key{cartID}, m_cart.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var data m_cart.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse cart: %w", err)
	}

	stmt := query.From(m_cart_item.TableName).
		Select(m_cart_item.Columns...).
		Where(query.Eq(m_cart_item.CartID, cartID)).
		OrderBy(m_cart_item.CreatedAt, query.Asc).
		OrderBy(m_cart_item.ItemID, query.Asc).
		Build()

	iter := txn.Query(ctx, stmt)
	defer iter.Stop()

	items := make([]*m_cart_item.Data, 0)
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate cart items: %w", err)
		}

		var item m_cart_item.Data
		if err := row.ToStruct(&item); err != nil {
			return nil, fmt.Errorf("failed to parse cart item: %w", err)
		}
		items = append(items, &item)
	}

	return dataToDomain(&data, items), nil
}

func cartToData(cart *domain.Cart) *m_cart.Data {
	data := &m_cart.Data{
		CartID:     cart.ID(),
		CustomerID: cart.CustomerID(),
		Status:     string(cart.Status()),
		Version:    cart.Version(),
		CreatedAt:  cart.CreatedAt(),
		UpdatedAt:  cart.UpdatedAt(),
	}
	data.TotalPrice.Set(cart.TotalPrice().Rat())
	if at := cart.CheckoutAt(); at != nil {
		data.CheckoutAt = spanner.NullTime{Time: *at, Valid: true}
	}
	return data
}

func itemToData(cartID string, item *domain.CartItem) *m_cart_item.Data {
	data := &m_cart_item.Data{
		CartID:    cartID,
		ItemID:    item.ID(),
		ProductID: item.ProductID(),
		Quantity:  item.Quantity(),
	}
	data.CalculatedPrice.Set(item.CalculatedPrice().Rat())
	return data
}

func dataToDomain(data *m_cart.Data, items []*m_cart_item.Data) *domain.Cart {
	cartItems := make([]*domain.CartItem, 0, len(items))
	for _, item := range items {
		cartItems = append(cartItems, domain.ReconstructCartItem(
			item.ItemID,
			item.ProductID,
			item.Quantity,
			pricing.NewMoneyFromRat(&item.CalculatedPrice),
		))
	}

	var checkoutAt *time.Time
	if data.CheckoutAt.Valid {
		at := data.CheckoutAt.Time
		checkoutAt = &at
	}

	return domain.ReconstructCart(
		data.CartID,
		data.CustomerID,
		domain.CartStatus(data.Status),
		cartItems,
		pricing.NewMoneyFromRat(&data.TotalPrice),
		checkoutAt,
		data.Version,
		data.CreatedAt,
		data.UpdatedAt,
	)
}
