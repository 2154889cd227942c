package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	pricing "github.com/light-bringer/cart-pricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_price_history"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

// PriceHistoryRepo implements PriceHistoryRepository for Spanner.
type PriceHistoryRepo struct {
	client *spanner.Client
	model  *m_price_history.Model
}

// NewPriceHistoryRepo creates a new PriceHistoryRepo.
func NewPriceHistoryRepo(client *spanner.Client) contracts.PriceHistoryRepository {
	return &PriceHistoryRepo{
		client: client,
		model:  m_price_history.NewModel(),
	}
}

// InsertMut creates a mutation for inserting a price change record.
func (r *PriceHistoryRepo) InsertMut(record *contracts.PriceHistoryRecord) (*spanner.Mutation, error) {
	if record.NewPrice == nil {
		return nil, fmt.Errorf("price history for item %s has no new price", record.ItemID)
	}

	data := &m_price_history.Data{
		HistoryID: record.HistoryID,
		CartID:    record.CartID,
		ItemID:    record.ItemID,
		ProductID: record.ProductID,
		Quantity:  record.Quantity,
		Reason:    record.Reason,
		ChangedAt: record.ChangedAt,
	}
	data.NewPrice.Set(record.NewPrice.Rat())

	// oldPrice is nil when the item was never priced
	if record.OldPrice != nil {
		data.OldPrice = spanner.NullNumeric{Numeric: *record.OldPrice.Rat(), Valid: true}
	}

	mut, err := r.model.InsertMut(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build price history mutation: %w", err)
	}
	return mut, nil
}

// GetByCartID retrieves a cart's price history in item order.
func (r *PriceHistoryRepo) GetByCartID(ctx context.Context, cartID string) ([]contracts.PriceHistoryRecord, error) {
	stmt := query.From(m_price_history.TableName).
		Select(r.model.ReadColumns()...).
		Where(query.Eq(m_price_history.CartID, cartID)).
		OrderBy(m_price_history.ChangedAt, query.Asc).
		OrderBy(m_price_history.ItemID, query.Asc).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var records []contracts.PriceHistoryRecord
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate price history: %w", err)
		}

		var data m_price_history.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse price history: %w", err)
		}

		records = append(records, dataToRecord(&data))
	}

	return records, nil
}

func dataToRecord(data *m_price_history.Data) contracts.PriceHistoryRecord {
	record := contracts.PriceHistoryRecord{
		HistoryID: data.HistoryID,
		CartID:    data.CartID,
		ItemID:    data.ItemID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		NewPrice:  pricing.NewMoneyFromRat(&data.NewPrice),
		Reason:    data.Reason,
		ChangedAt: data.ChangedAt,
	}

	if data.OldPrice.Valid {
		record.OldPrice = pricing.NewMoneyFromRat(&data.OldPrice.Numeric)
	}

	return record
}
