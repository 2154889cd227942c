package repo

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_events"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/cart-pricing-service/internal/pkg/query"
)

// EventsReadModel reads the outbox_events table.
type EventsReadModel struct {
	client *spanner.Client
}

// NewEventsReadModel creates a new EventsReadModel.
func NewEventsReadModel(client *spanner.Client) *EventsReadModel {
	return &EventsReadModel{client: client}
}

// ListEvents retrieves events with optional filters, newest first, and the
// number of events matching the filters.
func (r *EventsReadModel) ListEvents(ctx context.Context, req *list_events.Request) ([]*m_outbox.Data, int64, error) {
	base := eventsQuery(req)

	total, err := query.ScalarInt64(ctx, r.client.Single(), base.Count().Build())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	stmt := base.
		Select(m_outbox.Columns...).
		OrderBy(m_outbox.CreatedAt, query.Desc).
		Limit(int64(req.Limit)).
		Build()

	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var events []*m_outbox.Data
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to iterate events: %w", err)
		}

		var event m_outbox.Data
		if err := row.ToStruct(&event); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}

		events = append(events, &event)
	}

	return events, total, nil
}

func eventsQuery(req *list_events.Request) *query.Builder {
	q := query.From(m_outbox.TableName)
	if req.EventType != nil {
		q = q.Where(query.Eq(m_outbox.EventType, *req.EventType))
	}
	if req.AggregateID != nil {
		q = q.Where(query.Eq(m_outbox.AggregateID, *req.AggregateID))
	}
	if req.Status != nil {
		q = q.Where(query.Eq(m_outbox.Status, *req.Status))
	}
	return q
}
