package testutil

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_product"
)

// CreateTestProduct inserts a catalogue product priced at price (a decimal
// string such as "19.99") and returns its ID.
func CreateTestProduct(t *testing.T, client *spanner.Client, name string, categoryID int64, price string) string {
	t.Helper()

	data := &m_product.Data{
		ProductID:  uuid.New().String(),
		Name:       name,
		CategoryID: categoryID,
	}
	_, ok := data.BasePrice.SetString(price)
	require.True(t, ok, "invalid price %q", price)

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_product.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test product")

	return data.ProductID
}

// AssertOutboxEvent verifies at least one outbox event of eventType exists for aggregateID.
func AssertOutboxEvent(t *testing.T, client *spanner.Client, eventType, aggregateID string) {
	t.Helper()

	stmt := spanner.Statement{
		SQL: "SELECT event_id FROM outbox_events WHERE event_type = @eventType AND aggregate_id = @aggregateID",
		Params: map[string]interface{}{
			"eventType":   eventType,
			"aggregateID": aggregateID,
		},
	}

	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	_, err := iter.Next()
	require.NoError(t, err, "outbox event %s not found for %s", eventType, aggregateID)
}

// CreateTestOutboxEvent inserts an outbox event with the given status.
func CreateTestOutboxEvent(t *testing.T, client *spanner.Client, eventType, aggregateID, status string) string {
	t.Helper()

	data := &m_outbox.Data{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     spanner.NullJSON{Value: map[string]string{"cart_id": aggregateID}, Valid: true},
		Status:      status,
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_outbox.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test outbox event")

	return data.EventID
}
