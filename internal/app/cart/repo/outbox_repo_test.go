package repo

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/contracts"
	"github.com/light-bringer/cart-pricing-service/internal/app/cart/domain"
	"github.com/light-bringer/cart-pricing-service/internal/models/m_outbox"
)

func TestOutboxRepo_EnrichEvent(t *testing.T) {
	repository := NewOutboxRepo()
	event := &domain.CartCreatedEvent{CartID: "cart-1", CustomerID: "c-1", CreatedAt: time.Now()}

	first := repository.EnrichEvent(event, `{"cart_id":"cart-1"}`)
	second := repository.EnrichEvent(event, `{"cart_id":"cart-1"}`)

	assert.Equal(t, "cart.created", first.EventType)
	assert.Equal(t, "cart-1", first.AggregateID)
	assert.Equal(t, m_outbox.StatusPending, first.Status)
	assert.NotEqual(t, first.EventID, second.EventID)
	assert.NotNil(t, repository.InsertMut(first))
}

func TestOutboxToData_KeepsPayloadAsRawJSON(t *testing.T) {
	repository := &OutboxRepo{model: m_outbox.NewModel()}
	event := repository.EnrichEvent(&domain.CartClearedEvent{CartID: "cart-1"}, `{"cart_id":"cart-1"}`)

	data := outboxToData(event)
	require.True(t, data.Payload.Valid)

	encoded, err := json.Marshal(data.Payload.Value)
	require.NoError(t, err)
	assert.JSONEq(t, `{"cart_id":"cart-1"}`, string(encoded))

	empty := outboxToData(&contracts.OutboxEvent{EventID: "e-1"})
	assert.False(t, empty.Payload.Valid)
}
