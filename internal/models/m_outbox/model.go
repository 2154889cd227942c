package m_outbox

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the outbox_events table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertValues returns the column/value map written for a new event.
func (m *Model) InsertValues(data *Data) map[string]interface{} {
	return map[string]interface{}{
		EventID:      data.EventID,
		EventType:    data.EventType,
		AggregateID:  data.AggregateID,
		Payload:      data.Payload,
		Status:       data.Status,
		CreatedAt:    spanner.CommitTimestamp,
		ProcessedAt:  data.ProcessedAt,
		RetryCount:   data.RetryCount,
		ErrorMessage: data.ErrorMessage,
	}
}

// InsertMut creates a Spanner mutation for inserting an outbox event.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.InsertMap(TableName, m.InsertValues(data))
}

// DeleteMut creates a Spanner mutation for deleting an outbox event.
func (m *Model) DeleteMut(eventID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{eventID})
}
