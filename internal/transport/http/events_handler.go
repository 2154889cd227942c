package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/light-bringer/cart-pricing-service/internal/app/cart/queries/list_events"
)

// EventsHandler handles HTTP requests for outbox events.
type EventsHandler struct {
	listEvents *list_events.Query
	logger     *zap.Logger
}

// NewEventsHandler creates a new HTTP events handler.
func NewEventsHandler(listEvents *list_events.Query, logger *zap.Logger) *EventsHandler {
	return &EventsHandler{
		listEvents: listEvents,
		logger:     logger,
	}
}

// ServeHTTP handles GET /api/v1/events requests.
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
		return
	}

	// Parse query parameters
	query := r.URL.Query()
	req := &list_events.Request{}

	if eventType := query.Get("event_type"); eventType != "" {
		req.EventType = &eventType
	}
	if aggregateID := query.Get("aggregate_id"); aggregateID != "" {
		req.AggregateID = &aggregateID
	}
	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	limit, err := intParam(r, "limit")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	req.Limit = limit

	rows, total, err := h.listEvents.Execute(r.Context(), req)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, toEvent(row))
	}

	writeJSON(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		TotalCount: total,
	})
}
