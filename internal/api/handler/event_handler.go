package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/pocketlist/push-fanout/internal/api/middleware"
	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/event"
	"github.com/pocketlist/push-fanout/internal/queue"
)

// EventHandler accepts document-change payloads from the trigger framework,
// parses them into events, and enqueues them for the worker pool.
type EventHandler struct {
	q        *queue.PriorityQueue
	logger   *zap.Logger
	onAccept func(kind domain.Kind)
}

// NewEventHandler constructs the handler. onAccept is the received-events
// metric hook; nil means no-op.
func NewEventHandler(q *queue.PriorityQueue, logger *zap.Logger, onAccept func(domain.Kind)) *EventHandler {
	if onAccept == nil {
		onAccept = func(domain.Kind) {}
	}
	return &EventHandler{q: q, logger: logger, onAccept: onAccept}
}

// Ingest handles POST /api/v1/events
//
// The body is one raw document change. A change that implies no
// notification (no state edge, empty membership delta, unwatched
// collection) is still accepted — it just enqueues zero events. Malformed
// changes get a 422 and are never retried; a saturated queue gets a 503 so
// the trigger framework backs off.
func (h *EventHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var change domain.Change
	if err := json.NewDecoder(r.Body).Decode(&change); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	events, err := event.Parse(change)
	if err != nil {
		h.logger.Warn("malformed change payload",
			zap.String("collection", change.Collection),
			zap.String("document_id", change.DocumentID),
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	accepted := 0
	for _, ev := range events {
		if err := h.q.Enqueue(ev); err != nil {
			h.logger.Warn("queue full: event dropped",
				zap.String("kind", string(ev.Kind)),
				zap.String("list_id", ev.ListID),
			)
			mapError(w, err)
			return
		}
		h.onAccept(ev.Kind)
		accepted++
	}

	respondJSON(w, http.StatusAccepted, map[string]int{"accepted": accepted})
}
