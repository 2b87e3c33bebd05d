// Package api wires the HTTP surface of the fan-out service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/api/handler"
	apimw "github.com/pocketlist/push-fanout/internal/api/middleware"
	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/push"
	"github.com/pocketlist/push-fanout/internal/queue"
)

// NewRouter wires the chi router, attaches all middleware, and registers
// every route. It is the single source of truth for the HTTP surface area.
func NewRouter(
	q *queue.PriorityQueue,
	dispatcher *push.Dispatcher,
	reg prometheus.Gatherer,
	logger *zap.Logger,
	onAccept func(domain.Kind),
) http.Handler {
	r := chi.NewRouter()

	// --- global middleware (applied to every route) ---
	r.Use(chimw.Recoverer)          // recover panics, return 500
	r.Use(chimw.RealIP)             // trust X-Forwarded-For / X-Real-IP
	r.Use(chimw.RequestSize(1<<20)) // 1 MB max request body
	r.Use(apimw.CorrelationID)      // X-Correlation-ID inject / echo
	r.Use(apimw.RequestLogger(logger))

	// --- handler instances ---
	eh := handler.NewEventHandler(q, logger, onAccept)
	th := handler.NewTestSendHandler(dispatcher, logger)
	qh := handler.NewQueueHandler(q)
	hh := handler.NewHealthHandler()

	// --- routes ---
	r.Get("/health", hh.Health)

	// Raw Prometheus scrape endpoint (for Prometheus server / Grafana)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/events", eh.Ingest)
		r.Post("/notifications/test", th.Send)
		r.Get("/queue", qh.Depths)
	})

	return r
}
