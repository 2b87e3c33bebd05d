// Package pipeline orchestrates one event's journey from validated mutation
// to dispatched notification batches.
package pipeline

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/push"
	"github.com/pocketlist/push-fanout/internal/recipient"
	"github.com/pocketlist/push-fanout/internal/store"
	"github.com/pocketlist/push-fanout/internal/token"
)

// Hooks carries the metric callback functions injected by main.
// Using a struct keeps the router constructor signature clean, and the
// router itself stays metrics-agnostic.
type Hooks struct {
	OnDelivered func(kind domain.Kind, sent, failed int, latency time.Duration)
	OnDropped   func(kind domain.Kind, reason string)
}

// Router runs the fan-out pipeline for each event: load context, build the
// recipient set, resolve tokens, batch, dispatch. Every invocation is
// stateless; re-running the same event produces the same recipient set and
// the same batches.
type Router struct {
	store      store.Store
	tokens     *token.Resolver
	batcher    push.Batcher
	dispatcher *push.Dispatcher
	logger     *zap.Logger
	hooks      Hooks
}

func NewRouter(
	st store.Store,
	tokens *token.Resolver,
	batcher push.Batcher,
	dispatcher *push.Dispatcher,
	logger *zap.Logger,
	hooks Hooks,
) *Router {
	if hooks.OnDelivered == nil {
		hooks.OnDelivered = func(domain.Kind, int, int, time.Duration) {}
	}
	if hooks.OnDropped == nil {
		hooks.OnDropped = func(domain.Kind, string) {}
	}
	return &Router{
		store: st, tokens: tokens, batcher: batcher,
		dispatcher: dispatcher, logger: logger, hooks: hooks,
	}
}

// Handle processes one event end to end. It never returns an error: a
// notification is a downstream side effect, and nothing that goes wrong
// here may fail the mutation that triggered it. Problems are logged and
// counted, then forgotten.
func (r *Router) Handle(ctx context.Context, ev domain.Event) {
	start := time.Now()
	log := r.logger.With(
		zap.String("kind", string(ev.Kind)),
		zap.String("list_id", ev.ListID),
		zap.String("item_id", ev.ItemID),
	)

	members, ok := r.loadContext(ctx, &ev, log)
	if !ok {
		r.hooks.OnDropped(ev.Kind, "missing_context")
		return
	}

	set := recipient.Build(ev, members)
	userIDs := set.UserIDs()
	if len(userIDs) == 0 {
		log.Debug("no recipients after exclusions")
		r.hooks.OnDropped(ev.Kind, "no_recipients")
		return
	}

	tokens := r.tokens.Resolve(ctx, userIDs, ev.Kind)
	if len(tokens) == 0 {
		log.Info("no deliverable tokens", zap.Int("candidates", len(userIDs)))
		r.hooks.OnDropped(ev.Kind, "no_tokens")
		return
	}

	batches := r.batcher.Batch(tokens, contentFor(ev))
	report := r.dispatcher.DispatchAll(ctx, batches)

	log.Info("notifications dispatched",
		zap.Int("tokens", len(tokens)),
		zap.Int("batches", len(batches)),
		zap.Int("success", report.SuccessCount()),
		zap.Int("failed", report.FailureCount()),
		zap.Duration("latency", time.Since(start)),
	)
	r.hooks.OnDelivered(ev.Kind, report.SuccessCount(), report.FailureCount(), time.Since(start))
}

// loadContext fetches whatever the event kind needs beyond the event itself
// and enriches the event in place. Returns the current list membership (nil
// for membership events, which carry their own snapshots) and whether the
// pipeline should continue.
//
// A missing list or parent to-do is a benign race with deletion: the
// pipeline stops quietly instead of erroring.
func (r *Router) loadContext(ctx context.Context, ev *domain.Event, log *zap.Logger) ([]string, bool) {
	switch ev.Kind {
	case domain.KindMemberAdded, domain.KindMemberRemoved:
		return nil, true

	case domain.KindChatMessage:
		item, err := r.store.GetTodo(ctx, ev.ItemID)
		if errors.Is(err, domain.ErrNotFound) {
			log.Info("parent to-do no longer exists")
			return nil, false
		}
		if err != nil {
			log.Warn("parent to-do lookup failed", zap.Error(err))
			return nil, false
		}
		if item.ListID == "" || item.Title == "" {
			log.Warn("parent to-do is missing listId or title")
			return nil, false
		}
		ev.ListID = item.ListID
		ev.Title = item.Title
	}

	// Creation with an explicit assignee targets exactly that user; the
	// membership read would go unused.
	if ev.Assignee != "" &&
		(ev.Kind == domain.KindTodoCreated || ev.Kind == domain.KindShoppingItemCreated) {
		return nil, true
	}

	list, err := r.store.GetList(ctx, ev.ListID)
	if errors.Is(err, domain.ErrNotFound) {
		log.Info("list no longer exists")
		return nil, false
	}
	if err != nil {
		log.Warn("list lookup failed", zap.Error(err))
		return nil, false
	}
	return list.Members, true
}
