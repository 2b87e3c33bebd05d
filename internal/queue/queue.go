package queue

import (
	"context"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// PriorityQueue dispatches pending events to one of three buffered channels
// based on the event kind's priority tier.
//
// Buffer sizes reflect expected traffic ratios:
//
//	High:   1 000  — chat messages; must never accumulate, small buffer
//	               applies back-pressure quickly
//	Normal: 5 000  — item creations and state transitions, bulk of traffic
//	Low:    2 000  — deletions and membership changes, best-effort
//
// Workers dequeue via the double-select pattern, which guarantees that
// high-priority events are always served before normal or low ones, while
// still allowing fair competition between normal and low when high is empty.
type PriorityQueue struct {
	high   chan domain.Event
	normal chan domain.Event
	low    chan domain.Event
}

func New() *PriorityQueue {
	return &PriorityQueue{
		high:   make(chan domain.Event, 1000),
		normal: make(chan domain.Event, 5000),
		low:    make(chan domain.Event, 2000),
	}
}

// Enqueue places an event on the channel for its kind's priority tier.
// It is non-blocking: if the target channel is full, ErrQueueFull is
// returned immediately rather than blocking the caller (the HTTP handler).
func (q *PriorityQueue) Enqueue(ev domain.Event) error {
	switch ev.Kind.Priority() {
	case domain.PriorityHigh:
		select {
		case q.high <- ev:
			return nil
		default:
			return domain.ErrQueueFull
		}
	case domain.PriorityNormal:
		select {
		case q.normal <- ev:
			return nil
		default:
			return domain.ErrQueueFull
		}
	default:
		select {
		case q.low <- ev:
			return nil
		default:
			return domain.ErrQueueFull
		}
	}
}

// Dequeue blocks until an event is available or ctx is cancelled.
//
// Priority guarantee — the double-select pattern:
//  1. A non-blocking select checks the high channel first. If an event is
//     waiting there, it is returned immediately regardless of normal/low.
//  2. Only when high is empty does the goroutine enter a fair blocking
//     select across all three channels plus the done signal. This prevents
//     high-priority starvation while still letting the worker sleep
//     instead of spinning.
//
// Returns (Event{}, false) when ctx is cancelled (graceful shutdown signal).
func (q *PriorityQueue) Dequeue(ctx context.Context) (domain.Event, bool) {
	// Step 1: drain high before entering a fair wait.
	select {
	case ev := <-q.high:
		return ev, true
	default:
	}

	// Step 2: fair competition when high is empty.
	select {
	case ev := <-q.high:
		return ev, true
	case ev := <-q.normal:
		return ev, true
	case ev := <-q.low:
		return ev, true
	case <-ctx.Done():
		return domain.Event{}, false
	}
}

// Depths returns the current number of events waiting in each priority tier.
// Used by the metrics handler for the queue-depth snapshot.
func (q *PriorityQueue) Depths() (high, normal, low int) {
	return len(q.high), len(q.normal), len(q.low)
}
