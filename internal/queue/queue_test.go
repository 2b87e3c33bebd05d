package queue_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/queue"
)

func TestEnqueueDequeue(t *testing.T) {
	q := queue.New()

	ev := domain.Event{Kind: domain.KindTodoCreated, ListID: "list-1", ItemID: "todo-1"}
	if err := q.Enqueue(ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, ok := q.Dequeue(context.Background())
	if !ok {
		t.Fatal("expected an event")
	}
	if got.ItemID != "todo-1" {
		t.Fatalf("expected todo-1, got %q", got.ItemID)
	}
}

// Chat messages ride the high tier and must come out before anything queued
// in normal or low, regardless of arrival order.
func TestDequeue_HighBeforeNormal(t *testing.T) {
	q := queue.New()

	if err := q.Enqueue(domain.Event{Kind: domain.KindTodoCreated, ItemID: "normal-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(domain.Event{Kind: domain.KindTodoDeleted, ItemID: "low-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := q.Enqueue(domain.Event{Kind: domain.KindChatMessage, MessageID: "chat-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, ok := q.Dequeue(context.Background())
	if !ok {
		t.Fatal("expected an event")
	}
	if first.Kind != domain.KindChatMessage {
		t.Fatalf("expected the chat message first, got %s", first.Kind)
	}
}

func TestEnqueue_FullTierRejects(t *testing.T) {
	q := queue.New()

	// Low tier holds 2000; the 2001st must be rejected, not block.
	ev := domain.Event{Kind: domain.KindMemberRemoved}
	for i := 0; i < 2000; i++ {
		if err := q.Enqueue(ev); err != nil {
			t.Fatalf("enqueue %d: unexpected error: %v", i, err)
		}
	}
	if err := q.Enqueue(ev); err != domain.ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	// Other tiers are unaffected.
	if err := q.Enqueue(domain.Event{Kind: domain.KindChatMessage}); err != nil {
		t.Fatalf("expected high tier to still accept, got %v", err)
	}
}

func TestDequeue_ContextCancellation(t *testing.T) {
	q := queue.New()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := q.Dequeue(ctx)
		done <- ok
	}()

	cancel()
	select {
	case ok := <-done:
		if ok {
			t.Fatal("expected ok=false after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not return after cancellation")
	}
}

func TestDepths(t *testing.T) {
	q := queue.New()

	q.Enqueue(domain.Event{Kind: domain.KindChatMessage})
	q.Enqueue(domain.Event{Kind: domain.KindTodoCreated})
	q.Enqueue(domain.Event{Kind: domain.KindTodoCreated})
	q.Enqueue(domain.Event{Kind: domain.KindMemberAdded})

	high, normal, low := q.Depths()
	if high != 1 || normal != 2 || low != 1 {
		t.Fatalf("expected depths 1/2/1, got %d/%d/%d", high, normal, low)
	}
}

func TestQueue_ConcurrentProducersConsumers(t *testing.T) {
	q := queue.New()
	const producers, perProducer = 8, 100

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				if err := q.Enqueue(domain.Event{Kind: domain.KindTodoCreated}); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	for i := 0; i < producers*perProducer; i++ {
		if _, ok := q.Dequeue(ctx); !ok {
			t.Fatalf("dequeue %d: queue drained early", i)
		}
	}

	high, normal, low := q.Depths()
	if high+normal+low != 0 {
		t.Fatalf("expected empty queue, got depths %d/%d/%d", high, normal, low)
	}
}
