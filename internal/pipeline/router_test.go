package pipeline_test

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/pipeline"
	"github.com/pocketlist/push-fanout/internal/preference"
	"github.com/pocketlist/push-fanout/internal/push"
	"github.com/pocketlist/push-fanout/internal/store"
	"github.com/pocketlist/push-fanout/internal/token"
)

type fixture struct {
	store  *store.MockStore
	client *push.MockMessenger
	router *pipeline.Router

	delivered []deliveredCall
	dropped   []droppedCall
}

type deliveredCall struct {
	kind         domain.Kind
	sent, failed int
}

type droppedCall struct {
	kind   domain.Kind
	reason string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	f := &fixture{
		store:  store.NewMockStore(),
		client: push.NewMockMessenger(),
	}
	tokens := token.NewResolver(f.store, preference.NewResolver(logger), 10, logger)
	dispatcher := push.NewDispatcher(f.client, 1000, logger)
	f.router = pipeline.NewRouter(f.store, tokens, push.NewBatcher(500), dispatcher, logger, pipeline.Hooks{
		OnDelivered: func(kind domain.Kind, sent, failed int, _ time.Duration) {
			f.delivered = append(f.delivered, deliveredCall{kind, sent, failed})
		},
		OnDropped: func(kind domain.Kind, reason string) {
			f.dropped = append(f.dropped, droppedCall{kind, reason})
		},
	})
	return f
}

func (f *fixture) seedList(id string, members ...string) {
	f.store.PutList(&domain.List{ID: id, Members: members})
	for _, m := range members {
		f.store.PutUser(&domain.User{ID: m, FCMToken: "tok-" + m})
	}
}

func (f *fixture) sentTokens() []string {
	var out []string
	for _, mc := range f.client.Multicasts {
		out = append(out, mc.Tokens...)
	}
	return out
}

func TestHandle_TodoCreatedNotifiesOthers(t *testing.T) {
	f := newFixture(t)
	f.seedList("list-1", "alice", "bob", "carol")

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindTodoCreated,
		ListID: "list-1",
		ItemID: "todo-1",
		Actor:  "alice",
		Title:  "Buy milk",
	})

	sent := f.sentTokens()
	if len(sent) != 2 {
		t.Fatalf("expected 2 tokens, got %v", sent)
	}
	for _, tok := range sent {
		if tok == "tok-alice" {
			t.Fatal("actor must not receive their own notification")
		}
	}
	if len(f.delivered) != 1 || f.delivered[0].sent != 2 || f.delivered[0].failed != 0 {
		t.Fatalf("unexpected delivered hook calls: %+v", f.delivered)
	}

	mc := f.client.Multicasts[0]
	if mc.Notification.Title != "New to-do" {
		t.Fatalf("unexpected title %q", mc.Notification.Title)
	}
	if mc.Data["type"] != string(domain.KindTodoCreated) || mc.Data["listId"] != "list-1" || mc.Data["createdBy"] != "alice" {
		t.Fatalf("unexpected data payload: %v", mc.Data)
	}
}

// An assigned creation goes to the assignee only, and never hits the list
// document at all.
func TestHandle_AssignedCreationTargetsAssignee(t *testing.T) {
	f := newFixture(t)
	f.store.PutUser(&domain.User{ID: "bob", FCMToken: "tok-bob"})

	f.router.Handle(context.Background(), domain.Event{
		Kind:     domain.KindTodoCreated,
		ListID:   "list-missing",
		ItemID:   "todo-1",
		Actor:    "alice",
		Assignee: "bob",
		Title:    "Take out trash",
	})

	sent := f.sentTokens()
	if len(sent) != 1 || sent[0] != "tok-bob" {
		t.Fatalf("expected only the assignee's token, got %v", sent)
	}
}

func TestHandle_MissingListDropsQuietly(t *testing.T) {
	f := newFixture(t)

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindTodoCreated,
		ListID: "gone",
		Actor:  "alice",
	})

	if f.client.MulticastCalls() != 0 {
		t.Fatal("expected no provider calls for a deleted list")
	}
	if len(f.dropped) != 1 || f.dropped[0].reason != "missing_context" {
		t.Fatalf("unexpected dropped hook calls: %+v", f.dropped)
	}
}

func TestHandle_SoleMemberNoRecipients(t *testing.T) {
	f := newFixture(t)
	f.seedList("list-1", "alice")

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindTodoCompleted,
		ListID: "list-1",
		Actor:  "alice",
		Title:  "Buy milk",
	})

	if f.client.MulticastCalls() != 0 {
		t.Fatal("expected no provider calls when the actor is the only member")
	}
	if len(f.dropped) != 1 || f.dropped[0].reason != "no_recipients" {
		t.Fatalf("unexpected dropped hook calls: %+v", f.dropped)
	}
}

func TestHandle_NoDeliverableTokens(t *testing.T) {
	f := newFixture(t)
	f.store.PutList(&domain.List{ID: "list-1", Members: []string{"alice", "bob"}})
	f.store.PutUser(&domain.User{ID: "bob"}) // no device registered

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindTodoCreated,
		ListID: "list-1",
		Actor:  "alice",
	})

	if f.client.MulticastCalls() != 0 {
		t.Fatal("expected no provider calls without deliverable tokens")
	}
	if len(f.dropped) != 1 || f.dropped[0].reason != "no_tokens" {
		t.Fatalf("unexpected dropped hook calls: %+v", f.dropped)
	}
}

// Chat events carry only the parent to-do id; the pipeline resolves the
// to-do to find the list and enriches the payload with the to-do's title.
func TestHandle_ChatResolvesParentTodo(t *testing.T) {
	f := newFixture(t)
	f.seedList("list-1", "alice", "bob")
	f.store.PutTodo(&domain.Item{ID: "todo-1", ListID: "list-1", Title: "Buy milk"})

	f.router.Handle(context.Background(), domain.Event{
		Kind:      domain.KindChatMessage,
		ItemID:    "todo-1",
		MessageID: "msg-1",
		Actor:     "alice",
		ActorName: "Alice",
		Body:      "Got it already",
	})

	sent := f.sentTokens()
	if len(sent) != 1 || sent[0] != "tok-bob" {
		t.Fatalf("expected only bob's token, got %v", sent)
	}

	mc := f.client.Multicasts[0]
	if mc.Notification.Title != "Alice sent a message" {
		t.Fatalf("unexpected title %q", mc.Notification.Title)
	}
	if mc.Data["listId"] != "list-1" || mc.Data["todoTitle"] != "Buy milk" {
		t.Fatalf("expected payload enriched from parent to-do, got %v", mc.Data)
	}
}

func TestHandle_ChatParentGoneDrops(t *testing.T) {
	f := newFixture(t)
	f.seedList("list-1", "alice", "bob")

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindChatMessage,
		ItemID: "todo-gone",
		Actor:  "alice",
	})

	if f.client.MulticastCalls() != 0 {
		t.Fatal("expected no provider calls when the parent to-do is gone")
	}
	if len(f.dropped) != 1 || f.dropped[0].reason != "missing_context" {
		t.Fatalf("unexpected dropped hook calls: %+v", f.dropped)
	}
}

// Membership events skip the list read and use the event's own snapshots.
func TestHandle_MemberAddedUsesSnapshots(t *testing.T) {
	f := newFixture(t)
	f.store.PutUser(&domain.User{ID: "alice", FCMToken: "tok-alice"})
	f.store.PutUser(&domain.User{ID: "bob", FCMToken: "tok-bob"})
	f.store.PutUser(&domain.User{ID: "carol", FCMToken: "tok-carol"})

	f.router.Handle(context.Background(), domain.Event{
		Kind:          domain.KindMemberAdded,
		ListID:        "list-1",
		BeforeMembers: []string{"alice", "bob"},
		AfterMembers:  []string{"alice", "bob", "carol"},
		Added:         []string{"carol"},
	})

	sent := f.sentTokens()
	if len(sent) != 2 {
		t.Fatalf("expected 2 tokens, got %v", sent)
	}
	for _, tok := range sent {
		if tok == "tok-carol" {
			t.Fatal("joiner must not be notified about their own join")
		}
	}
}

func TestHandle_ReportsPartialFailure(t *testing.T) {
	f := newFixture(t)
	f.seedList("list-1", "alice", "bob", "carol")
	f.client.FailTokens["tok-carol"] = errTokenGone{}

	f.router.Handle(context.Background(), domain.Event{
		Kind:   domain.KindTodoDeleted,
		ListID: "list-1",
		Actor:  "alice",
		Title:  "Buy milk",
	})

	if len(f.delivered) != 1 {
		t.Fatalf("expected one delivered hook call, got %d", len(f.delivered))
	}
	if f.delivered[0].sent != 1 || f.delivered[0].failed != 1 {
		t.Fatalf("expected 1 sent / 1 failed, got %d/%d", f.delivered[0].sent, f.delivered[0].failed)
	}
}

type errTokenGone struct{}

func (errTokenGone) Error() string { return "registration-token-not-registered" }
