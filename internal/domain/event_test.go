package domain_test

import (
	"testing"

	"github.com/pocketlist/push-fanout/internal/domain"
)

func TestKind_IsValid(t *testing.T) {
	for _, k := range domain.Kinds {
		if !k.IsValid() {
			t.Fatalf("kind %q: expected valid", k)
		}
	}
	if domain.Kind("list_renamed").IsValid() {
		t.Fatal("expected unknown kind to be invalid")
	}
}

func TestKind_Priority(t *testing.T) {
	tests := []struct {
		kind domain.Kind
		want domain.Priority
	}{
		{domain.KindChatMessage, domain.PriorityHigh},
		{domain.KindTodoCreated, domain.PriorityNormal},
		{domain.KindTodoCompleted, domain.PriorityNormal},
		{domain.KindShoppingItemCreated, domain.PriorityNormal},
		{domain.KindShoppingItemPurchased, domain.PriorityNormal},
		{domain.KindTodoDeleted, domain.PriorityLow},
		{domain.KindShoppingItemDeleted, domain.PriorityLow},
		{domain.KindMemberAdded, domain.PriorityLow},
		{domain.KindMemberRemoved, domain.PriorityLow},
	}
	for _, tc := range tests {
		if got := tc.kind.Priority(); got != tc.want {
			t.Fatalf("kind %q: expected priority %q, got %q", tc.kind, tc.want, got)
		}
	}
}

func TestChange_Validate(t *testing.T) {
	valid := domain.Change{
		Collection: "todos",
		Operation:  domain.OpCreated,
		DocumentID: "todo-1",
	}

	t.Run("valid change passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty collection", func(t *testing.T) {
		c := valid
		c.Collection = ""
		if err := c.Validate(); err != domain.ErrInvalidCollection {
			t.Fatalf("expected ErrInvalidCollection, got %v", err)
		}
	})

	t.Run("unknown operation", func(t *testing.T) {
		c := valid
		c.Operation = "upserted"
		if err := c.Validate(); err != domain.ErrInvalidOperation {
			t.Fatalf("expected ErrInvalidOperation, got %v", err)
		}
	})

	t.Run("empty document id", func(t *testing.T) {
		c := valid
		c.DocumentID = ""
		if err := c.Validate(); err != domain.ErrInvalidDocumentID {
			t.Fatalf("expected ErrInvalidDocumentID, got %v", err)
		}
	})
}
