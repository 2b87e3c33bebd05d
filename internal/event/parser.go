// Package event turns raw document-change payloads into validated domain
// events. It is the only place that touches the store's loosely typed maps;
// everything downstream works with domain.Event values.
package event

import (
	"fmt"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// Collections watched for changes. Changes to any other collection are
// ignored, not rejected: the trigger framework may be configured wider than
// this service cares about.
const (
	CollectionTodos         = "todos"
	CollectionShoppingItems = "shoppingItems"
	CollectionLists         = "lists"
	CollectionChatMessages  = "chatMessages"
)

// Parse maps one change to the events it implies.
//
// A change can legitimately produce zero events (an update with no
// false→true state edge, a membership update with an empty delta, an
// unwatched collection) — that returns an empty slice and a nil error.
// A single lists update may produce two events when members were both added
// and removed in one write.
//
// A non-nil error always wraps domain.ErrMalformedChange and means the
// change is missing data no pipeline stage could recover; callers log it and
// move on, never retry.
func Parse(c domain.Change) ([]domain.Event, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedChange, err)
	}

	switch c.Collection {
	case CollectionTodos:
		return parseItem(c, itemRules{
			title:       "title",
			stateFlag:   "completed",
			stateActor:  "completedBy",
			created:     domain.KindTodoCreated,
			transition:  domain.KindTodoCompleted,
			deleted:     domain.KindTodoDeleted,
		})
	case CollectionShoppingItems:
		return parseItem(c, itemRules{
			title:       "name",
			stateFlag:   "purchased",
			stateActor:  "purchasedBy",
			created:     domain.KindShoppingItemCreated,
			transition:  domain.KindShoppingItemPurchased,
			deleted:     domain.KindShoppingItemDeleted,
		})
	case CollectionLists:
		return parseList(c)
	case CollectionChatMessages:
		return parseChatMessage(c)
	default:
		return nil, nil
	}
}

// itemRules captures what differs between the todos and shoppingItems
// collections: field names and the event kinds each operation maps to.
type itemRules struct {
	title      string
	stateFlag  string
	stateActor string
	created    domain.Kind
	transition domain.Kind
	deleted    domain.Kind
}

func parseItem(c domain.Change, rules itemRules) ([]domain.Event, error) {
	switch c.Operation {
	case domain.OpCreated:
		actor := stringField(c.After, "createdBy")
		listID := stringField(c.After, "listId")
		if len(c.After) == 0 || actor == "" || listID == "" {
			return nil, fmt.Errorf("%w: %s create needs createdBy and listId", domain.ErrMalformedChange, c.Collection)
		}
		return []domain.Event{{
			Kind:     rules.created,
			ListID:   listID,
			ItemID:   c.DocumentID,
			Actor:    actor,
			Title:    stringField(c.After, rules.title),
			Assignee: stringField(c.After, "assignedTo"),
		}}, nil

	case domain.OpUpdated:
		if len(c.Before) == 0 || len(c.After) == 0 {
			return nil, fmt.Errorf("%w: %s update needs before and after snapshots", domain.ErrMalformedChange, c.Collection)
		}
		// Fire only on the false→true edge of the state flag.
		if boolField(c.Before, rules.stateFlag) || !boolField(c.After, rules.stateFlag) {
			return nil, nil
		}
		actor := stringField(c.After, rules.stateActor, "createdBy")
		listID := stringField(c.After, "listId")
		if actor == "" || listID == "" {
			return nil, fmt.Errorf("%w: %s transition needs an actor and listId", domain.ErrMalformedChange, c.Collection)
		}
		return []domain.Event{{
			Kind:   rules.transition,
			ListID: listID,
			ItemID: c.DocumentID,
			Actor:  actor,
			Title:  stringField(c.After, rules.title),
		}}, nil

	case domain.OpDeleted:
		actor := stringField(c.Before, "deletedBy", "createdBy")
		listID := stringField(c.Before, "listId")
		if len(c.Before) == 0 || actor == "" || listID == "" {
			return nil, fmt.Errorf("%w: %s delete needs deletedBy/createdBy and listId", domain.ErrMalformedChange, c.Collection)
		}
		return []domain.Event{{
			Kind:   rules.deleted,
			ListID: listID,
			ItemID: c.DocumentID,
			Actor:  actor,
			Title:  stringField(c.Before, rules.title),
		}}, nil
	}
	return nil, nil
}

func parseList(c domain.Change) ([]domain.Event, error) {
	// Only membership updates notify; list creation and deletion are the
	// owner's own actions.
	if c.Operation != domain.OpUpdated {
		return nil, nil
	}
	if len(c.Before) == 0 || len(c.After) == 0 {
		return nil, fmt.Errorf("%w: list update needs before and after snapshots", domain.ErrMalformedChange)
	}

	before := stringSlice(c.Before, "members")
	after := stringSlice(c.After, "members")
	added := difference(after, before)
	removed := difference(before, after)

	var events []domain.Event
	if len(added) > 0 {
		events = append(events, domain.Event{
			Kind:          domain.KindMemberAdded,
			ListID:        c.DocumentID,
			BeforeMembers: before,
			AfterMembers:  after,
			Added:         added,
		})
	}
	if len(removed) > 0 {
		events = append(events, domain.Event{
			Kind:          domain.KindMemberRemoved,
			ListID:        c.DocumentID,
			BeforeMembers: before,
			AfterMembers:  after,
			Removed:       removed,
		})
	}
	return events, nil
}

func parseChatMessage(c domain.Change) ([]domain.Event, error) {
	if c.Operation != domain.OpCreated {
		return nil, nil
	}
	itemID := stringField(c.After, "todoId")
	// Older app versions wrote senderId/senderName; support both spellings.
	actor := stringField(c.After, "userId", "senderId")
	actorName := stringField(c.After, "userName", "senderName")
	body := stringField(c.After, "message")
	if len(c.After) == 0 || itemID == "" || actor == "" || actorName == "" || body == "" {
		return nil, fmt.Errorf("%w: chat message needs todoId, sender, and message", domain.ErrMalformedChange)
	}
	return []domain.Event{{
		Kind:      domain.KindChatMessage,
		ItemID:    itemID,
		MessageID: c.DocumentID,
		Actor:     actor,
		ActorName: actorName,
		Body:      body,
	}}, nil
}

// stringField returns the first key whose value is a non-empty string.
func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func boolField(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

// stringSlice reads an array field, tolerating both []string and the
// []any that json.Unmarshal produces. Non-string elements are skipped.
func stringSlice(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// difference returns the elements of a not present in b, preserving order.
func difference(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, id := range b {
		seen[id] = struct{}{}
	}
	var out []string
	for _, id := range a {
		if _, ok := seen[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
