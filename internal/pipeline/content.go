package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pocketlist/push-fanout/internal/domain"
	"github.com/pocketlist/push-fanout/internal/push"
)

// maxChatPreviewLen bounds the chat body shown in the notification.
const maxChatPreviewLen = 50

// contentFor builds the notification payload for one event. All data values
// are strings because FCM requires string-typed data; id lists are
// comma-joined. The event is fully enriched at this point (chat events
// already carry their resolved list id and parent title).
func contentFor(ev domain.Event) push.Payload {
	switch ev.Kind {
	case domain.KindTodoCreated:
		data := map[string]string{
			"type":      string(ev.Kind),
			"todoId":    ev.ItemID,
			"listId":    ev.ListID,
			"createdBy": ev.Actor,
		}
		if ev.Assignee != "" {
			data["assignedTo"] = ev.Assignee
		}
		return push.Payload{
			Title: "New to-do",
			Body:  fmt.Sprintf("%s was added to the list", ev.Title),
			Data:  data,
		}

	case domain.KindTodoCompleted:
		return push.Payload{
			Title: "To-do completed",
			Body:  fmt.Sprintf("%s was marked as done", ev.Title),
			Data: map[string]string{
				"type":        string(ev.Kind),
				"todoId":      ev.ItemID,
				"listId":      ev.ListID,
				"completedBy": ev.Actor,
			},
		}

	case domain.KindTodoDeleted:
		return push.Payload{
			Title: "To-do deleted",
			Body:  fmt.Sprintf("%s was removed from the list", ev.Title),
			Data: map[string]string{
				"type":      string(ev.Kind),
				"todoId":    ev.ItemID,
				"listId":    ev.ListID,
				"deletedBy": ev.Actor,
			},
		}

	case domain.KindShoppingItemCreated:
		return push.Payload{
			Title: "New shopping item",
			Body:  fmt.Sprintf("%s was added to the shopping list", ev.Title),
			Data: map[string]string{
				"type":      string(ev.Kind),
				"itemId":    ev.ItemID,
				"listId":    ev.ListID,
				"createdBy": ev.Actor,
			},
		}

	case domain.KindShoppingItemPurchased:
		return push.Payload{
			Title: "Item purchased",
			Body:  fmt.Sprintf("%s was marked as purchased", ev.Title),
			Data: map[string]string{
				"type":        string(ev.Kind),
				"itemId":      ev.ItemID,
				"listId":      ev.ListID,
				"purchasedBy": ev.Actor,
			},
		}

	case domain.KindShoppingItemDeleted:
		return push.Payload{
			Title: "Shopping item deleted",
			Body:  fmt.Sprintf("%s was removed from the shopping list", ev.Title),
			Data: map[string]string{
				"type":      string(ev.Kind),
				"itemId":    ev.ItemID,
				"listId":    ev.ListID,
				"deletedBy": ev.Actor,
			},
		}

	case domain.KindMemberAdded:
		return push.Payload{
			Title: "New member",
			Body:  countBody(len(ev.Added), "joined the list"),
			Data: map[string]string{
				"type":       string(ev.Kind),
				"listId":     ev.ListID,
				"newMembers": strings.Join(ev.Added, ","),
			},
		}

	case domain.KindMemberRemoved:
		return push.Payload{
			Title: "Member left",
			Body:  countBody(len(ev.Removed), "left the list"),
			Data: map[string]string{
				"type":           string(ev.Kind),
				"listId":         ev.ListID,
				"removedMembers": strings.Join(ev.Removed, ","),
			},
		}

	case domain.KindChatMessage:
		return push.Payload{
			Title: fmt.Sprintf("%s sent a message", ev.ActorName),
			Body:  truncate(ev.Body, maxChatPreviewLen),
			Data: map[string]string{
				"type":      string(ev.Kind),
				"messageId": ev.MessageID,
				"todoId":    ev.ItemID,
				"listId":    ev.ListID,
				"todoTitle": ev.Title,
				"userId":    ev.Actor,
				"userName":  ev.ActorName,
				"message":   ev.Body,
			},
		}
	}

	// Unreachable for parser-produced events; kept so a future kind cannot
	// silently ship an empty notification.
	return push.Payload{
		Title: "List updated",
		Data:  map[string]string{"type": string(ev.Kind)},
	}
}

func countBody(n int, suffix string) string {
	if n == 1 {
		return "1 member " + suffix
	}
	return strconv.Itoa(n) + " members " + suffix
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
