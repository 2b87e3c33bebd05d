package domain

// Kind identifies one of the mutation events the fan-out reacts to.
// The enumeration is closed: the parser only ever produces these values,
// and every switch over Kind in the pipeline matches them exhaustively.
type Kind string

const (
	KindTodoCreated           Kind = "todo_created"
	KindTodoCompleted         Kind = "todo_completed"
	KindTodoDeleted           Kind = "todo_deleted"
	KindShoppingItemCreated   Kind = "shopping_item_created"
	KindShoppingItemPurchased Kind = "shopping_item_purchased"
	KindShoppingItemDeleted   Kind = "shopping_item_deleted"
	KindMemberAdded           Kind = "member_added"
	KindMemberRemoved         Kind = "member_removed"
	KindChatMessage           Kind = "chat_message"
)

// Kinds lists every event kind, in a stable order. Used by the preference
// defaults table and by metric label pre-registration.
var Kinds = []Kind{
	KindTodoCreated,
	KindTodoCompleted,
	KindTodoDeleted,
	KindShoppingItemCreated,
	KindShoppingItemPurchased,
	KindShoppingItemDeleted,
	KindMemberAdded,
	KindMemberRemoved,
	KindChatMessage,
}

func (k Kind) IsValid() bool {
	switch k {
	case KindTodoCreated, KindTodoCompleted, KindTodoDeleted,
		KindShoppingItemCreated, KindShoppingItemPurchased, KindShoppingItemDeleted,
		KindMemberAdded, KindMemberRemoved, KindChatMessage:
		return true
	}
	return false
}

// Priority controls queue ordering of pending events. High is processed first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Priority maps an event kind to its queue tier. Chat messages are
// time-sensitive; deletions and membership changes can wait behind
// everything else.
func (k Kind) Priority() Priority {
	switch k {
	case KindChatMessage:
		return PriorityHigh
	case KindTodoCreated, KindTodoCompleted, KindShoppingItemCreated, KindShoppingItemPurchased:
		return PriorityNormal
	default:
		return PriorityLow
	}
}

// Event is one validated mutation, produced by the event parser and consumed
// by the pipeline. It is transient: built at the start of handling one change
// and discarded at the end. Which fields are populated depends on Kind; the
// parser guarantees the per-kind required fields are present.
type Event struct {
	Kind Kind

	// ListID is set for every kind except chat_message, where the list is
	// resolved transitively through the parent to-do at pipeline time.
	ListID string

	// ItemID is the to-do or shopping item id. For chat_message it is the
	// parent to-do the message was posted under.
	ItemID string

	// Actor is the user who triggered the mutation and is excluded from
	// self-notification (creator, completer, deleter, purchaser, or sender).
	Actor string

	// Title is the item title or name, used in notification body text.
	Title string

	// Assignee, when set on a creation event, narrows the recipients to
	// exactly that user.
	Assignee string

	// Membership snapshots and deltas, populated for member_added and
	// member_removed only.
	BeforeMembers []string
	AfterMembers  []string
	Added         []string
	Removed       []string

	// Chat fields, populated for chat_message only.
	MessageID string
	ActorName string
	Body      string
}

// Change is the raw document-change payload posted by the trigger framework.
// It is the untyped edge of the system; the event parser turns it into
// validated Event values and nothing downstream ever sees these maps.
type Change struct {
	Collection string         `json:"collection"`
	Operation  Operation      `json:"operation"`
	DocumentID string         `json:"documentId"`
	Before     map[string]any `json:"before,omitempty"`
	After      map[string]any `json:"after,omitempty"`
}

// Operation is the document-store mutation type.
type Operation string

const (
	OpCreated Operation = "created"
	OpUpdated Operation = "updated"
	OpDeleted Operation = "deleted"
)

func (o Operation) IsValid() bool {
	switch o {
	case OpCreated, OpUpdated, OpDeleted:
		return true
	}
	return false
}

func (c *Change) Validate() error {
	if c.Collection == "" {
		return ErrInvalidCollection
	}
	if !c.Operation.IsValid() {
		return ErrInvalidOperation
	}
	if c.DocumentID == "" {
		return ErrInvalidDocumentID
	}
	return nil
}
