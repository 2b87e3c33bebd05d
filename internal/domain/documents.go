package domain

// List mirrors a document in the lists collection. Membership is the single
// source of truth for who may be notified about the list's children; it is
// read fresh on every event, never cached across invocations.
type List struct {
	ID      string
	Members []string
}

// User mirrors a document in the users collection. An empty FCMToken means
// the user has no registered device and is silently excluded from delivery.
//
// Prefs carries the per-event-kind notification preference mapping exactly as
// stored. Values are kept loosely typed on purpose: the preference resolver
// is the one place that narrows them, failing open on anything that is not a
// bool.
type User struct {
	ID       string
	FCMToken string
	Prefs    map[string]any
}

// Item mirrors a document in the todos or shoppingItems collection, reduced
// to the fields the pipeline needs when resolving a chat message's parent.
type Item struct {
	ID     string
	ListID string
	Title  string
}
