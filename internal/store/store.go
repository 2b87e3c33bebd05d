package store

import (
	"context"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// MaxIDsPerQuery is the document store's hard limit on the number of ids in
// one multi-get ("in") query. The token resolver chunks candidate sets to
// this bound before calling GetUsers.
const MaxIDsPerQuery = 10

// Store defines the read operations the pipeline needs from the shared-list
// document store. The Firestore implementation is in firestore.go; tests use
// a hand-written mock (mock_store.go).
type Store interface {
	// GetList returns the list document or domain.ErrNotFound.
	GetList(ctx context.Context, id string) (*domain.List, error)

	// GetTodo returns the to-do document a chat message was posted under,
	// or domain.ErrNotFound.
	GetTodo(ctx context.Context, id string) (*domain.Item, error)

	// GetUsers returns the user documents for up to MaxIDsPerQuery ids in a
	// single multi-get. Ids with no backing document are silently absent
	// from the result.
	GetUsers(ctx context.Context, ids []string) ([]*domain.User, error)
}
