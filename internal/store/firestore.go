package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/pocketlist/push-fanout/internal/domain"
)

const (
	collectionLists = "lists"
	collectionTodos = "todos"
	collectionUsers = "users"
)

// FirestoreStore reads lists, to-dos, and users from Firestore.
// The client is injected from main; this type never owns its lifecycle.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) GetList(ctx context.Context, id string) (*domain.List, error) {
	ds, err := s.client.Collection(collectionLists).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get list %s: %w", id, err)
	}

	data := ds.Data()
	return &domain.List{
		ID:      ds.Ref.ID,
		Members: toStringSlice(data["members"]),
	}, nil
}

func (s *FirestoreStore) GetTodo(ctx context.Context, id string) (*domain.Item, error) {
	ds, err := s.client.Collection(collectionTodos).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %s: %w", id, err)
	}

	data := ds.Data()
	listID, _ := data["listId"].(string)
	title, _ := data["title"].(string)
	return &domain.Item{ID: ds.Ref.ID, ListID: listID, Title: title}, nil
}

// GetUsers issues one "in" query over document ids. Firestore caps these at
// MaxIDsPerQuery ids, so oversized input is a caller bug, not a store state.
func (s *FirestoreStore) GetUsers(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if len(ids) > MaxIDsPerQuery {
		return nil, fmt.Errorf("get users: %d ids exceeds the %d-id query limit", len(ids), MaxIDsPerQuery)
	}

	users := s.client.Collection(collectionUsers)
	refs := make([]*firestore.DocumentRef, len(ids))
	for i, id := range ids {
		refs[i] = users.Doc(id)
	}

	docs, err := users.Where(firestore.DocumentID, "in", refs).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}

	result := make([]*domain.User, 0, len(docs))
	for _, ds := range docs {
		data := ds.Data()
		token, _ := data["fcmToken"].(string)
		prefs, _ := data["notificationPrefs"].(map[string]any)
		result = append(result, &domain.User{
			ID:       ds.Ref.ID,
			FCMToken: token,
			Prefs:    prefs,
		})
	}
	return result, nil
}

func toStringSlice(v any) []string {
	switch vs := v.(type) {
	case []string:
		return vs
	case []any:
		out := make([]string, 0, len(vs))
		for _, e := range vs {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// compile-time check that FirestoreStore implements Store
var _ Store = (*FirestoreStore)(nil)
