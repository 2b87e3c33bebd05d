package store

import (
	"context"
	"sync"

	"github.com/pocketlist/push-fanout/internal/domain"
)

// MockStore is a hand-written, in-memory implementation of Store used in
// unit tests. No mock-generation library needed.
type MockStore struct {
	mu    sync.RWMutex
	lists map[string]*domain.List
	todos map[string]*domain.Item
	users map[string]*domain.User

	// GetUsersCalls counts multi-get invocations, for asserting that
	// lookups are chunked rather than issued per user.
	GetUsersCalls int

	// Optional error overrides — set in tests to simulate failure paths.
	GetListErr  error
	GetTodoErr  error
	GetUsersErr error

	// FailChunkWith, when non-empty, makes GetUsers fail only for the chunk
	// containing this user id. Simulates a partial store outage.
	FailChunkWith string
	ChunkErr      error
}

func NewMockStore() *MockStore {
	return &MockStore{
		lists: make(map[string]*domain.List),
		todos: make(map[string]*domain.Item),
		users: make(map[string]*domain.User),
	}
}

func (m *MockStore) PutList(l *domain.List) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[l.ID] = l
}

func (m *MockStore) PutTodo(item *domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.todos[item.ID] = item
}

func (m *MockStore) PutUser(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MockStore) GetList(_ context.Context, id string) (*domain.List, error) {
	if m.GetListErr != nil {
		return nil, m.GetListErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.lists[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *l
	return &clone, nil
}

func (m *MockStore) GetTodo(_ context.Context, id string) (*domain.Item, error) {
	if m.GetTodoErr != nil {
		return nil, m.GetTodoErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.todos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *item
	return &clone, nil
}

func (m *MockStore) GetUsers(_ context.Context, ids []string) ([]*domain.User, error) {
	m.mu.Lock()
	m.GetUsersCalls++
	m.mu.Unlock()

	if m.GetUsersErr != nil {
		return nil, m.GetUsersErr
	}
	if m.FailChunkWith != "" {
		for _, id := range ids {
			if id == m.FailChunkWith {
				return nil, m.ChunkErr
			}
		}
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			clone := *u
			result = append(result, &clone)
		}
	}
	return result, nil
}

// compile-time check that MockStore implements Store
var _ Store = (*MockStore)(nil)
