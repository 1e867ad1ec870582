// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"errors"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu         sync.RWMutex
	users      map[string]*User // keyed by user ID
	emailIndex map[string]string
	notes      map[string]*Note // keyed by note ID
	noteOrder  []string         // note IDs in insertion order

	// PingErr, when set, is returned by Ping
	PingErr error
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[string]*User),
		emailIndex: make(map[string]string),
		notes:      make(map[string]*Note),
	}
}

// CreateUser stores a new user.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emailIndex[user.Email]; exists {
		return ErrDuplicateEmail
	}

	u := *user
	m.users[u.ID] = &u
	m.emailIndex[u.Email] = u.ID
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *u
	return &c, nil
}

// GetUserByEmail retrieves a user by email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return nil, ErrNotFound
	}
	c := *m.users[id]
	return &c, nil
}

// CreateNote stores a new note.
func (m *MockStore) CreateNote(ctx context.Context, note *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.notes[note.ID]; exists {
		return errors.New("note already exists")
	}

	m.notes[note.ID] = copyNote(note)
	m.noteOrder = append(m.noteOrder, note.ID)
	return nil
}

// GetNote retrieves a note owned by userID.
func (m *MockStore) GetNote(ctx context.Context, id, userID string) (*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return nil, ErrNotFound
	}
	return copyNote(n), nil
}

// UpdateNote overwrites the mutable fields of a note owned by note.UserID.
func (m *MockStore) UpdateNote(ctx context.Context, note *Note) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return ErrNotFound
	}

	existing.Title = note.Title
	existing.Content = note.Content
	existing.Tags = append([]string{}, note.Tags...)
	existing.IsPinned = note.IsPinned
	return nil
}

// DeleteNote removes a note owned by userID.
func (m *MockStore) DeleteNote(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.notes[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}

	delete(m.notes, id)
	for i, nid := range m.noteOrder {
		if nid == id {
			m.noteOrder = append(m.noteOrder[:i], m.noteOrder[i+1:]...)
			break
		}
	}
	return nil
}

// ListNotes returns every note owned by userID in insertion order.
func (m *MockStore) ListNotes(ctx context.Context, userID string) ([]*Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []*Note{}
	for _, id := range m.noteOrder {
		if n := m.notes[id]; n.UserID == userID {
			result = append(result, copyNote(n))
		}
	}
	return result, nil
}

// Ping returns PingErr.
func (m *MockStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements Store
var _ Store = (*MockStore)(nil)
