// ABOUTME: Store interface and data types for notes-gateway persistence
// ABOUTME: Defines User and Note records and the document-store operations over them

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist.
// Note lookups that match an id owned by someone else also return ErrNotFound.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when creating a user whose email is already registered
var ErrDuplicateEmail = errors.New("email already registered")

// User is a registered account. PasswordHash is opaque and never leaves the server.
type User struct {
	ID           string
	FullName     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Note is a single note owned by exactly one user
type Note struct {
	ID        string
	UserID    string // owner, fixed at creation
	Title     string
	Content   string
	Tags      []string
	IsPinned  bool
	CreatedAt time.Time
}

// UserStore persists user accounts
type UserStore interface {
	// CreateUser inserts a new user. Returns ErrDuplicateEmail if the email is taken.
	CreateUser(ctx context.Context, user *User) error

	// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
	GetUser(ctx context.Context, id string) (*User, error)

	// GetUserByEmail retrieves a user by email. Returns ErrNotFound if absent.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// NoteStore persists notes. Every lookup is keyed by (note ID, owner ID).
type NoteStore interface {
	CreateNote(ctx context.Context, note *Note) error

	// GetNote returns the note only if it belongs to userID, else ErrNotFound.
	GetNote(ctx context.Context, id, userID string) (*Note, error)

	// UpdateNote overwrites title, content, tags and pinned state of the note
	// matching (note.ID, note.UserID). Returns ErrNotFound if no row matches.
	UpdateNote(ctx context.Context, note *Note) error

	// DeleteNote removes the note matching (id, userID). Returns ErrNotFound if no row matches.
	DeleteNote(ctx context.Context, id, userID string) error

	// ListNotes returns every note owned by userID in insertion order.
	ListNotes(ctx context.Context, userID string) ([]*Note, error)
}

// Store is the full persistence surface used by the gateway
type Store interface {
	UserStore
	NoteStore

	// Ping reports whether the backing database is reachable.
	Ping(ctx context.Context) error

	Close() error
}

// encodeTags serializes tags for a text/JSON column. Nil is stored as an empty list.
func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encoding tags: %w", err)
	}
	return string(data), nil
}

// decodeTags parses a stored tag list
func decodeTags(raw []byte) ([]string, error) {
	tags := []string{}
	if len(raw) == 0 {
		return tags, nil
	}
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	return tags, nil
}

// copyNote returns a deep copy so callers cannot mutate stored state
func copyNote(n *Note) *Note {
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}
