// ABOUTME: Owner-scoped note operations: create, read, edit, pin, list and delete
// ABOUTME: Every call takes the caller's user ID and never touches another owner's notes

package notes

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/store"
)

// ErrNotFound is returned when a note does not exist or belongs to another owner.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("note not found")

// Patch is a partial note update. A nil field is absent; a non-nil field is present,
// including a present false for IsPinned or a present empty Tags list.
type Patch struct {
	Title    *string
	Content  *string
	Tags     *[]string
	IsPinned *bool
}

// IsEmpty reports whether no field is present
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Tags == nil && p.IsPinned == nil
}

// Service implements note operations over a store.NoteStore
type Service struct {
	notes  store.NoteStore
	now    func() time.Time
	logger *slog.Logger
}

// NewService creates a note service
func NewService(notes store.NoteStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		notes:  notes,
		now:    time.Now,
		logger: logger.With("component", "notes"),
	}
}

// Create stores a new unpinned note owned by ownerID. Nil tags become an empty list.
func (s *Service) Create(ctx context.Context, ownerID, title, content string, tags []string) (*store.Note, error) {
	if title == "" {
		return nil, common.Required("title", "Title")
	}
	if content == "" {
		return nil, common.Required("content", "Content")
	}
	if tags == nil {
		tags = []string{}
	}

	note := &store.Note{
		ID:        uuid.New().String(),
		UserID:    ownerID,
		Title:     title,
		Content:   content,
		Tags:      tags,
		IsPinned:  false,
		CreatedAt: s.now().UTC(),
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("creating note: %w", err)
	}

	s.logger.Debug("note created", "note_id", note.ID, "user_id", ownerID)
	return note, nil
}

// Get returns a single note owned by ownerID
func (s *Service) Get(ctx context.Context, noteID, ownerID string) (*store.Note, error) {
	note, err := s.notes.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, mapStoreError("getting note", err)
	}
	return note, nil
}

// Edit applies a patch to a note owned by ownerID. Title and content apply only
// when present and non-empty; tags and the pinned flag apply whenever present.
func (s *Service) Edit(ctx context.Context, noteID, ownerID string, patch Patch) (*store.Note, error) {
	note, err := s.notes.GetNote(ctx, noteID, ownerID)
	if err != nil {
		return nil, mapStoreError("loading note", err)
	}

	if patch.Title != nil && *patch.Title != "" {
		note.Title = *patch.Title
	}
	if patch.Content != nil && *patch.Content != "" {
		note.Content = *patch.Content
	}
	if patch.Tags != nil {
		note.Tags = append([]string{}, *patch.Tags...)
	}
	if patch.IsPinned != nil {
		note.IsPinned = *patch.IsPinned
	}

	if err := s.notes.UpdateNote(ctx, note); err != nil {
		return nil, mapStoreError("updating note", err)
	}

	return note, nil
}

// SetPinned sets the pinned flag of a note owned by ownerID
func (s *Service) SetPinned(ctx context.Context, noteID, ownerID string, pinned bool) (*store.Note, error) {
	return s.Edit(ctx, noteID, ownerID, Patch{IsPinned: &pinned})
}

// List returns all notes owned by ownerID, pinned first, otherwise in insertion order
func (s *Service) List(ctx context.Context, ownerID string) ([]*store.Note, error) {
	notes, err := s.notes.ListNotes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}

	slices.SortStableFunc(notes, func(a, b *store.Note) int {
		switch {
		case a.IsPinned == b.IsPinned:
			return 0
		case a.IsPinned:
			return -1
		default:
			return 1
		}
	})

	return notes, nil
}

// Delete removes a note owned by ownerID. Deleting twice returns ErrNotFound.
func (s *Service) Delete(ctx context.Context, noteID, ownerID string) error {
	if err := s.notes.DeleteNote(ctx, noteID, ownerID); err != nil {
		return mapStoreError("deleting note", err)
	}
	s.logger.Debug("note deleted", "note_id", noteID, "user_id", ownerID)
	return nil
}

// mapStoreError translates store.ErrNotFound and wraps anything else
func mapStoreError(op string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
