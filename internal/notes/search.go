// ABOUTME: Case-insensitive substring search over a single owner's notes
// ABOUTME: Matches on title or content; results keep the store's listing order

package notes

import (
	"context"
	"fmt"
	"strings"

	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/store"
)

// Search returns the notes owned by ownerID whose title or content contains query,
// ignoring case. The query is matched literally.
func (s *Service) Search(ctx context.Context, ownerID, query string) ([]*store.Note, error) {
	if query == "" {
		return nil, common.Required("query", "Search query")
	}

	notes, err := s.notes.ListNotes(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}

	needle := strings.ToLower(query)
	matches := []*store.Note{}
	for _, n := range notes {
		if containsFold(n.Title, needle) || containsFold(n.Content, needle) {
			matches = append(matches, n)
		}
	}

	return matches, nil
}

// containsFold reports whether lowerNeedle occurs in s ignoring case
func containsFold(s, lowerNeedle string) bool {
	return strings.Contains(strings.ToLower(s), lowerNeedle)
}
