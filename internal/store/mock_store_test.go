// ABOUTME: Unit tests for MockStore edge cases not shared with SQLiteStore
// ABOUTME: Focuses on copy semantics and injected ping failures

package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStore_ReturnsCopies(t *testing.T) {
	s := NewMockStore()
	ctx := context.Background()

	note := testNote("n-1", "alice", "original")
	note.Tags = []string{"a"}
	require.NoError(t, s.CreateNote(ctx, note))

	// Mutating the caller's value must not leak into the store
	note.Title = "mutated"
	note.Tags[0] = "b"

	got, err := s.GetNote(ctx, "n-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, []string{"a"}, got.Tags)

	got.Tags[0] = "c"
	again, err := s.GetNote(ctx, "n-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, again.Tags)
}

func TestMockStore_CreateNote_DuplicateID(t *testing.T) {
	s := NewMockStore()
	ctx := context.Background()

	require.NoError(t, s.CreateNote(ctx, testNote("n-1", "alice", "one")))
	assert.Error(t, s.CreateNote(ctx, testNote("n-1", "alice", "two")))
}

func TestMockStore_PingErr(t *testing.T) {
	s := NewMockStore()
	s.PingErr = errors.New("down")
	assert.EqualError(t, s.Ping(context.Background()), "down")
}
