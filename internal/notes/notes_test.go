// ABOUTME: Tests for owner-scoped note operations
// ABOUTME: Covers patch presence semantics, pinned ordering and cross-owner isolation

package notes

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewMockStore(), nil)
}

func ptr[T any](v T) *T { return &v }

func titles(notes []*store.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestCreate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", "Buy milk", "2%", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, note.ID)
	assert.Equal(t, "alice", note.UserID)
	assert.False(t, note.IsPinned)
	assert.NotNil(t, note.Tags)
	assert.Empty(t, note.Tags)

	got, err := svc.Get(ctx, note.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "2%", got.Content)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "", "content", nil)
	ve, ok := common.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Title is required", ve.Message)

	_, err = svc.Create(ctx, "alice", "title", "", nil)
	ve, ok = common.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Content is required", ve.Message)
}

func TestEdit_PatchPresence(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", "title", "content", []string{"a"})
	require.NoError(t, err)

	// Empty strings are not applied
	edited, err := svc.Edit(ctx, note.ID, "alice", Patch{Title: ptr(""), Content: ptr("new content")})
	require.NoError(t, err)
	assert.Equal(t, "title", edited.Title)
	assert.Equal(t, "new content", edited.Content)
	assert.Equal(t, []string{"a"}, edited.Tags)

	// A present empty tag list clears tags
	edited, err = svc.Edit(ctx, note.ID, "alice", Patch{Tags: ptr([]string{})})
	require.NoError(t, err)
	assert.Empty(t, edited.Tags)

	// Pinned true then explicitly false
	edited, err = svc.Edit(ctx, note.ID, "alice", Patch{IsPinned: ptr(true)})
	require.NoError(t, err)
	assert.True(t, edited.IsPinned)

	edited, err = svc.Edit(ctx, note.ID, "alice", Patch{IsPinned: ptr(false)})
	require.NoError(t, err)
	assert.False(t, edited.IsPinned)

	stored, err := svc.Get(ctx, note.ID, "alice")
	require.NoError(t, err)
	assert.False(t, stored.IsPinned)
	assert.Equal(t, "new content", stored.Content)
}

func TestPatch_IsEmpty(t *testing.T) {
	assert.True(t, Patch{}.IsEmpty())
	assert.False(t, Patch{IsPinned: ptr(false)}.IsEmpty())
	assert.False(t, Patch{Title: ptr("")}.IsEmpty())
}

func TestSetPinned_FalsePersists(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", "n", "c", nil)
	require.NoError(t, err)

	_, err = svc.SetPinned(ctx, note.ID, "alice", true)
	require.NoError(t, err)
	_, err = svc.SetPinned(ctx, note.ID, "alice", false)
	require.NoError(t, err)

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsPinned)
}

func TestList_PinnedFirstStable(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	pinned := map[string]bool{"n1": false, "n2": true, "n3": false, "n4": true, "n5": false}
	for _, title := range []string{"n1", "n2", "n3", "n4", "n5"} {
		note, err := svc.Create(ctx, "alice", title, "c", nil)
		require.NoError(t, err)
		if pinned[title] {
			_, err = svc.SetPinned(ctx, note.ID, "alice", true)
			require.NoError(t, err)
		}
	}

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"n2", "n4", "n1", "n3", "n5"}, titles(list)); diff != "" {
		t.Errorf("List order mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", "secret", "c", nil)
	require.NoError(t, err)

	_, err = svc.Get(ctx, note.ID, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Edit(ctx, note.ID, "bob", Patch{Title: ptr("pwned")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.SetPinned(ctx, note.ID, "bob", true)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, note.ID, "bob"), ErrNotFound)

	// Same error as a note that never existed
	_, err = svc.Get(ctx, "no-such-note", "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	bobs, err := svc.List(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bobs)

	got, err := svc.Get(ctx, note.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
	assert.False(t, got.IsPinned)
}

func TestDelete_Twice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	note, err := svc.Create(ctx, "alice", "t", "c", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, note.ID, "alice"))
	assert.ErrorIs(t, svc.Delete(ctx, note.ID, "alice"), ErrNotFound)
}

// brokenStore fails every note operation with a non-sentinel error
type brokenStore struct {
	*store.MockStore
}

var errDisk = errors.New("disk I/O error")

func (brokenStore) ListNotes(ctx context.Context, userID string) ([]*store.Note, error) {
	return nil, errDisk
}

func (brokenStore) GetNote(ctx context.Context, id, userID string) (*store.Note, error) {
	return nil, errDisk
}

func TestStoreFailuresAreNotNotFound(t *testing.T) {
	svc := NewService(brokenStore{store.NewMockStore()}, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "alice")
	assert.ErrorIs(t, err, errDisk)

	_, err = svc.Get(ctx, "n", "alice")
	assert.ErrorIs(t, err, errDisk)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = svc.Search(ctx, "alice", "x")
	assert.ErrorIs(t, err, errDisk)
}

func TestSQLiteBackedService(t *testing.T) {
	s, err := store.NewSQLiteStore(t.TempDir() + "/notes.db")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, &store.User{ID: "alice", FullName: "A", Email: "a@x.com", PasswordHash: "h"}))
	svc := NewService(s, nil)

	for i := range 3 {
		note, err := svc.Create(ctx, "alice", fmt.Sprintf("note %d", i), "c", nil)
		require.NoError(t, err)
		if i == 2 {
			_, err = svc.SetPinned(ctx, note.ID, "alice", true)
			require.NoError(t, err)
		}
	}

	list, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"note 2", "note 0", "note 1"}, titles(list))
}
