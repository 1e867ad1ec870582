// ABOUTME: Tests for account registration and authentication
// ABOUTME: Uses MockStore and the minimum bcrypt cost to keep runs fast

package accounts

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MockStore) {
	t.Helper()
	s := store.NewMockStore()
	return NewService(s, WithCost(bcrypt.MinCost)), s
}

func TestCreateAccount(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "Alice", user.FullName)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Empty(t, user.PasswordHash, "hash must not be returned to callers")
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("pw1")))
}

func TestCreateAccount_DefaultCost(t *testing.T) {
	s := store.NewMockStore()
	svc := NewService(s)
	ctx := context.Background()

	user, err := svc.CreateAccount(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)

	stored, err := s.GetUser(ctx, user.ID)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)
}

func TestCreateAccount_Validation(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
		password string
		field    string
		message  string
	}{
		{"missing name", "", "a@x.com", "pw", "fullName", "Full Name is required"},
		{"blank name", "   ", "a@x.com", "pw", "fullName", "Full Name is required"},
		{"missing email", "Alice", "", "pw", "email", "Email is required"},
		{"missing password", "Alice", "a@x.com", "", "password", "Password is required"},
		{"malformed email", "Alice", "not-an-email", "pw", "email", "Email is invalid"},
		{"display name form", "Alice", "Alice <a@x.com>", "pw", "email", "Email is invalid"},
		{"all missing reports name first", "", "", "", "fullName", "Full Name is required"},
		{"password too long", "Alice", "a@x.com", strings.Repeat("p", 73), "password", "Password must be at most 72 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t)
			_, err := svc.CreateAccount(context.Background(), tt.fullName, tt.email, tt.password)

			ve, ok := common.AsValidation(err)
			require.True(t, ok, "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, tt.message, ve.Message)
		})
	}
}

func TestCreateAccount_DuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateAccount(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)

	// Different name and password, same email after normalization
	_, err = svc.CreateAccount(ctx, "Someone Else", "  A@X.com ", "other")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

// racingStore reports the email as free, then fails the insert as a duplicate.
type racingStore struct {
	*store.MockStore
}

func (r racingStore) CreateUser(ctx context.Context, u *store.User) error {
	return store.ErrDuplicateEmail
}

func TestCreateAccount_DuplicateOnInsert(t *testing.T) {
	svc := NewService(racingStore{store.NewMockStore()}, WithCost(bcrypt.MinCost))

	_, err := svc.CreateAccount(context.Background(), "Alice", "a@x.com", "pw1")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

type failingStore struct {
	*store.MockStore
}

func (f failingStore) GetUserByEmail(ctx context.Context, email string) (*store.User, error) {
	return nil, errors.New("connection reset")
}

func TestCreateAccount_StoreFailure(t *testing.T) {
	svc := NewService(failingStore{store.NewMockStore()}, WithCost(bcrypt.MinCost))

	_, err := svc.CreateAccount(context.Background(), "Alice", "a@x.com", "pw1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateEmail)
	_, isValidation := common.AsValidation(err)
	assert.False(t, isValidation)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "a@x.com", "pw1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.Authenticate(ctx, "A@X.COM", "pw1")
	assert.NoError(t, err, "email lookup is case-insensitive")

	_, err = svc.Authenticate(ctx, "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody@x.com", "pw1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthenticate_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Authenticate(context.Background(), "", "pw")
	ve, ok := common.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Email is required", ve.Message)

	_, err = svc.Authenticate(context.Background(), "a@x.com", "")
	ve, ok = common.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Password is required", ve.Message)
}

func TestGetByID(t *testing.T) {
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	s := store.NewMockStore()
	svc := NewService(s, WithCost(bcrypt.MinCost), WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	created, err := svc.CreateAccount(ctx, "Alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.FullName)
	assert.Equal(t, fixed, user.CreatedAt)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
