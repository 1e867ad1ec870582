// ABOUTME: Account registration and password authentication backed by bcrypt
// ABOUTME: Owns user records; hashes are produced and checked here and never returned

package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/2389/notes-gateway/internal/common"
	"github.com/2389/notes-gateway/internal/store"
)

// DefaultCost is the bcrypt work factor used for new password hashes
const DefaultCost = 10

// dummyHash is compared against when the email is unknown so both
// authentication failure paths spend the same bcrypt time.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Account errors
var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("account not found")
)

// Service creates and authenticates user accounts
type Service struct {
	users  store.UserStore
	cost   int
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Service
type Option func(*Service)

// WithCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func WithCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithLogger sets the service logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source used for CreatedAt
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates an account service over the given user store
func NewService(users store.UserStore, opts ...Option) *Service {
	s := &Service{
		users:  users,
		cost:   DefaultCost,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "accounts")
	return s
}

// NormalizeEmail trims surrounding space and lower-cases the address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateAccount registers a new user. Fields are checked in order full name,
// email, password; the first empty one yields a ValidationError.
func (s *Service) CreateAccount(ctx context.Context, fullName, email, password string) (*store.User, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	if fullName == "" {
		return nil, common.Required("fullName", "Full Name")
	}
	if email == "" {
		return nil, common.Required("email", "Email")
	}
	if password == "" {
		return nil, common.Required("password", "Password")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, common.Invalid("email", "Email")
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("looking up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, &common.ValidationError{Field: "password", Message: "Password must be at most 72 bytes"}
		}
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &store.User{
		ID:           uuid.New().String(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("account created", "user_id", user.ID)
	return withoutHash(user), nil
}

// Authenticate verifies an email/password pair and returns the matching user.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*store.User, error) {
	email = NormalizeEmail(email)

	if email == "" {
		return nil, common.Required("email", "Email")
	}
	if password == "" {
		return nil, common.Required("password", "Password")
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("password mismatch", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}

	return withoutHash(user), nil
}

// GetByID resolves a user for profile queries
func (s *Service) GetByID(ctx context.Context, id string) (*store.User, error) {
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return withoutHash(user), nil
}

func withoutHash(u *store.User) *store.User {
	c := *u
	c.PasswordHash = ""
	return &c
}
