// ABOUTME: Unit tests for JWT token issuance and validation
// ABOUTME: Tests valid tokens, tampered tokens, per-purpose lifetimes and expiry

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("token-service-test-secret-32byte")

var testLifetimes = Lifetimes{
	Registration: 3000 * time.Minute,
	Login:        36000 * time.Minute,
}

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	svc, err := NewTokenService(testSecret, testLifetimes)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return svc
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService([]byte("short"), testLifetimes); err == nil {
		t.Error("expected error for secret shorter than MinSecretLength")
	}
}

func TestNewTokenService_NonPositiveLifetime(t *testing.T) {
	if _, err := NewTokenService(testSecret, Lifetimes{Registration: time.Hour}); err == nil {
		t.Error("expected error for zero login lifetime")
	}
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := newTestTokenService(t)

	token, err := svc.Issue("user-123", PurposeLogin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claim, err := svc.Validate(token.Value)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if claim.UserID != "user-123" {
		t.Errorf("UserID = %q, want %q", claim.UserID, "user-123")
	}
	if !claim.ExpiresAt.Equal(token.ExpiresAt) {
		t.Errorf("ExpiresAt = %v, want %v", claim.ExpiresAt, token.ExpiresAt)
	}
}

func TestTokenService_LifetimePerPurpose(t *testing.T) {
	svc := newTestTokenService(t)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	tests := []struct {
		purpose Purpose
		want    time.Duration
	}{
		{PurposeRegistration, 3000 * time.Minute},
		{PurposeLogin, 36000 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(string(tt.purpose), func(t *testing.T) {
			token, err := svc.Issue("user-1", tt.purpose)
			if err != nil {
				t.Fatalf("Issue() error = %v", err)
			}
			if got := token.ExpiresAt.Sub(now); got != tt.want {
				t.Errorf("lifetime = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenService_UnknownPurpose(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.Issue("user-1", Purpose("refresh")); err == nil {
		t.Error("expected error for unknown purpose")
	}
}

func TestTokenService_EmptyUserID(t *testing.T) {
	svc := newTestTokenService(t)
	if _, err := svc.Issue("", PurposeLogin); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Issue(\"\") error = %v, want ErrMissingClaim", err)
	}
}

func TestTokenService_ValidUntilExpiry(t *testing.T) {
	svc := newTestTokenService(t)
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("user-1", PurposeRegistration)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	svc.now = func() time.Time { return token.ExpiresAt.Add(-time.Second) }
	if _, err := svc.Validate(token.Value); err != nil {
		t.Errorf("Validate() just before expiry error = %v", err)
	}

	svc.now = func() time.Time { return token.ExpiresAt.Add(time.Second) }
	_, err = svc.Validate(token.Value)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Validate() after expiry error = %v, want ErrExpiredToken", err)
	}
	if errors.Is(err, ErrInvalidToken) {
		t.Error("expired token should not be reported as invalid")
	}
}

func TestTokenService_InvalidTokens(t *testing.T) {
	svc := newTestTokenService(t)

	good, err := svc.Issue("user-1", PurposeLogin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	other, err := NewTokenService([]byte("a-completely-different-secret-32"), testLifetimes)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	foreign, _ := other.Issue("user-1", PurposeLogin)

	parts := strings.Split(good.Value, ".")
	tamperedPayload := parts[0] + "." + parts[1] + "x." + parts[2]

	noneAlg, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	noExpiry, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-1",
	}).SignedString(testSecret)

	noSubject, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(testSecret)

	tests := []struct {
		name  string
		token string
	}{
		{"empty token", ""},
		{"garbage token", "not-a-jwt-token"},
		{"malformed JWT", "header.payload.signature"},
		{"wrong secret", foreign.Value},
		{"tampered payload", tamperedPayload},
		{"alg none", noneAlg},
		{"missing exp", noExpiry},
		{"missing sub", noSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenService_ClaimCarriesOnlyIdentity(t *testing.T) {
	svc := newTestTokenService(t)
	token, err := svc.Issue("user-1", PurposeLogin)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token.Value, claims); err != nil {
		t.Fatalf("ParseUnverified() error = %v", err)
	}

	for key := range claims {
		switch key {
		case "sub", "exp", "iat":
		default:
			t.Errorf("unexpected claim %q in token", key)
		}
	}
}
