// ABOUTME: JWT issuance and validation for bearer authentication
// ABOUTME: Uses HS256 signing; tokens carry only the user ID and expiry

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the minimum HS256 secret size in bytes
const MinSecretLength = 32

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Purpose identifies the flow a token is issued for. Each purpose has its own lifetime.
type Purpose string

const (
	PurposeRegistration Purpose = "registration"
	PurposeLogin        Purpose = "login"
)

// Lifetimes holds the configured token lifetime per issuance purpose
type Lifetimes struct {
	Registration time.Duration
	Login        time.Duration
}

// Token is a signed bearer token and its expiry
type Token struct {
	Value     string
	ExpiresAt time.Time
}

// Claim is the verified content of a token
type Claim struct {
	UserID    string
	ExpiresAt time.Time
}

// TokenValidator validates bearer tokens
type TokenValidator interface {
	Validate(tokenString string) (*Claim, error)
}

// TokenService issues and validates HS256 signed JWTs
type TokenService struct {
	secret    []byte
	lifetimes Lifetimes
	now       func() time.Time
}

// NewTokenService creates a token service. The secret must be at least MinSecretLength bytes
// and both lifetimes must be positive.
func NewTokenService(secret []byte, lifetimes Lifetimes) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d bytes, got %d", MinSecretLength, len(secret))
	}
	if lifetimes.Registration <= 0 || lifetimes.Login <= 0 {
		return nil, errors.New("token lifetimes must be positive")
	}
	return &TokenService{
		secret:    secret,
		lifetimes: lifetimes,
		now:       time.Now,
	}, nil
}

// lifetime returns the configured lifetime for a purpose
func (s *TokenService) lifetime(p Purpose) (time.Duration, error) {
	switch p {
	case PurposeRegistration:
		return s.lifetimes.Registration, nil
	case PurposeLogin:
		return s.lifetimes.Login, nil
	default:
		return 0, fmt.Errorf("unknown token purpose %q", p)
	}
}

// Issue signs a token for userID whose expiry is set by the purpose's lifetime
func (s *TokenService) Issue(userID string, purpose Purpose) (*Token, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	ttl, err := s.lifetime(purpose)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	// NumericDate drops sub-second precision
	return &Token{Value: signed, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Validate verifies the signature and expiry and returns the claim
func (s *TokenService) Validate(tokenString string) (*Claim, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: %w: sub", ErrInvalidToken, ErrMissingClaim)
	}

	return &Claim{UserID: claims.Subject, ExpiresAt: claims.ExpiresAt.Time}, nil
}
