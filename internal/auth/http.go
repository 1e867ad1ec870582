// ABOUTME: HTTP access gate for bearer-token authentication on protected endpoints
// ABOUTME: Extracts the JWT from the Authorization header and adds the caller to context

package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
)

// GateState is the position of a request in the access gate's state machine
type GateState string

const (
	StateUnauthenticated GateState = "unauthenticated"
	StateTokenPresent    GateState = "token_present"
	StateValidated       GateState = "validated"
	StateRejected        GateState = "rejected"
)

// Decision is the outcome of running a request through the gate
type Decision struct {
	State  GateState
	Claim  *Claim // set when State is StateValidated
	Reason string // set when State is StateRejected
}

// Gate rejects requests without a valid bearer token. Validation is stateless;
// the gate never touches the store.
type Gate struct {
	tokens TokenValidator
	logger *slog.Logger
}

// NewGate creates an access gate backed by the given validator
func NewGate(tokens TokenValidator, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{tokens: tokens, logger: logger.With("component", "access_gate")}
}

// extractBearerToken extracts a bearer token from the Authorization header.
// Returns the token and an error message (empty if successful).
func extractBearerToken(authHeader string) (string, string) {
	if authHeader == "" {
		return "", "missing authorization header"
	}
	scheme, token, found := strings.Cut(authHeader, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "invalid authorization header format"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", "empty token"
	}
	return token, ""
}

// Evaluate runs an Authorization header value through the gate
func (g *Gate) Evaluate(authHeader string) Decision {
	token, errMsg := extractBearerToken(authHeader)
	if errMsg != "" {
		return Decision{State: StateRejected, Reason: errMsg}
	}

	// StateTokenPresent: hand the token to the validator
	claim, err := g.tokens.Validate(token)
	if err != nil {
		if errors.Is(err, ErrExpiredToken) {
			return Decision{State: StateRejected, Reason: "token expired"}
		}
		return Decision{State: StateRejected, Reason: "invalid token"}
	}

	return Decision{State: StateValidated, Claim: claim}
}

// Middleware rejects unauthenticated requests with 401 before next is invoked.
// On success the caller's AuthContext is attached to the request context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		decision := g.Evaluate(r.Header.Get("Authorization"))
		if decision.State != StateValidated {
			g.logger.Debug("request rejected", "path", r.URL.Path, "reason", decision.Reason)
			writeUnauthorized(w, decision.Reason)
			return
		}

		authCtx := &AuthContext{
			UserID:    decision.Claim.UserID,
			ExpiresAt: decision.Claim.ExpiresAt,
		}
		next.ServeHTTP(w, r.WithContext(WithAuth(r.Context(), authCtx)))
	})
}

// writeUnauthorized writes a 401 in the same error envelope the API uses
func writeUnauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="notes"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}{Error: true, Message: reason})
}
