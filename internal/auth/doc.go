// Package auth provides bearer-token authentication for notes-gateway.
//
// # Tokens
//
// TokenService issues and validates HS256 JWTs. A token carries only the
// user ID (sub) and its expiry (exp); profile data is always re-read from the
// account store. Lifetimes are configured per issuance purpose:
//
//	auth:
//	  registration_token_ttl: "3000m"
//	  login_token_ttl: "36000m"
//
// Validate returns ErrExpiredToken for an expired but otherwise well-formed
// token and an error wrapping ErrInvalidToken for anything else.
//
// # Access Gate
//
// Gate moves each request through
//
//	unauthenticated -> token_present -> validated
//	                                 \-> rejected
//
// Rejected requests receive 401 with {"error":true,"message":"<reason>"} and
// the wrapped handler is never invoked. Validated requests carry an
// AuthContext retrievable with FromContext.
//
// # Usage
//
//	tokens, err := auth.NewTokenService(secret, auth.Lifetimes{Registration: 50 * time.Hour, Login: 600 * time.Hour})
//	gate := auth.NewGate(tokens, logger)
//	mux.Handle("GET /get-all-notes", gate.Middleware(handler))
package auth
