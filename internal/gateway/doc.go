// Package gateway serves the notes HTTP API.
//
// Public routes create accounts and issue session tokens. Every note route
// sits behind the bearer-token gate in package auth and acts only on the
// caller's own notes. The server listens on plain TCP or, when tailscale is
// enabled, on a tsnet node; an optional gRPC health service tracks store
// reachability.
package gateway
