// Package config handles configuration loading for notes-gateway.
//
// # Overview
//
// Configuration is loaded from a YAML file (or TOML when the file name ends in
// .toml) with environment variable expansion, defaults and validation.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from the --config flag
//  2. Path from NOTES_CONFIG environment variable
//  3. $XDG_CONFIG_HOME/notes-gateway/config.yaml (~/.config if unset)
//
// A .env file in the working directory is loaded before the config is read.
//
// # Environment Variable Expansion
//
//	auth:
//	  jwt_secret: "${NOTES_JWT_SECRET}"
//
// Unset variables expand to the empty string.
//
// # Configuration Sections
//
//	server:
//	  http_addr: "0.0.0.0:8000"
//	  grpc_addr: ""              # optional gRPC health service
//	  allowed_origins: ["*"]
//	  request_timeout: "15s"
//
//	database:
//	  driver: "sqlite"           # sqlite or postgres
//	  path: "~/.local/share/notes-gateway/notes.db"
//	  dsn: "${DATABASE_URL}"     # postgres only
//
//	auth:
//	  jwt_secret: "${NOTES_JWT_SECRET}"   # at least 32 bytes
//	  registration_token_ttl: "3000m"
//	  login_token_ttl: "36000m"
//	  bcrypt_cost: 10
//
//	tailscale:
//	  enabled: false
//	  hostname: "notes"
//	  auth_key: "${TS_AUTHKEY}"
//
//	export:
//	  enabled: false
//	  bucket: "notes-exports"
//	  region: "us-east-1"
//	  endpoint: ""               # set for MinIO
//	  url_expiry: "15m"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
