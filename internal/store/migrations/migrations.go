// ABOUTME: Embedded goose migrations for the Postgres backend
// ABOUTME: Files are applied in numeric order by store.NewPostgresStore

package migrations

import "embed"

// FS holds the SQL migration files
//
//go:embed *.sql
var FS embed.FS
