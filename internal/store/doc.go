// Package store provides persistent storage for notes-gateway.
//
// # Architecture
//
// The package exposes two narrow interfaces composed into Store:
//
//   - UserStore: account records, unique by email
//   - NoteStore: note records, always addressed by (note ID, owner ID)
//
// Three implementations satisfy Store:
//
//   - SQLiteStore: default single-file backend (modernc.org/sqlite, no cgo)
//   - PostgresStore: pgx database/sql driver with goose migrations
//   - MockStore: in-memory store for tests
//
// # Ownership
//
// Every note read, update and delete filters on both the note ID and the
// owner ID. A note owned by someone else is indistinguishable from a
// missing note: both yield ErrNotFound.
//
// # Ordering
//
// ListNotes returns notes in insertion order (SQLite rowid, Postgres seq).
// Pinned-first ordering is applied by the notes service, not here.
//
// # SQLite Configuration
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//	PRAGMA busy_timeout=5000;
//
// # Error Handling
//
//   - ErrNotFound: requested entity does not exist for this owner
//   - ErrDuplicateEmail: a user with the email already exists
//
// All other failures are wrapped with context and treated as internal errors
// by callers. All methods accept context.Context for cancellation support.
//
// # Testing
//
// Use NewMockStore() for unit tests, or NewSQLiteStore(t.TempDir()+"/x.db")
// for integration tests with real SQLite.
package store
