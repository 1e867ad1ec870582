// ABOUTME: PostgreSQL implementation of the Store interface using pgx's database/sql driver
// ABOUTME: Schema is managed by embedded goose migrations applied on startup

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/2389/notes-gateway/internal/store/migrations"
)

// PostgresStore implements the Store interface on PostgreSQL
type PostgresStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// gooseUp is a seam so tests can skip real migrations
var gooseUp = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// NewPostgresStore connects to the database at dsn and applies pending migrations.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := gooseUp(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s := newPostgresStore(db)
	s.logger.Info("Postgres store initialized")
	return s, nil
}

// newPostgresStore wraps an open connection without migrating it
func newPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: slog.Default().With("component", "store", "driver", "postgres"),
	}
}

// CreateUser inserts a new user
func (s *PostgresStore) CreateUser(ctx context.Context, user *User) error {
	query := `INSERT INTO users (id, full_name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`

	_, err := s.db.ExecContext(ctx, query, user.ID, user.FullName, user.Email, user.PasswordHash, user.CreatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (s *PostgresStore) GetUser(ctx context.Context, id string) (*User, error) {
	query := `SELECT id, full_name, email, password_hash, created_at FROM users WHERE id = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, id))
}

// GetUserByEmail retrieves a user by email
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT id, full_name, email, password_hash, created_at FROM users WHERE email = $1`
	return s.scanUser(s.db.QueryRowContext(ctx, query, email))
}

func (s *PostgresStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &user, nil
}

// CreateNote inserts a new note
func (s *PostgresStore) CreateNote(ctx context.Context, note *Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `INSERT INTO notes (id, user_id, title, content, tags, is_pinned, created_at) VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`

	if _, err := s.db.ExecContext(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, tags, note.IsPinned, note.CreatedAt.UTC(),
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// GetNote retrieves a note owned by userID
func (s *PostgresStore) GetNote(ctx context.Context, id, userID string) (*Note, error) {
	query := `SELECT id, user_id, title, content, tags, is_pinned, created_at FROM notes WHERE id = $1 AND user_id = $2`

	note, err := scanPostgresNote(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// UpdateNote overwrites the mutable fields of a note owned by note.UserID
func (s *PostgresStore) UpdateNote(ctx context.Context, note *Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `UPDATE notes SET title = $1, content = $2, tags = $3::jsonb, is_pinned = $4 WHERE id = $5 AND user_id = $6`

	result, err := s.db.ExecContext(ctx, query, note.Title, note.Content, tags, note.IsPinned, note.ID, note.UserID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(result)
}

// DeleteNote removes a note owned by userID
func (s *PostgresStore) DeleteNote(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(result)
}

// ListNotes returns every note owned by userID in insertion order
func (s *PostgresStore) ListNotes(ctx context.Context, userID string) ([]*Note, error) {
	query := `SELECT id, user_id, title, content, tags, is_pinned, created_at FROM notes WHERE user_id = $1 ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		note, err := scanPostgresNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return notes, nil
}

// Ping checks the database connection
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func scanPostgresNote(row rowScanner) (*Note, error) {
	var note Note
	var tags []byte

	if err := row.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &tags, &note.IsPinned, &note.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if note.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	return &note, nil
}

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

var _ Store = (*PostgresStore)(nil)
