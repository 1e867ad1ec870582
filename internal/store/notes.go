// ABOUTME: SQLite persistence for notes
// ABOUTME: Every statement filters on (id, user_id) so other owners' notes never match

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// CreateNote inserts a new note
func (s *SQLiteStore) CreateNote(ctx context.Context, note *Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notes (id, user_id, title, content, tags, is_pinned, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		note.ID,
		note.UserID,
		note.Title,
		note.Content,
		tags,
		note.IsPinned,
		formatTime(note.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}

	return nil
}

// GetNote retrieves a note owned by userID
func (s *SQLiteStore) GetNote(ctx context.Context, id, userID string) (*Note, error) {
	query := `
		SELECT id, user_id, title, content, tags, is_pinned, created_at
		FROM notes
		WHERE id = ? AND user_id = ?
	`

	note, err := scanNote(s.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying note: %w", err)
	}
	return note, nil
}

// UpdateNote overwrites the mutable fields of a note owned by note.UserID
func (s *SQLiteStore) UpdateNote(ctx context.Context, note *Note) error {
	tags, err := encodeTags(note.Tags)
	if err != nil {
		return err
	}

	query := `
		UPDATE notes
		SET title = ?, content = ?, tags = ?, is_pinned = ?
		WHERE id = ? AND user_id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		note.Title,
		note.Content,
		tags,
		note.IsPinned,
		note.ID,
		note.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}

	return requireOneRow(result)
}

// DeleteNote removes a note owned by userID
func (s *SQLiteStore) DeleteNote(ctx context.Context, id, userID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting note: %w", err)
	}

	return requireOneRow(result)
}

// ListNotes returns every note owned by userID in insertion order
func (s *SQLiteStore) ListNotes(ctx context.Context, userID string) ([]*Note, error) {
	query := `
		SELECT id, user_id, title, content, tags, is_pinned, created_at
		FROM notes
		WHERE user_id = ?
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating notes: %w", err)
	}

	return notes, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*Note, error) {
	var note Note
	var tags, createdAt string

	if err := row.Scan(
		&note.ID,
		&note.UserID,
		&note.Title,
		&note.Content,
		&tags,
		&note.IsPinned,
		&createdAt,
	); err != nil {
		return nil, err
	}

	var err error
	if note.Tags, err = decodeTags([]byte(tags)); err != nil {
		return nil, err
	}
	if note.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &note, nil
}

// requireOneRow maps a zero-row update or delete to ErrNotFound
func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
