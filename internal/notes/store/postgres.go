package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"noteboard/internal/notes/models"
	"noteboard/internal/platform/postgres"
)

// Postgres persists notes in PostgreSQL, one row per note. Approve and delete
// are single statements, so per-row atomicity comes from the database; there
// is no row versioning and a concurrent approve/delete race resolves to
// whichever write lands last.
type Postgres struct {
	pool *postgres.Pool
}

func NewPostgres(pool *postgres.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// Migrate creates the notes table. Idempotent; called once at startup.
func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notes (
			id          UUID PRIMARY KEY,
			note        TEXT NOT NULL,
			receiver_id TEXT NOT NULL,
			author_id   TEXT NOT NULL,
			is_approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS notes_receiver_approved_idx
			ON notes (receiver_id, is_approved, created_at);
	`)
	if err != nil {
		return fmt.Errorf("migrate notes table: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, note *models.Note) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO notes (id, note, receiver_id, author_id, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		note.ID, note.Body, note.RecipientHandle, note.AuthorHandle, note.Approved, note.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert note: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, note, receiver_id, author_id, is_approved, created_at
		FROM notes WHERE id = $1`, id)
	return scanNote(row, "find note")
}

// ListByRecipient returns the recipient's notes matching the approval flag in
// insertion order.
func (s *Postgres) ListByRecipient(ctx context.Context, recipientHandle string, approved bool) ([]*models.Note, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, note, receiver_id, author_id, is_approved, created_at
		FROM notes
		WHERE receiver_id = $1 AND is_approved = $2
		ORDER BY created_at, id`,
		recipientHandle, approved,
	)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows, "list notes")
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

// SetApproved flips the approval flag and returns the updated row. The update
// is unconditional on the current flag, so re-approving is a no-op success.
func (s *Postgres) SetApproved(ctx context.Context, id uuid.UUID) (*models.Note, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE notes SET is_approved = TRUE
		WHERE id = $1
		RETURNING id, note, receiver_id, author_id, is_approved, created_at`, id)
	return scanNote(row, "approve note")
}

// Delete removes the row and reports absence via RowsAffected so a no-effect
// delete is never misreported as success.
func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanNote(row pgx.Row, op string) (*models.Note, error) {
	var note models.Note
	err := row.Scan(&note.ID, &note.Body, &note.RecipientHandle, &note.AuthorHandle, &note.Approved, &note.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &note, nil
}
