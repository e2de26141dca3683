// Package notes provides the PostgreSQL-backed repository for encrypted
// notes. It stores what the envelope layer produced and nothing else; every
// query is scoped by the owning user id.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/server/models"
)

const noteColumns = `id, user_id, encrypted_content, encryption_key, iv, tape_color, created_at, updated_at`

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*models.Note, error) {
	n := &models.Note{}
	err := row.Scan(&n.ID, &n.UserID, &n.EncryptedContent, &n.EncryptionKey, &n.IV, &n.TapeColor, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts a sealed note and returns it with database timestamps.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `INSERT INTO notes (id, user_id, encrypted_content, encryption_key, iv, tape_color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.EncryptedContent, note.EncryptionKey, note.IV, note.TapeColor,
	).Scan(&note.CreatedAt, &note.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

// GetByUser returns the note only if it belongs to userID, otherwise
// common.ErrorNotFound.
func (r *PostgresRepository) GetByUser(ctx context.Context, userID, noteID string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = $1 AND user_id = $2`

	n, err := scanNote(r.db.QueryRowContext(ctx, query, noteID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// ListByUser returns all notes of userID, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	var result []*models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateContent writes new ciphertext, IV and tape color in one statement.
// The wrapped key column is not touched.
func (r *PostgresRepository) UpdateContent(ctx context.Context, note *models.Note) (*models.Note, error) {
	query := `UPDATE notes
		SET encrypted_content = $3, iv = $4, tape_color = $5, updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + noteColumns

	n, err := scanNote(r.db.QueryRowContext(ctx, query,
		note.ID, note.UserID, note.EncryptedContent, note.IV, note.TapeColor))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// UpdateKey replaces the wrapped note key. Only key rotation calls it.
func (r *PostgresRepository) UpdateKey(ctx context.Context, userID, noteID, encryptionKey string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notes SET encryption_key = $3 WHERE id = $1 AND user_id = $2`,
		noteID, userID, encryptionKey)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the note owned by userID.
func (r *PostgresRepository) Delete(ctx context.Context, userID, noteID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1 AND user_id = $2`, noteID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
