// Package users provides the PostgreSQL-backed user repository. The user
// row carries the salt every note key of that user depends on.
package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notespal/internal/common"
	"github.com/dmitrijs2005/notespal/internal/dbx"
	"github.com/dmitrijs2005/notespal/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the user and fills CreatedAt from the database.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query := `INSERT INTO users (id, customer_id, email, first_name, last_name, salt, subscribed_till)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.CustomerID, user.Email, user.FirstName, user.LastName, user.Salt, user.SubscribedTill,
	).Scan(&user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

const userColumns = `id, customer_id, email, first_name, last_name, salt, subscribed_till, created_at`

// GetByID returns common.ErrorNotFound when there is no such user.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetForUpdate is GetByID holding a row lock until the surrounding
// transaction ends. Salt rotation takes it before re-wrapping keys.
func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetForShare is GetByID holding a shared row lock, so a note can be
// sealed under the salt without a concurrent rotation replacing it.
func (r *PostgresRepository) GetForShare(ctx context.Context, id string) (*models.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR SHARE`, id)
}

func (r *PostgresRepository) get(ctx context.Context, query string, id string) (*models.User, error) {
	u := &models.User{}
	var till sql.NullTime
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.CustomerID, &u.Email, &u.FirstName, &u.LastName, &u.Salt, &till, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if till.Valid {
		u.SubscribedTill = &till.Time
	}
	return u, nil
}

// UpdateSalt replaces the user's salt. It must run in the same transaction
// that re-wraps the user's note keys.
func (r *PostgresRepository) UpdateSalt(ctx context.Context, id string, salt string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET salt = $2 WHERE id = $1`, id, salt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// Delete removes the user; notes go with it through ON DELETE CASCADE.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
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
