// Package authtokens provides a PostgreSQL-backed registry for the session
// tokens used in the server's authentication flow.
package authtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/delcom/marketplace/internal/common"
	"github.com/delcom/marketplace/internal/dbx"
	"github.com/delcom/marketplace/internal/server/models"
)

// PostgresRepository implements the session token registry over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Find returns the registry row for the given token string.
// If not found, it returns common.ErrorNotFound.
func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.AuthToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM auth_tokens
		WHERE token = $1
	`
	row := &models.AuthToken{}
	if err := r.db.QueryRowContext(ctx, query, token).Scan(&row.ID, &row.UserID, &row.Token, &row.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// FindByUserID returns the user's current registry row.
// If the user holds no token, it returns common.ErrorNotFound.
func (r *PostgresRepository) FindByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	query := `
		SELECT id, user_id, token, created_at
		FROM auth_tokens
		WHERE user_id = $1
	`
	row := &models.AuthToken{}
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&row.ID, &row.UserID, &row.Token, &row.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return row, nil
}

// Save records token as belonging to userID. The token column is unique;
// re-registering the same string rebinds it to the given user.
func (r *PostgresRepository) Save(ctx context.Context, userID string, token string) error {
	query := `
		INSERT INTO auth_tokens (user_id, token)
		VALUES ($1, $2)
		ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, created_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query, userID, token); err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	return nil
}

// DeleteByToken removes a registry row by its token string.
func (r *PostgresRepository) DeleteByToken(ctx context.Context, token string) error {
	query := `
		DELETE FROM auth_tokens
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
