package pendingsignups

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Upsert(ctx context.Context, pending *models.PendingSignup) error {
	query := `
		INSERT INTO pending_signups (token, email, password_hash, code_hash, expires_at, attempts)
		VALUES ($1, $2, $3, $4, $5, 0)
		ON CONFLICT (email) DO UPDATE
		SET token = EXCLUDED.token,
		    password_hash = EXCLUDED.password_hash,
		    code_hash = EXCLUDED.code_hash,
		    expires_at = EXCLUDED.expires_at,
		    attempts = 0
	`
	if _, err := r.db.ExecContext(ctx, query,
		pending.Token, pending.Email, pending.PasswordHash, pending.CodeHash, pending.Expires); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.PendingSignup, error) {
	query := `
		SELECT token, email, password_hash, code_hash, expires_at, attempts
		FROM pending_signups
		WHERE token = $1
	`
	pending := &models.PendingSignup{}
	if err := r.db.QueryRowContext(ctx, query, token).
		Scan(&pending.Token, &pending.Email, &pending.PasswordHash,
			&pending.CodeHash, &pending.Expires, &pending.Attempts); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return pending, nil
}

func (r *PostgresRepository) IncrementAttempts(ctx context.Context, token string) error {
	query := `
		UPDATE pending_signups SET attempts = attempts + 1
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, token string) error {
	query := `
		DELETE FROM pending_signups
		WHERE token = $1
	`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
