// Package users declares the repository contract for account records.
package users

import (
	"context"

	"github.com/marianfedorco24/api/internal/server/models"
)

// Repository defines persistence operations for user accounts.
type Repository interface {
	// Create inserts a new user row. The caller assigns the ID.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID looks up a user by primary key.
	// Returns common.ErrorNotFound when absent.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// GetByEmail looks up a user by email (exact match, as stored).
	// Returns common.ErrorNotFound when absent.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByExternalID looks up a user by external-identity subject id.
	// Returns common.ErrorNotFound when absent.
	GetByExternalID(ctx context.Context, externalID string) (*models.User, error)

	// UpdatePasswordHash replaces the stored password hash.
	UpdatePasswordHash(ctx context.Context, id string, hash string) error

	// UpdateExternalID attaches an external-identity subject id to an
	// existing account.
	UpdateExternalID(ctx context.Context, id string, externalID string) error

	// Delete removes the user row. Sessions cascade at the schema level,
	// but callers still revoke them explicitly inside the same transaction.
	// Returns common.ErrorNotFound when no row was deleted.
	Delete(ctx context.Context, id string) error
}
