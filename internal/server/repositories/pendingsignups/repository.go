// Package pendingsignups declares the repository contract for unconfirmed
// signups awaiting email verification.
package pendingsignups

import (
	"context"

	"github.com/marianfedorco24/api/internal/server/models"
)

// Repository defines persistence operations for pending signups.
type Repository interface {
	// Upsert stores the pending signup. A repeated signup for the same
	// email replaces the previous row, resetting attempts and expiry.
	Upsert(ctx context.Context, pending *models.PendingSignup) error

	// Find looks up a pending signup by its opaque token.
	// Returns common.ErrorNotFound when absent.
	Find(ctx context.Context, token string) (*models.PendingSignup, error)

	// IncrementAttempts adds one failed code check to the row.
	IncrementAttempts(ctx context.Context, token string) error

	// Delete removes the pending signup. Deleting a non-existent token is
	// not an error.
	Delete(ctx context.Context, token string) error
}
