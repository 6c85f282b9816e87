// Package sessions declares the repository contract for the durable session
// store. There is no in-memory cache on top: every validation is a point
// lookup against this store.
package sessions

import (
	"context"
	"time"

	"github.com/marianfedorco24/api/internal/server/models"
)

// Repository defines operations for issuing, retrieving, and revoking
// sessions.
type Repository interface {
	// Create stores a new session token for userID expiring at expires.
	Create(ctx context.Context, userID string, token string, expires time.Time) error

	// Find looks up a session by its opaque token.
	// Returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.Session, error)

	// Delete removes a single session by token. Deleting a non-existent
	// token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteAllForUser removes every session belonging to userID.
	DeleteAllForUser(ctx context.Context, userID string) error
}
