// Package services implements the business operations of the auth core on
// top of the repository layer: session lifecycle, credential management, the
// email one-time-code signup flow, and the scraped-data caches.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/config"
	"github.com/marianfedorco24/api/internal/server/models"
	"github.com/marianfedorco24/api/internal/server/repositories/repomanager"
)

// sessionTokenBytes gives 256 bits of entropy per token; collisions are
// impossible by construction for practical purposes.
const sessionTokenBytes = 32

// SessionService is the single source of truth for "is this caller
// authenticated". Every validation is a point lookup against the durable
// store; sessions do not auto-renew on use.
type SessionService struct {
	db               *sql.DB
	repomanager      repomanager.RepositoryManager
	sessionValidity  time.Duration
	rememberValidity time.Duration
	now              func() time.Time
}

// NewSessionService constructs the service with lifespans taken from cfg.
func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:               db,
		repomanager:      m,
		sessionValidity:  cfg.SessionValidity,
		rememberValidity: cfg.RememberValidity,
		now:              time.Now,
	}
}

// Create issues a new session for userID and persists it. The lifespan is
// the remember validity (30 days by default) when remember is set, the
// plain session validity (1 day) otherwise.
func (s *SessionService) Create(ctx context.Context, userID string, remember bool) (*models.Session, error) {
	return s.CreateIn(ctx, s.db, userID, remember)
}

// CreateIn is Create running against the provided DBTX, so signup flows can
// issue the initial session inside the same transaction that creates the
// user row.
func (s *SessionService) CreateIn(ctx context.Context, db dbx.DBTX, userID string, remember bool) (*models.Session, error) {
	token, err := common.MakeRandHexString(sessionTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("error generating session token: %w", err)
	}

	validity := s.sessionValidity
	if remember {
		validity = s.rememberValidity
	}
	expires := s.now().Add(validity)

	repo := s.repomanager.Sessions(db)
	if err := repo.Create(ctx, userID, token, expires); err != nil {
		return nil, fmt.Errorf("error creating session: %w", err)
	}

	return &models.Session{Token: token, UserID: userID, Expires: expires}, nil
}

// Validate resolves a session token to its user id.
//
// An absent token returns common.ErrorInvalidSession. An expired token is
// deleted and returns common.ErrorInvalidSession. A successful validation
// has no side effects. Storage failures surface as wrapped errors distinct
// from ErrorInvalidSession so the boundary never mistakes an outage for a
// logged-out caller.
func (s *SessionService) Validate(ctx context.Context, token string) (string, error) {
	repo := s.repomanager.Sessions(s.db)

	session, err := repo.Find(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", common.ErrorInvalidSession
		}
		return "", fmt.Errorf("error looking up session: %w", err)
	}

	if s.now().After(session.Expires) {
		if err := repo.Delete(ctx, token); err != nil {
			return "", fmt.Errorf("error deleting expired session: %w", err)
		}
		return "", common.ErrorInvalidSession
	}

	return session.UserID, nil
}

// Revoke deletes a single session (logout). Revoking an unknown token is
// not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if err := s.repomanager.Sessions(s.db).Delete(ctx, token); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// RevokeAll deletes every session for a user. Called after a password
// change and before account deletion, forcing re-authentication everywhere.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) error {
	return s.RevokeAllIn(ctx, s.db, userID)
}

// RevokeAllIn is RevokeAll against the provided DBTX so callers can pair
// the revocation with the credential update in a single transaction.
func (s *SessionService) RevokeAllIn(ctx context.Context, db dbx.DBTX, userID string) error {
	if err := s.repomanager.Sessions(db).DeleteAllForUser(ctx, userID); err != nil {
		return fmt.Errorf("error revoking sessions: %w", err)
	}
	return nil
}
