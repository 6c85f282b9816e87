package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marianfedorco24/api/internal/common"
	"github.com/marianfedorco24/api/internal/dbx"
	"github.com/marianfedorco24/api/internal/server/config"
	"github.com/marianfedorco24/api/internal/server/mail"
	"github.com/marianfedorco24/api/internal/server/models"
	"github.com/marianfedorco24/api/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// pendingTokenBytes sizes the opaque pending-signup token (hex encoded).
const pendingTokenBytes = 32

// maxCodeAttempts is the number of failed verification-code checks allowed
// before the pending signup is discarded.
const maxCodeAttempts = 3

// dummyPasswordHash is a valid bcrypt hash compared against when the looked
// up account is missing or has no password, keeping the work factor of
// failed logins uniform.
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// UserService manages credentials: registration (direct and with email
// verification), authentication, password changes, account deletion, and
// external-identity linking. Multi-statement flows run in a single
// transaction through dbx.WithTx.
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	sessions        *SessionService
	mail            mail.Sender
	pendingValidity time.Duration
	now             func() time.Time
}

// NewUserService constructs the service. The mail sender is an injected
// collaborator; it may be nil only when the verification flow is disabled.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, sessions *SessionService, sender mail.Sender, cfg *config.Config) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		sessions:        sessions,
		mail:            sender,
		pendingValidity: cfg.PendingSignupValidity,
		now:             time.Now,
	}
}

// Register creates an account with the given credentials and issues its
// first session, both inside one transaction.
//
// If an account with that email already holds a password, it returns
// common.ErrorConflict. If the account exists from an external-identity
// login without a password, the hash is attached to that account instead
// of creating a duplicate.
func (s *UserService) Register(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	var session *models.Session

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = s.upsertPasswordUser(ctx, tx, email, string(hash))
		if err != nil {
			return err
		}
		session, err = s.sessions.CreateIn(ctx, tx, user.ID, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// RegisterWithVerification starts the two-phase signup: it validates the
// credentials, stores their hashes alongside a hashed 6-digit code, and
// dispatches the code by email. The returned opaque token goes into a
// short-lived cookie distinct from the session cookie.
//
// Mail dispatch is synchronous; on failure the pending row is discarded and
// the error surfaces, so a token is never issued without a deliverable code.
func (s *UserService) RegisterWithVerification(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	if err := ValidatePassword(password); err != nil {
		return "", err
	}

	// Reject emails that already hold a password up front, same rule as
	// the direct flow.
	existing, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return "", fmt.Errorf("error checking email: %w", err)
	}
	if existing != nil && existing.HasPassword() {
		return "", common.ErrorConflict
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	code, err := common.MakeVerificationCode()
	if err != nil {
		return "", fmt.Errorf("error generating code: %w", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("error hashing code: %w", err)
	}

	token, err := common.MakeRandHexString(pendingTokenBytes)
	if err != nil {
		return "", fmt.Errorf("error generating pending token: %w", err)
	}

	pending := &models.PendingSignup{
		Token:        token,
		Email:        email,
		PasswordHash: string(passwordHash),
		CodeHash:     string(codeHash),
		Expires:      s.now().Add(s.pendingValidity),
	}

	repo := s.repomanager.PendingSignups(s.db)
	if err := repo.Upsert(ctx, pending); err != nil {
		return "", fmt.Errorf("error storing pending signup: %w", err)
	}

	if err := s.mail.SendVerificationCode(ctx, email, code); err != nil {
		// Best effort: the row would expire on its own anyway.
		_ = repo.Delete(ctx, token)
		return "", fmt.Errorf("%w: %w", common.ErrorMailDelivery, err)
	}

	return token, nil
}

// ConfirmCode finishes the two-phase signup. On a matching code it creates
// (or links) the account, deletes the pending row, and issues the first
// session, all in one transaction.
//
// An unknown token returns common.ErrorNotFound. A token past its expiry is
// deleted and returns common.ErrorSignupExpired. When the attempt budget is
// already spent the row is deleted and common.ErrorTooManyAttempts returns
// without re-checking the code. A wrong code increments the attempt counter
// and returns common.ErrorCodeMismatch.
func (s *UserService) ConfirmCode(ctx context.Context, pendingToken, code string) (*models.User, *models.Session, error) {
	if err := ValidateCode(code); err != nil {
		return nil, nil, err
	}

	repo := s.repomanager.PendingSignups(s.db)

	pending, err := repo.Find(ctx, pendingToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, fmt.Errorf("error looking up pending signup: %w", err)
	}

	if s.now().After(pending.Expires) {
		_ = repo.Delete(ctx, pendingToken)
		return nil, nil, common.ErrorSignupExpired
	}

	// Fail closed once the budget is spent, before touching the code.
	if pending.Attempts >= maxCodeAttempts {
		_ = repo.Delete(ctx, pendingToken)
		return nil, nil, common.ErrorTooManyAttempts
	}

	if err := bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(code)); err != nil {
		if incErr := repo.IncrementAttempts(ctx, pendingToken); incErr != nil {
			return nil, nil, fmt.Errorf("error recording failed attempt: %w", incErr)
		}
		return nil, nil, common.ErrorCodeMismatch
	}

	var user *models.User
	var session *models.Session

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		user, err = s.upsertPasswordUser(ctx, tx, pending.Email, pending.PasswordHash)
		if err != nil {
			return err
		}
		if err := s.repomanager.PendingSignups(tx).Delete(ctx, pendingToken); err != nil {
			return err
		}
		session, err = s.sessions.CreateIn(ctx, tx, user.ID, false)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

// Authenticate verifies an email/password pair. A missing account, an
// account without a password, and a wrong password are indistinguishable:
// all return common.ErrorInvalidCredentials after a bcrypt comparison of
// uniform cost.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
			return nil, common.ErrorInvalidCredentials
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}

	if !user.HasPassword() {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyPasswordHash), []byte(password))
		return nil, common.ErrorInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash.String), []byte(password)); err != nil {
		return nil, common.ErrorInvalidCredentials
	}

	return user, nil
}

// ChangePassword replaces the stored hash and revokes every session of the
// user, including the caller's, in one transaction.
func (s *UserService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Users(tx).UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
			return err
		}
		return s.sessions.RevokeAllIn(ctx, tx, userID)
	})
}

// DeleteAccount revokes all sessions and deletes the user row as a single
// atomic unit. Returns common.ErrorNotFound when the user does not exist;
// the transaction rolls back in that case.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.sessions.RevokeAllIn(ctx, tx, userID); err != nil {
			return err
		}
		return s.repomanager.Users(tx).Delete(ctx, userID)
	})
}

// LinkExternalIdentity resolves the account for a verified email+subject
// pair delivered by the external identity provider. Lookup order: by
// subject id, then by email (attaching the subject id), then a fresh
// password-less account.
func (s *UserService) LinkExternalIdentity(ctx context.Context, email, externalID string) (*models.User, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if externalID == "" {
		return nil, fmt.Errorf("%w: external id", common.ErrorInvalidInput)
	}

	var user *models.User

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		existing, err := repo.GetByExternalID(ctx, externalID)
		if err == nil {
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error looking up external id: %w", err)
		}

		existing, err = repo.GetByEmail(ctx, email)
		if err == nil {
			if err := repo.UpdateExternalID(ctx, existing.ID, externalID); err != nil {
				return err
			}
			existing.ExternalID = sql.NullString{String: externalID, Valid: true}
			user = existing
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("error looking up email: %w", err)
		}

		user, err = repo.Create(ctx, &models.User{
			ID:         uuid.NewString(),
			Email:      email,
			ExternalID: sql.NullString{String: externalID, Valid: true},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetUser returns the account record for userID.
func (s *UserService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error looking up user: %w", err)
	}
	return user, nil
}

// upsertPasswordUser applies the identity-linking rule shared by both
// signup flows: attach the hash to an existing password-less account, or
// create a new row; an account that already holds a password conflicts.
func (s *UserService) upsertPasswordUser(ctx context.Context, tx dbx.DBTX, email, passwordHash string) (*models.User, error) {
	repo := s.repomanager.Users(tx)

	existing, err := repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.HasPassword() {
			return nil, common.ErrorConflict
		}
		if err := repo.UpdatePasswordHash(ctx, existing.ID, passwordHash); err != nil {
			return nil, err
		}
		existing.PasswordHash = sql.NullString{String: passwordHash, Valid: true}
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking email: %w", err)
	}

	return repo.Create(ctx, &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: sql.NullString{String: passwordHash, Valid: true},
	})
}
