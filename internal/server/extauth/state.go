package extauth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrBadState marks a missing, tampered, or expired state parameter. The
// boundary maps it to 401.
var ErrBadState = errors.New("invalid oauth state")

// stateTTL bounds how long a login redirect stays usable.
const stateTTL = 5 * time.Minute

// stateSigner issues and verifies the OAuth state parameter as a compact
// HS256 JWT: self-contained, so no server-side state survives the redirect
// round-trip.
type stateSigner struct {
	secret []byte
	now    func() time.Time
}

func newStateSigner(secret []byte) *stateSigner {
	return &stateSigner{secret: secret, now: time.Now}
}

func (s *stateSigner) Issue() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("error signing state: %w", err)
	}
	return signed, nil
}

func (s *stateSigner) Verify(state string) error {
	if state == "" {
		return ErrBadState
	}
	_, err := jwt.ParseWithClaims(state, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadState, err)
	}
	return nil
}
