package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/marianfedorco24/api/internal/common"
)

// emailPattern accepts local@domain.tld with the usual unquoted local-part
// characters. Intentionally stricter than RFC 5322; quoted locals and
// TLD-less domains are rejected.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

const (
	minEmailLen    = 6 // a@b.cd
	maxEmailLen    = 254
	minPasswordLen = 5
	maxPasswordLen = 50
)

// NormalizeEmail trims surrounding whitespace. Emails are stored
// case-sensitively, so no folding happens here.
func NormalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

// ValidateEmail checks the shape of an already-normalized email address.
// It runs before any storage access.
func ValidateEmail(email string) error {
	if len(email) < minEmailLen || len(email) > maxEmailLen {
		return fmt.Errorf("%w: email length", common.ErrorInvalidInput)
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("%w: email format", common.ErrorInvalidInput)
	}
	return nil
}

// ValidatePassword checks password length and character set: 5 to 50
// printable ASCII characters, no spaces or control characters.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return fmt.Errorf("%w: password length", common.ErrorInvalidInput)
	}
	for _, c := range password {
		if c <= ' ' || c > '~' {
			return fmt.Errorf("%w: password characters", common.ErrorInvalidInput)
		}
	}
	return nil
}

// ValidateCode checks the shape of a 6-digit verification code.
func ValidateCode(code string) error {
	if len(code) != 6 {
		return fmt.Errorf("%w: code length", common.ErrorInvalidInput)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: code characters", common.ErrorInvalidInput)
		}
	}
	return nil
}
