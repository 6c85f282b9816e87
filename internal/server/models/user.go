// Package models defines server-side data models persisted in the database.
package models

import (
	"database/sql"
	"time"
)

// User is an account record. PasswordHash is empty for accounts created
// through an external identity provider only; ExternalID is empty for
// password-only accounts. At least one of the two is always set.
type User struct {
	ID           string
	Email        string
	PasswordHash sql.NullString
	ExternalID   sql.NullString
	CreatedAt    time.Time
}

// HasPassword reports whether the account has a usable password.
func (u *User) HasPassword() bool {
	return u.PasswordHash.Valid && u.PasswordHash.String != ""
}
