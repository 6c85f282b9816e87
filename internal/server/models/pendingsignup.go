package models

import "time"

// PendingSignup is a signup awaiting email verification. The row holds the
// bcrypt hashes of the password and the 6-digit code, never the plaintexts.
// Attempts counts failed code checks; the row is deleted on success, expiry,
// or after the third failure.
type PendingSignup struct {
	Token        string
	Email        string
	PasswordHash string
	CodeHash     string
	Expires      time.Time
	Attempts     int
}
