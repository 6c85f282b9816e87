package models

import "time"

// Session maps an opaque token to a user until Expires. A session is valid
// iff the row exists and now <= Expires; expired rows are deleted lazily on
// lookup.
type Session struct {
	Token     string
	UserID    string
	Expires   time.Time
	CreatedAt time.Time
}
