// Package mail defines the outbound mail capability used by the signup
// verification flow and its SMTP implementation.
package mail

import "context"

// Sender dispatches a one-time verification code to an email address.
// The call is synchronous: a delivery failure must be reported as an error
// so the caller never hands out a pending-signup token the user cannot
// confirm. Implementations must not log the code.
type Sender interface {
	SendVerificationCode(ctx context.Context, to string, code string) error
}
