package model

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Proof-token context labels. The label is baked into the derived string so a
// verification link can never be replayed as a password reset link.
const (
	ContextVerifyAccount  = "verify-account"
	ContextPasswordReset  = "password-reset"
	contextHashTailLength = 6
)

// User represents a registered account.
type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty"`
	Email        string        `bson:"email"`
	PasswordHash string        `bson:"password_hash"`
	IsActive     bool          `bson:"is_active"`
	VerifiedAt   *time.Time    `bson:"verified_at"`
	CreatedAt    time.Time     `bson:"created_at"`
	UpdatedAt    time.Time     `bson:"updated_at"`
}

// ContextString derives the single-use proof string for account verification
// and password reset links: context label, the last six characters of the
// password hash, and updated_at formatted as MMDDYYYYhhmmss. Any write that
// bumps updated_at or changes the password hash silently invalidates links
// issued before the write; no revocation table is needed.
func (u *User) ContextString(context string) string {
	tail := u.PasswordHash
	if len(tail) > contextHashTailLength {
		tail = tail[len(tail)-contextHashTailLength:]
	}

	return strings.TrimSpace(context + tail + u.UpdatedAt.Format("01022006150405"))
}

// Verified reports whether the account has completed email verification.
func (u *User) Verified() bool {
	return u.VerifiedAt != nil
}
