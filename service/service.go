// Package service holds the account, password and note use cases. Services
// return sentinel errors from the errors package; unexpected failures are
// logged here and surfaced as errors.ErrInternal.
package service

import (
	"time"

	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/errors"
)

// SessionIssuer signs session tokens for authenticated users
type SessionIssuer interface {
	IssueSessionToken(userID string) (string, error)
}

func utcNow() time.Time {
	return time.Now().UTC()
}

// hashPassword maps bcrypt's length limit to an input error
func hashPassword(password string, cost int) (string, error) {
	hash, err := crypto.HashPassword(password, cost)
	if errors.Is(err, crypto.ErrPasswordTooLong) {
		return "", errors.NewValidationError("password", "Password must not exceed 72 bytes")
	}
	return hash, err
}
