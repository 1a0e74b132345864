package crypto

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost matches the cost used for hashes created before the Go rewrite,
// so existing $2a$/$2b$ hashes keep verifying without a rehash.
const DefaultCost = 10

// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte limit
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword hashes a password using bcrypt with the specified cost.
// Passwords longer than 72 bytes are rejected by bcrypt.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(bytes), nil
}

// CheckPassword compares plain text password with a hashed password
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NeedsCostUpdate reports whether hash was made with a cost below desiredCost.
// Stronger hashes are left alone.
func NeedsCostUpdate(hash string, desiredCost int) (bool, error) {
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, err
	}
	return cost < desiredCost, nil
}
