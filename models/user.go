package models

import "time"

// User represents a user in the system
type User struct {
	ID                string     `json:"id" db:"id"`
	Name              *string    `json:"name,omitempty" db:"name"`
	Email             string     `json:"email" db:"email"`
	PasswordHash      string     `json:"-" db:"password_hash"`
	ResetToken        *string    `json:"-" db:"reset_token"`
	ResetTokenExpires *time.Time `json:"-" db:"reset_token_expires"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// HasResetToken reports whether a reset token is pending on the account.
// Token and expiry are always set and cleared together.
func (u *User) HasResetToken() bool {
	return u.ResetToken != nil && u.ResetTokenExpires != nil
}

// ResetTokenValid checks the stored reset token against token at instant now.
// The expiry is exclusive: a token expiring exactly at now is no longer valid.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if !u.HasResetToken() || token == "" {
		return false
	}
	return *u.ResetToken == token && u.ResetTokenExpires.After(now)
}

// DisplayName returns the name or an empty string
func (u *User) DisplayName() string {
	if u.Name == nil {
		return ""
	}
	return *u.Name
}

// SignupRequest represents the data needed to create a user
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login creds
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by signup and login
type TokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ProfileResponse describes what gets returned by the profile endpoint
type ProfileResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ForgotPasswordRequest starts a password reset
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest carries the new password; the token comes from the path
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ChangePasswordRequest represents password change data
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// MessageResponse is the body of every plain success or error reply
type MessageResponse struct {
	Message string `json:"message"`
}
