package handlers

import (
	"net/http"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/middleware"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/service"
)

const msgInvalidOrExpired = "Invalid or expired token"

// PasswordHandler exposes the password reset and change flows
type PasswordHandler struct {
	passwords *service.PasswordService
}

func NewPasswordHandler(passwords *service.PasswordService) *PasswordHandler {
	return &PasswordHandler{passwords: passwords}
}

// ForgotPassword mails a reset link to a registered address
func (h *PasswordHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.passwords.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error sending reset link")
		return
	}

	writeMessage(w, http.StatusOK, "Reset link sent to email")
}

// ValidateResetToken tells the reset page whether its token is still usable
func (h *PasswordHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if err := h.passwords.ValidateResetToken(r.Context(), r.PathValue("token")); err != nil {
		if errors.Is(err, errors.ErrInvalidOrExpired) {
			writeMessage(w, http.StatusBadRequest, msgInvalidOrExpired)
			return
		}
		writeMessage(w, http.StatusInternalServerError, "Error validating token")
		return
	}

	writeMessage(w, http.StatusOK, "Token is valid")
}

// ResetPassword sets a new password using the token from the path
func (h *PasswordHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.passwords.ResetPassword(r.Context(), r.PathValue("token"), req.Password); err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, errors.ErrInvalidOrExpired):
			writeMessage(w, http.StatusBadRequest, msgInvalidOrExpired)
		default:
			writeMessage(w, http.StatusInternalServerError, "Error resetting password")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Password reset successful")
}

// ChangePassword replaces the password of the authenticated user
func (h *PasswordHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req models.ChangePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.passwords.ChangePassword(r.Context(), middleware.UserID(r), req); err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, errors.ErrMismatch):
			writeMessage(w, http.StatusBadRequest, "New password and confirmation do not match")
		case errors.Is(err, errors.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "User not found")
		case errors.Is(err, errors.ErrInvalidCredential):
			writeMessage(w, http.StatusBadRequest, "Incorrect current password")
		default:
			writeMessage(w, http.StatusInternalServerError, "Error changing password")
		}
		return
	}

	writeMessage(w, http.StatusOK, "Password changed successfully")
}
