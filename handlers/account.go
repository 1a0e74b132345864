package handlers

import (
	"net/http"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/middleware"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/service"
)

const msgServerError = "Server error"

// AccountHandler handles signup, login and profile requests
type AccountHandler struct {
	accounts *service.AccountService
}

func NewAccountHandler(accounts *service.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Signup handles user registration
func (h *AccountHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.accounts.Signup(r.Context(), req)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, errors.ErrUserAlreadyExists):
			writeMessage(w, http.StatusConflict, "User already exists")
		default:
			writeMessage(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.TokenResponse{Message: "User registered", Token: token})
}

// Login handles user login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.accounts.Login(r.Context(), req)
	if err != nil {
		switch {
		case writeValidation(w, err):
		case errors.Is(err, errors.ErrUserNotFound):
			writeMessage(w, http.StatusNotFound, "Email not registered")
		case errors.Is(err, errors.ErrInvalidCredential):
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		default:
			writeMessage(w, http.StatusInternalServerError, msgServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, models.TokenResponse{Message: "Login successful", Token: token})
}

// Profile returns the name and email of the authenticated user
func (h *AccountHandler) Profile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.Profile(r.Context(), middleware.UserID(r))
	if err != nil {
		if errors.Is(err, errors.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		writeMessage(w, http.StatusInternalServerError, msgServerError)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
