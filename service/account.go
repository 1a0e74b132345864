package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/tobibamidele/notekeep/config"
	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/store"
	"github.com/tobibamidele/notekeep/validator"
	"go.uber.org/zap"
)

// AccountService handles signup, login and profile lookups
type AccountService struct {
	store      store.Store
	issuer     SessionIssuer
	logger     *zap.Logger
	bcryptCost int
}

// NewAccountService creates an account service
func NewAccountService(st store.Store, issuer SessionIssuer, cfg *config.Config, logger *zap.Logger) *AccountService {
	return &AccountService{
		store:      st,
		issuer:     issuer,
		logger:     logger,
		bcryptCost: cfg.Security.BcryptCost,
	}
}

// Signup creates an account and returns a session token for it
func (s *AccountService) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	if err := validator.Required("All fields are required", &req, &req.Name, &req.Email, &req.Password); err != nil {
		return "", err
	}
	if err := validator.ValidateEmail(req.Email, "Invalid email address"); err != nil {
		return "", err
	}

	_, err := s.store.GetUserByEmail(ctx, req.Email)
	if err == nil {
		return "", errors.ErrUserAlreadyExists
	}
	if !errors.Is(err, errors.ErrUserNotFound) {
		s.logger.Error("failed to look up user", zap.String("email", req.Email), zap.Error(err))
		return "", errors.ErrInternal
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if errors.Is(err, errors.ErrInvalidInput) {
		return "", err
	}
	if err != nil {
		s.logger.Error("failed to hash password", zap.Error(err))
		return "", errors.ErrInternal
	}

	now := utcNow()
	name := req.Name
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         &name,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, errors.ErrUserAlreadyExists) {
			return "", err
		}
		s.logger.Error("failed to create user", zap.String("email", req.Email), zap.Error(err))
		return "", errors.ErrInternal
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("new user signed up", zap.String("email", user.Email))
	return token, nil
}

// Login checks the credentials and returns a session token
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	if err := validator.Required("Email and password are required", &req, &req.Email, &req.Password); err != nil {
		return "", err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, errors.ErrUserNotFound) {
		return "", errors.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to look up user", zap.String("email", req.Email), zap.Error(err))
		return "", errors.ErrInternal
	}

	if !crypto.CheckPassword(req.Password, user.PasswordHash) {
		s.logger.Warn("invalid credentials", zap.String("email", req.Email))
		return "", errors.ErrInvalidCredential
	}

	s.upgradeHash(ctx, user, req.Password)

	token, err := s.issueToken(user.ID)
	if err != nil {
		return "", err
	}

	s.logger.Info("user logged in", zap.String("email", user.Email))
	return token, nil
}

// upgradeHash rehashes a verified password stored with a lower bcrypt
// cost. Failures only cost a log line.
func (s *AccountService) upgradeHash(ctx context.Context, user *models.User, password string) {
	cost := s.bcryptCost
	if cost == 0 {
		cost = crypto.DefaultCost
	}

	stale, err := crypto.NeedsCostUpdate(user.PasswordHash, cost)
	if err != nil || !stale {
		return
	}

	hash, err := crypto.HashPassword(password, cost)
	if err != nil {
		return
	}
	if err := s.store.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Warn("failed to upgrade password hash", zap.String("user_id", user.ID), zap.Error(err))
	}
}

// Profile returns the public fields of a user
func (s *AccountService) Profile(ctx context.Context, userID string) (*models.ProfileResponse, error) {
	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, errors.ErrUserNotFound) {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to load profile", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.ErrInternal
	}

	s.logger.Info("profile visited", zap.String("email", user.Email))
	return &models.ProfileResponse{
		Name:  user.DisplayName(),
		Email: user.Email,
	}, nil
}

func (s *AccountService) issueToken(userID string) (string, error) {
	token, err := s.issuer.IssueSessionToken(userID)
	if err != nil {
		s.logger.Error("failed to issue session token", zap.String("user_id", userID), zap.Error(err))
		return "", errors.ErrInternal
	}
	return token, nil
}
