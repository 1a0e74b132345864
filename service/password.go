package service

import (
	"context"
	"strings"
	"time"

	"github.com/tobibamidele/notekeep/config"
	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/mailer"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/store"
	"github.com/tobibamidele/notekeep/validator"
	"go.uber.org/zap"
)

// PasswordService runs the forgot, reset and change password flows
type PasswordService struct {
	store       store.Store
	sender      mailer.Sender
	logger      *zap.Logger
	bcryptCost  int
	tokenBytes  int
	resetTTL    time.Duration
	frontendURL string
	now         func() time.Time
}

// NewPasswordService creates a password service from the security and mail settings
func NewPasswordService(st store.Store, sender mailer.Sender, cfg *config.Config, logger *zap.Logger) *PasswordService {
	return &PasswordService{
		store:       st,
		sender:      sender,
		logger:      logger,
		bcryptCost:  cfg.Security.BcryptCost,
		tokenBytes:  cfg.Security.ResetTokenBytes,
		resetTTL:    cfg.Security.ResetTokenTTL,
		frontendURL: strings.TrimRight(cfg.Mail.FrontendURL, "/"),
		now:         utcNow,
	}
}

// ResetURL is the link mailed to the user for token
func (s *PasswordService) ResetURL(token string) string {
	return s.frontendURL + "/reset-password/" + token
}

// ForgotPassword stores a fresh reset token on the account and mails the
// reset link. A token stored before a failed send is left in place.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, errors.ErrUserNotFound) {
		s.logger.Warn("user not found for password reset", zap.String("email", email))
		return errors.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to look up user for password reset", zap.String("email", email), zap.Error(err))
		return errors.ErrInternal
	}

	token, err := crypto.GenerateResetToken(s.tokenBytes)
	if err != nil {
		s.logger.Error("failed to generate reset token", zap.Error(err))
		return errors.ErrInternal
	}

	expiresAt := s.now().Add(s.resetTTL)
	if err := s.store.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		s.logger.Error("failed to store reset token", zap.String("user_id", user.ID), zap.Error(err))
		return errors.ErrInternal
	}

	if err := s.sender.Send(ctx, user.Email, s.ResetURL(token)); err != nil {
		s.logger.Error("failed to send reset email", zap.String("email", user.Email), zap.Error(err))
		return errors.ErrInternal
	}

	s.logger.Info("password reset link sent", zap.String("email", user.Email))
	return nil
}

// ValidateResetToken reports whether token is pending and unexpired. It has
// no side effects.
func (s *PasswordService) ValidateResetToken(ctx context.Context, token string) error {
	_, err := s.lookupResetToken(ctx, token)
	return err
}

// ResetPassword replaces the password of the account holding token and
// consumes the token
func (s *PasswordService) ResetPassword(ctx context.Context, token, password string) error {
	if password == "" {
		s.logger.Warn("password not provided in reset request")
		return errors.NewMissingFieldError("password", "Password is required")
	}

	user, err := s.lookupResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := hashPassword(password, s.bcryptCost)
	if errors.Is(err, errors.ErrInvalidInput) {
		return err
	}
	if err != nil {
		s.logger.Error("failed to hash password", zap.String("user_id", user.ID), zap.Error(err))
		return errors.ErrInternal
	}

	err = s.store.ConsumeResetToken(ctx, user.ID, token, hash, s.now())
	if errors.Is(err, errors.ErrInvalidOrExpired) {
		s.logger.Warn("reset token consumed concurrently", zap.String("user_id", user.ID))
		return err
	}
	if err != nil {
		s.logger.Error("failed to reset password", zap.String("user_id", user.ID), zap.Error(err))
		return errors.ErrInternal
	}

	s.logger.Info("password successfully reset", zap.String("email", user.Email))
	return nil
}

func (s *PasswordService) lookupResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, errors.ErrInvalidOrExpired
	}

	user, err := s.store.GetUserByResetToken(ctx, token, s.now())
	if errors.Is(err, errors.ErrInvalidOrExpired) {
		s.logger.Warn("invalid or expired reset token")
		return nil, err
	}
	if err != nil {
		s.logger.Error("failed to look up reset token", zap.Error(err))
		return nil, errors.ErrInternal
	}
	return user, nil
}

// ChangePassword replaces the password of an authenticated user after
// checking the current one. Input problems are reported before any lookup.
func (s *PasswordService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	err := validator.Required("Current password, new password, and confirmation are required",
		&req, &req.CurrentPassword, &req.NewPassword, &req.ConfirmPassword)
	if err != nil {
		s.logger.Warn("missing required fields for changing password", zap.String("user_id", userID))
		return err
	}
	if req.NewPassword != req.ConfirmPassword {
		s.logger.Warn("new password and confirmation do not match", zap.String("user_id", userID))
		return errors.ErrMismatch
	}

	user, err := s.store.GetUserByID(ctx, userID)
	if errors.Is(err, errors.ErrUserNotFound) {
		s.logger.Warn("user not found", zap.String("user_id", userID))
		return errors.ErrUserNotFound
	}
	if err != nil {
		s.logger.Error("failed to look up user", zap.String("user_id", userID), zap.Error(err))
		return errors.ErrInternal
	}

	if !crypto.CheckPassword(req.CurrentPassword, user.PasswordHash) {
		s.logger.Warn("incorrect current password", zap.String("user_id", userID))
		return errors.ErrInvalidCredential
	}

	hash, err := hashPassword(req.NewPassword, s.bcryptCost)
	if errors.Is(err, errors.ErrInvalidInput) {
		return err
	}
	if err != nil {
		s.logger.Error("failed to hash password", zap.String("user_id", userID), zap.Error(err))
		return errors.ErrInternal
	}

	if err := s.store.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("failed to change password", zap.String("user_id", userID), zap.Error(err))
		return errors.ErrInternal
	}

	s.logger.Info("password successfully changed", zap.String("user_id", userID))
	return nil
}
