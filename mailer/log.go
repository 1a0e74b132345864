package mailer

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes reset links to the log instead of mailing them.
// Only meant for local development.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender
func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, email, resetURL string) error {
	s.logger.Info("password reset link",
		zap.String("email", email),
		zap.String("url", resetURL),
	)
	return nil
}
