package mailer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/tobibamidele/notekeep/config"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender sends reset emails through an SMTP relay
type SMTPSender struct {
	client  smtpClient
	from    string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSMTPSender creates a sender from the mail configuration. The sender
// address defaults to the SMTP user.
func NewSMTPSender(cfg config.MailConfig, logger *zap.Logger) (*SMTPSender, error) {
	if cfg.SMTPHost == "" {
		return nil, errors.New("smtp host is required")
	}

	from := cfg.From
	if from == "" {
		from = cfg.SMTPUser
	}
	if from == "" {
		return nil, errors.New("sender address is required")
	}

	var opts []mail.Option
	if cfg.SMTPPort > 0 {
		opts = append(opts, mail.WithPort(cfg.SMTPPort))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.UseTLS {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{
		client:  client,
		from:    from,
		timeout: cfg.Timeout,
		logger:  logger,
	}, nil
}

func (s *SMTPSender) buildMessage(email, resetURL string) (*mail.Msg, error) {
	msg := mail.NewMsg(mail.WithEncoding(mail.NoEncoding))
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(email); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(resetSubject)
	if err := msg.SetBodyHTMLTemplate(resetBody, resetData{URL: template.URL(resetURL)}); err != nil {
		return nil, fmt.Errorf("failed to render reset email: %w", err)
	}
	return msg, nil
}

// Send delivers the reset link, giving up after the configured timeout
func (s *SMTPSender) Send(ctx context.Context, email, resetURL string) error {
	msg, err := s.buildMessage(email, resetURL)
	if err != nil {
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.logger.Info("reset email sent", zap.String("email", email))
	return nil
}
