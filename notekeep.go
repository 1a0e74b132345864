package notekeep

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/cors"
	"github.com/tobibamidele/notekeep/config"
	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/handlers"
	"github.com/tobibamidele/notekeep/mailer"
	"github.com/tobibamidele/notekeep/middleware"
	"github.com/tobibamidele/notekeep/service"
	"github.com/tobibamidele/notekeep/store"
	"github.com/tobibamidele/notekeep/store/memory"
	"github.com/tobibamidele/notekeep/store/mysql"
	"github.com/tobibamidele/notekeep/store/postgres"
	"github.com/tobibamidele/notekeep/store/sqlite"
	"go.uber.org/zap"
)

// Notekeep wires the store, token issuer, mailer, services and HTTP handlers
type Notekeep struct {
	config     *config.Config
	logger     *zap.Logger
	store      store.Store
	middleware *middleware.Middleware

	accountHandler  *handlers.AccountHandler
	passwordHandler *handlers.PasswordHandler
	noteHandler     *handlers.NoteHandler
}

// New creates a Notekeep instance, opening the configured database and
// running migrations when enabled
func New(cfg *config.Config, logger *zap.Logger) (*Notekeep, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	st, err := newStore(cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	if cfg.Database.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := st.RunMigrations(ctx); err != nil {
			st.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	sender, err := newSender(cfg, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	n, err := NewWithStore(cfg, st, sender, logger)
	if err != nil {
		st.Close()
		return nil, err
	}
	return n, nil
}

// NewWithStore builds the service around an already opened store and sender
func NewWithStore(cfg *config.Config, st store.Store, sender mailer.Sender, logger *zap.Logger) (*Notekeep, error) {
	issuer, err := crypto.NewSessionIssuer(cfg.Session.Secret, cfg.Session.Duration)
	if err != nil {
		return nil, fmt.Errorf("failed to create session issuer: %w", err)
	}

	accounts := service.NewAccountService(st, issuer, cfg, logger)
	passwords := service.NewPasswordService(st, sender, cfg, logger)
	notes := service.NewNoteService(st, logger)

	return &Notekeep{
		config:          cfg,
		logger:          logger,
		store:           st,
		middleware:      middleware.New(issuer, logger),
		accountHandler:  handlers.NewAccountHandler(accounts),
		passwordHandler: handlers.NewPasswordHandler(passwords),
		noteHandler:     handlers.NewNoteHandler(notes),
	}, nil
}

func newStore(cfg config.DatabaseConfig, logger *zap.Logger) (store.Store, error) {
	switch cfg.Type {
	case config.Memory:
		return memory.New(), nil
	case config.PostgreSQL:
		return postgres.New(cfg.ConnectionURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLife, logger)
	case config.MySQL:
		return mysql.New(cfg.ConnectionURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLife, logger)
	case config.SQLite:
		return sqlite.New(cfg.ConnectionURL, cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLife, logger)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}
}

// newSender mails through SMTP when a host is configured. Without one,
// development logs the links and production refuses to start.
func newSender(cfg *config.Config, logger *zap.Logger) (mailer.Sender, error) {
	if cfg.Mail.SMTPHost != "" {
		sender, err := mailer.NewSMTPSender(cfg.Mail, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mailer: %w", err)
		}
		return sender, nil
	}

	if cfg.Environment == config.Production {
		return nil, fmt.Errorf("smtp host is required in %s", config.Production)
	}
	logger.Warn("no smtp host configured, reset links will only be logged")
	return mailer.NewLogSender(logger), nil
}

// Handler returns the HTTP handler serving every route
func (n *Notekeep) Handler() http.Handler {
	mux := http.NewServeMux()
	require := func(h http.HandlerFunc) http.Handler {
		return n.middleware.Require(h)
	}

	mux.HandleFunc("GET /health", handlers.Health)

	// Accounts
	mux.HandleFunc("POST /signup", n.accountHandler.Signup)
	mux.HandleFunc("POST /login", n.accountHandler.Login)
	mux.Handle("GET /profile", require(n.accountHandler.Profile))

	// Passwords
	mux.HandleFunc("POST /api/auth/forgot-password", n.passwordHandler.ForgotPassword)
	mux.HandleFunc("GET /api/auth/reset-password/{token}", n.passwordHandler.ValidateResetToken)
	mux.HandleFunc("POST /api/auth/reset-password/{token}", n.passwordHandler.ResetPassword)
	mux.Handle("POST /api/auth/change-password", require(n.passwordHandler.ChangePassword))

	// Notes
	mux.Handle("POST /api/notes", require(n.noteHandler.Create))
	mux.Handle("POST /api/notes/{$}", require(n.noteHandler.Create))
	mux.Handle("GET /api/notes/getNotes", require(n.noteHandler.List))
	mux.Handle("PUT /api/notes/update/{id}", require(n.noteHandler.Update))
	mux.Handle("DELETE /api/notes/delete/{id}", require(n.noteHandler.Delete))
	mux.Handle("PATCH /api/notes/status/{id}", require(n.noteHandler.SetStatus))
	mux.Handle("PATCH /api/notes/favorite/{id}", require(n.noteHandler.SetFavorite))

	c := cors.New(cors.Options{
		AllowedOrigins:   n.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	var h http.Handler = c.Handler(mux)
	h = middleware.Logger(n.logger)(h)
	h = middleware.Recover(n.logger)(h)
	return h
}

// Close closes the database connection
func (n *Notekeep) Close() error {
	return n.store.Close()
}
