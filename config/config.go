package config

import (
	"fmt"
	"time"
)

type DatabaseType string

const (
	Memory     DatabaseType = "memory"
	PostgreSQL DatabaseType = "postgres"
	MySQL      DatabaseType = "mysql"
	SQLite     DatabaseType = "sqlite"
)

// Environment names understood by the logger setup
const (
	Development = "development"
	Production  = "production"
)

// Config holds all configurations for the notes service
type Config struct {
	Environment string `envconfig:"ENV"`
	Server      ServerConfig
	Database    DatabaseConfig
	Session     SessionConfig
	Security    SecurityConfig
	Mail        MailConfig
	CORS        CORSConfig
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Port            string        `envconfig:"PORT"`
	ReadTimeout     time.Duration `split_words:"true"`
	WriteTimeout    time.Duration `split_words:"true"`
	ShutdownTimeout time.Duration `split_words:"true"`
}

// DatabaseConfig holds the database connection settings
type DatabaseConfig struct {
	Type          DatabaseType  `envconfig:"DB_TYPE"`
	ConnectionURL string        `envconfig:"DATABASE_URL"`
	MaxOpenConns  int           `split_words:"true"`
	MaxIdleConns  int           `split_words:"true"`
	ConnMaxLife   time.Duration `split_words:"true"`
	AutoMigrate   bool          `split_words:"true"` // Run migrations on startup
}

// SessionConfig holds bearer token settings
type SessionConfig struct {
	Secret   string        `envconfig:"JWT_SECRET"`
	Duration time.Duration `envconfig:"SESSION_DURATION"`
}

// SecurityConfig holds security related settings
type SecurityConfig struct {
	BcryptCost      int           `split_words:"true"`
	ResetTokenBytes int           `split_words:"true"`
	ResetTokenTTL   time.Duration `envconfig:"RESET_TOKEN_TTL"`
}

// MailConfig holds the settings for reset link delivery.
// An empty SMTPHost selects the log-only sender.
type MailConfig struct {
	From         string        `envconfig:"EMAIL_FROM"`
	SMTPHost     string        `envconfig:"SMTP_HOST"`
	SMTPPort     int           `envconfig:"SMTP_PORT"`
	SMTPUser     string        `envconfig:"EMAIL_USER"`
	SMTPPassword string        `envconfig:"EMAIL_PASS"`
	UseTLS       bool          `envconfig:"SMTP_TLS"`
	Timeout      time.Duration `envconfig:"MAIL_TIMEOUT"`
	FrontendURL  string        `envconfig:"FRONTEND_URL"`
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ORIGINS"`
}

func DefaultConfig() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Port:            "5000",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: DatabaseConfig{
			Type:          SQLite,
			ConnectionURL: "notekeep.db",
			MaxOpenConns:  25,
			MaxIdleConns:  5,
			ConnMaxLife:   5 * time.Minute,
			AutoMigrate:   true,
		},
		Session: SessionConfig{
			Duration: time.Hour,
		},
		Security: SecurityConfig{
			BcryptCost:      10,
			ResetTokenBytes: 32,
			ResetTokenTTL:   time.Hour,
		},
		Mail: MailConfig{
			SMTPHost:    "",
			SMTPPort:    587,
			UseTLS:      true,
			Timeout:     10 * time.Second,
			FrontendURL: "http://localhost:5173",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
		},
	}
}

// Validate reports configuration that the service cannot start with
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if c.Session.Duration <= 0 {
		return fmt.Errorf("session duration must be positive")
	}
	if c.Security.ResetTokenTTL <= 0 {
		return fmt.Errorf("reset token ttl must be positive")
	}
	if c.Security.ResetTokenBytes < 16 {
		return fmt.Errorf("reset token must be at least 16 bytes")
	}
	switch c.Database.Type {
	case Memory, PostgreSQL, MySQL, SQLite:
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	return nil
}

// ConfigBuilder provides a interface for building Config
type ConfigBuilder struct {
	config *Config
}

// NewConfigBuilder creates a new ConfigBuilder with default values
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: DefaultConfig(),
	}
}

// WithDatabase sets the database configuration
func (cb *ConfigBuilder) WithDatabase(dbType DatabaseType, connURL string) *ConfigBuilder {
	cb.config.Database.Type = dbType
	cb.config.Database.ConnectionURL = connURL
	return cb
}

// WithSessionSecret sets the HMAC secret used to sign bearer tokens
func (cb *ConfigBuilder) WithSessionSecret(secret string) *ConfigBuilder {
	cb.config.Session.Secret = secret
	return cb
}

// WithSessionDuration sets the session duration
func (cb *ConfigBuilder) WithSessionDuration(duration time.Duration) *ConfigBuilder {
	cb.config.Session.Duration = duration
	return cb
}

// WithBcryptCost sets the bcrypt cost
func (b *ConfigBuilder) WithBcryptCost(cost int) *ConfigBuilder {
	b.config.Security.BcryptCost = cost
	return b
}

// WithResetTokenTTL sets how long a reset link stays usable
func (b *ConfigBuilder) WithResetTokenTTL(ttl time.Duration) *ConfigBuilder {
	b.config.Security.ResetTokenTTL = ttl
	return b
}

// WithMailConfig sets email configuration
func (b *ConfigBuilder) WithMailConfig(cfg MailConfig) *ConfigBuilder {
	b.config.Mail = cfg
	return b
}

// WithEnvironment sets the environment name (development or production)
func (b *ConfigBuilder) WithEnvironment(env string) *ConfigBuilder {
	b.config.Environment = env
	return b
}

// Build returns the final Config
func (b *ConfigBuilder) Build() *Config {
	return b.config
}
