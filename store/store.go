package store

import (
	"context"
	"time"

	"github.com/tobibamidele/notekeep/models"
)

// Store defines the interface for data persistence
// All database implementations must implement this interface
type Store interface {
	// Close closes the database connection
	Close() error

	// RunMigrations runs database migrations
	RunMigrations(ctx context.Context) error

	// User operations
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Password reset operations. The token and its expiry live on the user
	// record and are always written together.
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	// ConsumeResetToken replaces the password hash and clears the token in one
	// write, provided the token is still stored on userID and expires after now.
	// It returns errors.ErrInvalidOrExpired when another request got there first.
	ConsumeResetToken(ctx context.Context, userID, token, passwordHash string, now time.Time) error

	// Note operations
	CreateNote(ctx context.Context, note *models.Note) error
	GetNote(ctx context.Context, userID, noteID string) (*models.Note, error)
	ListNotes(ctx context.Context, userID string) ([]*models.Note, error)
	UpdateNote(ctx context.Context, note *models.Note) error
	DeleteNote(ctx context.Context, userID, noteID string) error
}
