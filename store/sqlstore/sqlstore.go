// Package sqlstore holds the database/sql implementation of store.Store shared
// by the sqlite, postgres and mysql packages. Queries are written with ?
// placeholders and rebound for dialects that number their parameters.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"go.uber.org/zap"
)

// Dialect describes what differs between the supported databases
type Dialect struct {
	// Goose is the goose dialect name, e.g. "sqlite3"
	Goose string
	// Numbered rewrites ? placeholders to $1, $2, ...
	Numbered bool
	// Migrations holds the goose SQL files at its root
	Migrations fs.FS
	// IsUniqueViolation recognises the driver's duplicate key error
	IsUniqueViolation func(error) bool
}

// Store implements store.Store on top of a *sql.DB
type Store struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// New wraps an open database. The caller keeps ownership of pool settings.
// Migration output goes to logger; nil discards it.
func New(db *sql.DB, dialect Dialect, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: db, dialect: dialect, logger: logger}
}

// Open opens driverName with the pool settings applied and pings it
func Open(driverName, connectionURL string, maxOpenConns, maxIdleConns int, connMaxLife time.Duration) (*sql.DB, error) {
	db, err := sql.Open(driverName, connectionURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLife)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// goose keeps its base FS, dialect and logger in package globals
var gooseMu sync.Mutex

// gooseUp is swapped out in tests
var gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
	return goose.UpContext(ctx, db, dir)
}

// RunMigrations applies the dialect's embedded migrations with goose
func (s *Store) RunMigrations(ctx context.Context) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(s.dialect.Migrations)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(zap.NewStdLog(s.logger.With(zap.String("component", "migrations"))))
	defer goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect(s.dialect.Goose); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := gooseUp(ctx, s.db, "."); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	return nil
}

func (s *Store) rebind(query string) string {
	if !s.dialect.Numbered {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(ctx, s.rebind(query), args...)
}

const userColumns = `id, name, email, password_hash, reset_token, reset_token_expires, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var (
		user    models.User
		name    sql.NullString
		token   sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(
		&user.ID, &name, &user.Email, &user.PasswordHash,
		&token, &expires, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if name.Valid {
		user.Name = &name.String
	}
	if token.Valid && expires.Valid {
		exp := expires.Time.UTC()
		user.ResetToken = &token.String
		user.ResetTokenExpires = &exp
	}
	user.CreatedAt = user.CreatedAt.UTC()
	user.UpdatedAt = user.UpdatedAt.UTC()
	return &user, nil
}

// CreateUser creates a new user
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.exec(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.CreatedAt.UTC(), user.UpdatedAt.UTC(),
	)
	if err != nil {
		if s.dialect.IsUniqueViolation(err) {
			return errors.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where

	user, err := scanUser(s.queryRow(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, "id = ?", id)
}

// GetUserByEmail retrieves a user by exact email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "email = ?", email)
}

// UpdatePassword overwrites the password hash
func (s *Store) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`

	result, err := s.exec(ctx, query, passwordHash, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectOne(result, errors.ErrUserNotFound)
}

// SetResetToken stores token and expiry on the user, replacing any previous token
func (s *Store) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	query := `
		UPDATE users SET reset_token = ?, reset_token_expires = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := s.exec(ctx, query, token, expiresAt.UTC(), time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}
	return expectOne(result, errors.ErrUserNotFound)
}

// GetUserByResetToken finds the user holding token with an expiry after now
func (s *Store) GetUserByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token = ? AND reset_token_expires > ?`

	user, err := scanUser(s.queryRow(ctx, query, token, now.UTC()))
	if err == sql.ErrNoRows {
		return nil, errors.ErrInvalidOrExpired
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}
	return user, nil
}

// ConsumeResetToken sets the new hash and clears the reset fields. The token
// check is part of the UPDATE so two requests cannot both use it.
func (s *Store) ConsumeResetToken(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	query := `
		UPDATE users SET password_hash = ?, reset_token = NULL, reset_token_expires = NULL, updated_at = ?
		WHERE id = ? AND reset_token = ? AND reset_token_expires > ?
	`

	result, err := s.exec(ctx, query, passwordHash, time.Now().UTC(), userID, token, now.UTC())
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	return expectOne(result, errors.ErrInvalidOrExpired)
}

const noteColumns = `id, user_id, title, content, status, favorite, created_at, updated_at`

func scanNote(row interface{ Scan(...any) error }) (*models.Note, error) {
	var note models.Note
	err := row.Scan(
		&note.ID, &note.UserID, &note.Title, &note.Content,
		&note.Status, &note.Favorite, &note.CreatedAt, &note.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
	return &note, nil
}

// CreateNote stores a new note
func (s *Store) CreateNote(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO notes (id, user_id, title, content, status, favorite, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.exec(ctx, query,
		note.ID, note.UserID, note.Title, note.Content, string(note.Status),
		note.Favorite, note.CreatedAt.UTC(), note.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

// GetNote returns a note owned by userID
func (s *Store) GetNote(ctx context.Context, userID, noteID string) (*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE id = ? AND user_id = ?`

	note, err := scanNote(s.queryRow(ctx, query, noteID, userID))
	if err == sql.ErrNoRows {
		return nil, errors.ErrNoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// ListNotes returns the notes of userID, oldest first
func (s *Store) ListNotes(ctx context.Context, userID string) ([]*models.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE user_id = ? ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, s.rebind(query), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// UpdateNote overwrites the mutable fields of a note
func (s *Store) UpdateNote(ctx context.Context, note *models.Note) error {
	query := `
		UPDATE notes SET title = ?, content = ?, status = ?, favorite = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	note.UpdatedAt = time.Now().UTC()
	result, err := s.exec(ctx, query,
		note.Title, note.Content, string(note.Status), note.Favorite,
		note.UpdatedAt, note.ID, note.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	return expectOne(result, errors.ErrNoteNotFound)
}

// DeleteNote removes a note owned by userID
func (s *Store) DeleteNote(ctx context.Context, userID, noteID string) error {
	query := `DELETE FROM notes WHERE id = ? AND user_id = ?`

	result, err := s.exec(ctx, query, noteID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return expectOne(result, errors.ErrNoteNotFound)
}

// expectOne maps an UPDATE or DELETE that touched no rows to notFound
func expectOne(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
