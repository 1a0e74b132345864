// Package memory is a process-local Store used for development and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
)

// MemoryStore implements the Store interface with maps guarded by a mutex.
// Reset tokens are indexed so lookups do not scan users.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[string]*models.User
	emailIndex map[string]string
	resetIndex map[string]string
	notes      map[string]*models.Note
}

// New creates an empty store
func New() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*models.User),
		emailIndex: make(map[string]string),
		resetIndex: make(map[string]string),
		notes:      make(map[string]*models.Note),
	}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) RunMigrations(ctx context.Context) error { return nil }

func copyUser(u *models.User) *models.User {
	c := *u
	if u.Name != nil {
		name := *u.Name
		c.Name = &name
	}
	if u.ResetToken != nil {
		tok := *u.ResetToken
		c.ResetToken = &tok
	}
	if u.ResetTokenExpires != nil {
		exp := *u.ResetTokenExpires
		c.ResetTokenExpires = &exp
	}
	return &c
}

func copyNote(n *models.Note) *models.Note {
	c := *n
	return &c
}

// CreateUser creates a new user
func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.emailIndex[user.Email]; ok {
		return errors.ErrUserAlreadyExists
	}
	s.users[user.ID] = copyUser(user)
	s.emailIndex[user.Email] = user.ID
	return nil
}

// GetUserByID retrieves a user by ID
func (s *MemoryStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetUserByEmail retrieves a user by exact email
func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emailIndex[email]
	if !ok {
		return nil, errors.ErrUserNotFound
	}
	return copyUser(s.users[id]), nil
}

// UpdatePassword overwrites the password hash
func (s *MemoryStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errors.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// SetResetToken stores token and expiry on the user, replacing any previous token
func (s *MemoryStore) SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok {
		return errors.ErrUserNotFound
	}
	if u.ResetToken != nil {
		delete(s.resetIndex, *u.ResetToken)
	}
	tok := token
	exp := expiresAt.UTC()
	u.ResetToken = &tok
	u.ResetTokenExpires = &exp
	u.UpdatedAt = time.Now().UTC()
	s.resetIndex[token] = userID
	return nil
}

// GetUserByResetToken finds the user holding token with an expiry after now
func (s *MemoryStore) GetUserByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.resetIndex[token]
	if !ok {
		return nil, errors.ErrInvalidOrExpired
	}
	u := s.users[id]
	if !u.ResetTokenValid(token, now) {
		return nil, errors.ErrInvalidOrExpired
	}
	return copyUser(u), nil
}

// ConsumeResetToken sets the new hash and clears the reset fields
func (s *MemoryStore) ConsumeResetToken(ctx context.Context, userID, token, passwordHash string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[userID]
	if !ok || !u.ResetTokenValid(token, now) {
		return errors.ErrInvalidOrExpired
	}
	delete(s.resetIndex, token)
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpires = nil
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// CreateNote stores a new note
func (s *MemoryStore) CreateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes[note.ID] = copyNote(note)
	return nil
}

// GetNote returns a note owned by userID
func (s *MemoryStore) GetNote(ctx context.Context, userID, noteID string) (*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return nil, errors.ErrNoteNotFound
	}
	return copyNote(n), nil
}

// ListNotes returns the notes of userID, oldest first
func (s *MemoryStore) ListNotes(ctx context.Context, userID string) ([]*models.Note, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	notes := make([]*models.Note, 0)
	for _, n := range s.notes {
		if n.UserID == userID {
			notes = append(notes, copyNote(n))
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if !notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return notes[i].CreatedAt.Before(notes[j].CreatedAt)
		}
		return notes[i].ID < notes[j].ID
	})
	return notes, nil
}

// UpdateNote overwrites the mutable fields of a note
func (s *MemoryStore) UpdateNote(ctx context.Context, note *models.Note) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[note.ID]
	if !ok || n.UserID != note.UserID {
		return errors.ErrNoteNotFound
	}
	note.UpdatedAt = time.Now().UTC()
	s.notes[note.ID] = copyNote(note)
	return nil
}

// DeleteNote removes a note owned by userID
func (s *MemoryStore) DeleteNote(ctx context.Context, userID, noteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notes[noteID]
	if !ok || n.UserID != userID {
		return errors.ErrNoteNotFound
	}
	delete(s.notes, noteID)
	return nil
}
