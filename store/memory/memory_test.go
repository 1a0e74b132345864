package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/store"
)

var _ store.Store = (*MemoryStore)(nil)

func seedUser(t *testing.T, s *MemoryStore, id, email string) {
	t.Helper()
	require.NoError(t, s.CreateUser(context.Background(), &models.User{
		ID:           id,
		Email:        email,
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}))
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := New()
	seedUser(t, s, "u1", "a@b.com")

	err := s.CreateUser(context.Background(), &models.User{ID: "u2", Email: "a@b.com"})
	require.ErrorIs(t, err, errors.ErrUserAlreadyExists)

	// email matching is case-sensitive
	seedUser(t, s, "u3", "A@b.com")
}

func TestGetUser_NotFound(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.GetUserByID(ctx, "missing")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
	require.ErrorIs(t, err, errors.ErrNotFound)

	_, err = s.GetUserByEmail(ctx, "missing@b.com")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestResetToken_Lifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@b.com")
	now := time.Now()

	require.NoError(t, s.SetResetToken(ctx, "u1", "tok-1", now.Add(time.Hour)))

	u, err := s.GetUserByResetToken(ctx, "tok-1", now)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.True(t, u.HasResetToken())

	// strictly greater than now
	_, err = s.GetUserByResetToken(ctx, "tok-1", now.Add(time.Hour))
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)

	// a newer token replaces the old one
	require.NoError(t, s.SetResetToken(ctx, "u1", "tok-2", now.Add(time.Hour)))
	_, err = s.GetUserByResetToken(ctx, "tok-1", now)
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)

	require.NoError(t, s.ConsumeResetToken(ctx, "u1", "tok-2", "new-hash", now))
	u, err = s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new-hash", u.PasswordHash)
	assert.Nil(t, u.ResetToken)
	assert.Nil(t, u.ResetTokenExpires)

	// single use
	err = s.ConsumeResetToken(ctx, "u1", "tok-2", "other", now)
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)
	_, err = s.GetUserByResetToken(ctx, "tok-2", now)
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)
}

func TestReturnedUsersAreCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	seedUser(t, s, "u1", "a@b.com")

	u, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	u.PasswordHash = "tampered"

	again, err := s.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hash", again.PasswordHash)
}

func TestNotes_ScopedToOwner(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.CreateNote(ctx, &models.Note{ID: "n1", UserID: "u1", Title: "a", CreatedAt: now}))
	require.NoError(t, s.CreateNote(ctx, &models.Note{ID: "n2", UserID: "u1", Title: "b", CreatedAt: now.Add(time.Second)}))
	require.NoError(t, s.CreateNote(ctx, &models.Note{ID: "n3", UserID: "u2", Title: "c", CreatedAt: now}))

	notes, err := s.ListNotes(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, "n2", notes[1].ID)

	_, err = s.GetNote(ctx, "u2", "n1")
	require.ErrorIs(t, err, errors.ErrNoteNotFound)

	err = s.UpdateNote(ctx, &models.Note{ID: "n1", UserID: "u2", Title: "stolen"})
	require.ErrorIs(t, err, errors.ErrNoteNotFound)

	require.ErrorIs(t, s.DeleteNote(ctx, "u2", "n1"), errors.ErrNoteNotFound)
	require.NoError(t, s.DeleteNote(ctx, "u1", "n1"))

	notes, err = s.ListNotes(ctx, "u3")
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}
