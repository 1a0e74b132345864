package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"
	"regexp"
	"testing"
	"testing/fstest"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tobibamidele/notekeep/errors"
	"github.com/tobibamidele/notekeep/models"
)

var errDuplicate = stderrors.New("duplicate")

func testDialect(numbered bool) Dialect {
	return Dialect{
		Goose:    "sqlite3",
		Numbered: numbered,
		Migrations: fstest.MapFS{
			"00001_init.sql": &fstest.MapFile{Data: []byte("-- +goose Up\n")},
		},
		IsUniqueViolation: func(err error) bool { return stderrors.Is(err, errDuplicate) },
	}
}

func newStoreWithMock(t *testing.T, numbered bool) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db, testDialect(numbered), nil), mock
}

var userCols = []string{"id", "name", "email", "password_hash", "reset_token", "reset_token_expires", "created_at", "updated_at"}

func TestRebind(t *testing.T) {
	numbered := &Store{dialect: Dialect{Numbered: true}}
	assert.Equal(t, "a = $1 AND b > $2", numbered.rebind("a = ? AND b > ?"))

	plain := &Store{dialect: Dialect{}}
	assert.Equal(t, "a = ? AND b > ?", plain.rebind("a = ? AND b > ?"))
}

func TestCreateUser(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	name := "Ada"
	now := time.Now()
	user := &models.User{ID: "u1", Name: &name, Email: "ada@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("u1", "Ada", "ada@example.com", "h", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, s.CreateUser(context.Background(), user))
}

func TestCreateUser_Duplicate(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectExec("INSERT INTO users").WillReturnError(errDuplicate)

	err := s.CreateUser(context.Background(), &models.User{ID: "u1", Email: "a@b.com"})
	require.ErrorIs(t, err, errors.ErrUserAlreadyExists)
}

func TestGetUserByEmail(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(userCols).
		AddRow("u1", nil, "a@b.com", "h", nil, nil, created, created)
	mock.ExpectQuery(`FROM users WHERE email = \$1`).
		WithArgs("a@b.com").
		WillReturnRows(rows)

	u, err := s.GetUserByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Nil(t, u.Name)
	assert.False(t, u.HasResetToken())
	assert.Equal(t, created, u.CreatedAt)
}

func TestGetUserByID_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectQuery(`FROM users WHERE id = \?`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByID(context.Background(), "missing")
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestGetUserByID_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectQuery("FROM users").WillReturnError(stderrors.New("boom"))

	_, err := s.GetUserByID(context.Background(), "u1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errors.ErrNotFound)
}

func TestSetResetToken(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	exp := time.Now().Add(time.Hour)

	mock.ExpectExec(`UPDATE users SET reset_token = \$1, reset_token_expires = \$2, updated_at = \$3\s+WHERE id = \$4`).
		WithArgs("tok", exp.UTC(), sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.SetResetToken(context.Background(), "u1", "tok", exp))
}

func TestSetResetToken_UnknownUser(t *testing.T) {
	s, mock := newStoreWithMock(t, true)

	mock.ExpectExec("UPDATE users SET reset_token").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.SetResetToken(context.Background(), "nope", "tok", time.Now())
	require.ErrorIs(t, err, errors.ErrUserNotFound)
}

func TestGetUserByResetToken(t *testing.T) {
	s, mock := newStoreWithMock(t, false)
	now := time.Now()
	exp := now.Add(30 * time.Minute).UTC()

	rows := sqlmock.NewRows(userCols).
		AddRow("u1", "Ada", "a@b.com", "h", "tok", exp, now, now)
	mock.ExpectQuery(`WHERE reset_token = \? AND reset_token_expires > \?`).
		WithArgs("tok", now.UTC()).
		WillReturnRows(rows)

	u, err := s.GetUserByResetToken(context.Background(), "tok", now)
	require.NoError(t, err)
	require.True(t, u.HasResetToken())
	assert.Equal(t, "tok", *u.ResetToken)
	assert.Equal(t, exp, *u.ResetTokenExpires)
	assert.Equal(t, "Ada", u.DisplayName())
}

func TestGetUserByResetToken_Expired(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectQuery("WHERE reset_token").WillReturnError(sql.ErrNoRows)

	_, err := s.GetUserByResetToken(context.Background(), "tok", time.Now())
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)
}

func TestConsumeResetToken(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	now := time.Now()

	mock.ExpectExec(`reset_token = NULL, reset_token_expires = NULL.*WHERE id = \$3 AND reset_token = \$4 AND reset_token_expires > \$5`).
		WithArgs("new-hash", sqlmock.AnyArg(), "u1", "tok", now.UTC()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.ConsumeResetToken(context.Background(), "u1", "tok", "new-hash", now))
}

func TestConsumeResetToken_AlreadyUsed(t *testing.T) {
	s, mock := newStoreWithMock(t, true)

	mock.ExpectExec("reset_token = NULL").WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.ConsumeResetToken(context.Background(), "u1", "tok", "new-hash", time.Now())
	require.ErrorIs(t, err, errors.ErrInvalidOrExpired)
}

func TestUpdatePassword(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectExec(`UPDATE users SET password_hash = \?, updated_at = \? WHERE id = \?`).
		WithArgs("h2", sqlmock.AnyArg(), "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdatePassword(context.Background(), "u1", "h2"))
}

var noteCols = []string{"id", "user_id", "title", "content", "status", "favorite", "created_at", "updated_at"}

func TestListNotes(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(noteCols).
		AddRow("n1", "u1", "first", "body", "saved", false, now.Add(-time.Minute), now).
		AddRow("n2", "u1", "second", "", "draft", true, now, now)
	mock.ExpectQuery(`FROM notes WHERE user_id = \$1 ORDER BY created_at, id`).
		WithArgs("u1").
		WillReturnRows(rows)

	notes, err := s.ListNotes(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, "n1", notes[0].ID)
	assert.Equal(t, "n2", notes[1].ID)
	assert.Equal(t, models.NoteStatusDraft, notes[1].Status)
	assert.True(t, notes[1].Favorite)
}

func TestListNotes_Empty(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectQuery("FROM notes").WillReturnRows(sqlmock.NewRows(noteCols))

	notes, err := s.ListNotes(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, notes)
	assert.Empty(t, notes)
}

func TestGetNote_OtherOwner(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectQuery(`FROM notes WHERE id = \? AND user_id = \?`).
		WithArgs("n1", "u2").
		WillReturnError(sql.ErrNoRows)

	_, err := s.GetNote(context.Background(), "u2", "n1")
	require.ErrorIs(t, err, errors.ErrNoteNotFound)
}

func TestUpdateNote(t *testing.T) {
	s, mock := newStoreWithMock(t, true)
	note := &models.Note{ID: "n1", UserID: "u1", Title: "t", Content: "c", Status: models.NoteStatusSaved, Favorite: true}

	mock.ExpectExec(`UPDATE notes SET .* WHERE id = \$6 AND user_id = \$7`).
		WithArgs("t", "c", "saved", true, sqlmock.AnyArg(), "n1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateNote(context.Background(), note))
	assert.False(t, note.UpdatedAt.IsZero())
}

func TestDeleteNote_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t, false)

	mock.ExpectExec(`DELETE FROM notes WHERE id = \? AND user_id = \?`).
		WithArgs("n1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, s.DeleteNote(context.Background(), "u1", "n1"), errors.ErrNoteNotFound)
}

func TestRunMigrations(t *testing.T) {
	s, _ := newStoreWithMock(t, false)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })

	var called bool
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		called = true
		assert.Equal(t, ".", dir)
		return nil
	}

	require.NoError(t, s.RunMigrations(context.Background()))
	assert.True(t, called)
}

func TestRunMigrations_Error(t *testing.T) {
	s, _ := newStoreWithMock(t, false)

	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(ctx context.Context, db *sql.DB, dir string) error {
		return stderrors.New("bad migration")
	}

	err := s.RunMigrations(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad migration")
}
