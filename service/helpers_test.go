package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/tobibamidele/notekeep/config"
	"github.com/tobibamidele/notekeep/crypto"
	"github.com/tobibamidele/notekeep/models"
	"github.com/tobibamidele/notekeep/store/memory"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return config.NewConfigBuilder().
		WithSessionSecret("service-test-secret-service-test").
		WithBcryptCost(bcrypt.MinCost).
		Build()
}

type sentMail struct {
	email string
	url   string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(ctx context.Context, email, resetURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{email: email, url: resetURL})
	return nil
}

func (f *fakeSender) last(t *testing.T) sentMail {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.sent)
	return f.sent[len(f.sent)-1]
}

// spyStore counts password writes on top of the memory store
type spyStore struct {
	*memory.MemoryStore
	mu     sync.Mutex
	writes int
	reads  int
}

func newSpyStore() *spyStore {
	return &spyStore{MemoryStore: memory.New()}
}

func (s *spyStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	s.reads++
	s.mu.Unlock()
	return s.MemoryStore.GetUserByID(ctx, id)
}

func (s *spyStore) UpdatePassword(ctx context.Context, userID, hash string) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.MemoryStore.UpdatePassword(ctx, userID, hash)
}

func (s *spyStore) ConsumeResetToken(ctx context.Context, userID, token, hash string, now time.Time) error {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
	return s.MemoryStore.ConsumeResetToken(ctx, userID, token, hash, now)
}

func seedUser(t *testing.T, st *spyStore, id, email, password string) *models.User {
	t.Helper()
	hash, err := crypto.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)

	now := time.Now().UTC()
	name := "Test User"
	user := &models.User{
		ID:           id,
		Name:         &name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return user
}
