package viewmodel_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watermyplant/internal/adapter/driven/api"
	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/testutil"
)

// memStore is an in-memory CredentialStore.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memStore) Set(_ context.Context, store, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[store+"/"+key] = value
	return nil
}

func (m *memStore) Get(_ context.Context, store, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[store+"/"+key]
	return v, ok, nil
}

func (m *memStore) Delete(_ context.Context, store, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, store+"/"+key)
	return nil
}

const (
	testUser     = "alice"
	testPassword = "s3cretpass"
)

type env struct {
	backend *testutil.Backend
	userID  uuid.UUID
	tokens  *application.TokenManager
	auth    *application.AuthRepository
	plants  *application.PlantRepository
	clock   *fixedClock
}

// fixedClock returns a settable instant.
type fixedClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// newEnv wires repositories against a fake backend that knows testUser.
func newEnv(t *testing.T) *env {
	t.Helper()

	backend := testutil.NewBackend(t)
	userID := backend.AddUser(testUser, testPassword)

	tokens := application.NewTokenManager(&memStore{data: make(map[string]string)})
	require.NoError(t, tokens.Initialize(context.Background()))

	client, err := api.NewClient(api.Options{BaseURL: backend.URL(), Tokens: tokens, Timeout: 5 * time.Second})
	require.NoError(t, err)

	clock := &fixedClock{now: time.Date(2024, 4, 10, 9, 30, 0, 0, time.UTC)}
	return &env{
		backend: backend,
		userID:  userID,
		tokens:  tokens,
		auth:    application.NewAuthRepository(client, tokens),
		plants:  application.NewPlantRepository(client, clock),
		clock:   clock,
	}
}

// loggedIn logs testUser in.
func (e *env) loggedIn(t *testing.T) *env {
	t.Helper()
	out := e.auth.Login(context.Background(), testUser, testPassword)
	require.True(t, out.OK(), "login: %v", out.Err())
	return e
}
