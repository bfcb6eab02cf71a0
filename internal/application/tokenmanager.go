package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
	"github.com/ericfisherdev/watermyplant/internal/observable"
)

// Persisted location of the bearer token.
const (
	AuthStore = "auth"
	TokenKey  = "auth_token"
)

// ErrEmptyToken is returned by Save for an empty token. An absent token is
// represented by Clear, never by an empty string.
var ErrEmptyToken = errors.New("token must not be empty")

// TokenManager is the process-wide source of truth for the current bearer
// token. Writes go to durable storage first and then to an in-memory cache;
// reads come from the cache and never block on I/O.
type TokenManager struct {
	store driven.CredentialStore

	// writeMu serializes Initialize, Save and Clear so the cache always
	// mirrors the last completed store write.
	writeMu sync.Mutex
	cached  atomic.Pointer[string]
	present *observable.Value[bool]
}

// NewTokenManager creates a TokenManager backed by store. Current reports no
// token until Initialize has run.
func NewTokenManager(store driven.CredentialStore) *TokenManager {
	return &TokenManager{
		store:   store,
		present: observable.New(false),
	}
}

// Initialize loads the persisted token into the cache. It must complete
// before the first authenticated request and is safe to call repeatedly.
func (m *TokenManager) Initialize(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	token, ok, err := m.store.Get(ctx, AuthStore, TokenKey)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	if ok && token != "" {
		m.cached.Store(&token)
	} else {
		m.cached.Store(nil)
	}
	observable.SetIfChanged(m.present, ok && token != "")
	return nil
}

// Save persists token and then updates the cache. Once Save returns nil,
// Current observes the new token.
func (m *TokenManager) Save(ctx context.Context, token string) error {
	if token == "" {
		return ErrEmptyToken
	}

	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.store.Set(ctx, AuthStore, TokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	m.cached.Store(&token)
	observable.SetIfChanged(m.present, true)
	return nil
}

// Clear removes the persisted token and resets the cache. The cache is reset
// even when the store delete fails, so the in-process session always ends.
func (m *TokenManager) Clear(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	err := m.store.Delete(ctx, AuthStore, TokenKey)
	m.cached.Store(nil)
	observable.SetIfChanged(m.present, false)
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Current returns the cached token and whether one is present.
func (m *TokenManager) Current() (string, bool) {
	p := m.cached.Load()
	if p == nil {
		return "", false
	}
	return *p, true
}

// Observe returns a stream of token presence. It emits the current presence
// immediately and then every change until ctx is done.
func (m *TokenManager) Observe(ctx context.Context) <-chan bool {
	return m.present.Subscribe(ctx)
}
