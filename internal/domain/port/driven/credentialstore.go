package driven

import (
	"context"
	"errors"
)

// ErrEncryptionKeyNotSet is returned by CredentialStore implementations that
// require an encryption key and were constructed without one.
var ErrEncryptionKeyNotSet = errors.New("encryption key not configured: set WATERMYPLANT_SECRET_KEY")

// CredentialStore defines the driven port for durable key/value persistence of
// credentials. Entries are namespaced by store ("auth") and key ("auth_token").
// The adapter layer is responsible for any encryption at rest; this interface
// operates on plaintext values at the domain boundary.
type CredentialStore interface {
	// Set stores or replaces the value for store/key.
	Set(ctx context.Context, store, key, value string) error

	// Get returns the value for store/key and whether it exists.
	Get(ctx context.Context, store, key string) (string, bool, error)

	// Delete removes store/key. Deleting a missing entry is not an error.
	Delete(ctx context.Context, store, key string) error
}
