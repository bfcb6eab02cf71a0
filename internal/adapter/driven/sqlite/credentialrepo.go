package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port interface.
// When constructed with a key, values are encrypted with AES-256-GCM before write
// and decrypted after read. Without a key, values are stored as plaintext and any
// previously encrypted row fails to read with ErrEncryptionKeyNotSet.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil when encryption is disabled.
}

// NewCredentialRepo creates a new CredentialRepo. key must be 32 bytes for
// AES-256-GCM, or nil to store values unencrypted.
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, key: key}
}

// Set stores or replaces the value for store/key.
func (r *CredentialRepo) Set(ctx context.Context, store, key, value string) error {
	stored := value
	encrypted := 0
	if r.key != nil {
		var err error
		stored, err = r.encrypt(value)
		if err != nil {
			return err
		}
		encrypted = 1
	}

	const query = `INSERT OR REPLACE INTO credentials (store, key, value, encrypted, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.Writer.ExecContext(ctx, query, store, key, stored, encrypted); err != nil {
		return fmt.Errorf("set credential %s/%s: %w", store, key, err)
	}
	return nil
}

// Get returns the value for store/key. The boolean is false when no entry exists.
func (r *CredentialRepo) Get(ctx context.Context, store, key string) (string, bool, error) {
	const query = `SELECT value, encrypted FROM credentials WHERE store = ? AND key = ?`

	var stored string
	var encrypted bool
	err := r.db.Reader.QueryRowContext(ctx, query, store, key).Scan(&stored, &encrypted)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get credential %s/%s: %w", store, key, err)
	}

	if !encrypted {
		return stored, true, nil
	}
	if r.key == nil {
		return "", false, driven.ErrEncryptionKeyNotSet
	}

	plaintext, err := r.decrypt(stored)
	if err != nil {
		return "", false, fmt.Errorf("decrypt credential %s/%s: %w", store, key, err)
	}
	return plaintext, true, nil
}

// Delete removes the value for store/key.
func (r *CredentialRepo) Delete(ctx context.Context, store, key string) error {
	const query = `DELETE FROM credentials WHERE store = ? AND key = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, store, key); err != nil {
		return fmt.Errorf("delete credential %s/%s: %w", store, key, err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded string
// containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CredentialRepo) encrypt(plaintext string) (string, error) {
	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CredentialRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := r.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}

func (r *CredentialRepo) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(r.key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
