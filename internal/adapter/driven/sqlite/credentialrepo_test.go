package sqlite

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func TestCredentialRepo_SetAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	err := repo.Set(ctx, "auth", "auth_token", "tok-abc123")
	require.NoError(t, err)

	val, ok, err := repo.Get(ctx, "auth", "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-abc123", val)
}

func TestCredentialRepo_GetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	val, ok, err := repo.Get(context.Background(), "auth", "nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "", val)
}

func TestCredentialRepo_UpsertOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "old-value"))
	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "new-value"))

	val, ok, err := repo.Get(ctx, "auth", "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new-value", val)
}

func TestCredentialRepo_StoresAreIsolated(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "a"))

	_, ok, err := repo.Get(ctx, "other", "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialRepo_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "tok"))
	require.NoError(t, repo.Delete(ctx, "auth", "auth_token"))

	_, ok, err := repo.Get(ctx, "auth", "auth_token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCredentialRepo_DeleteNonexistent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)

	err := repo.Delete(context.Background(), "auth", "nonexistent")
	assert.NoError(t, err, "deleting nonexistent credential should not error")
}

func TestCredentialRepo_EncryptsAtRest(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, testKey)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "plain-token"))

	var raw string
	err := db.Reader.QueryRowContext(ctx, `SELECT value FROM credentials WHERE store = 'auth' AND key = 'auth_token'`).Scan(&raw)
	require.NoError(t, err)
	assert.NotContains(t, raw, "plain-token")
}

func TestCredentialRepo_PlaintextWithoutKey(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCredentialRepo(db, nil)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "auth", "auth_token", "plain-token"))

	val, ok, err := repo.Get(ctx, "auth", "auth_token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "plain-token", val)
}

func TestCredentialRepo_EncryptedRowWithoutKey(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, NewCredentialRepo(db, testKey).Set(ctx, "auth", "auth_token", "secret"))

	_, _, err := NewCredentialRepo(db, nil).Get(ctx, "auth", "auth_token")
	assert.ErrorIs(t, err, driven.ErrEncryptionKeyNotSet)
}
