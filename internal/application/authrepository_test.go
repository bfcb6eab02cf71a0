package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

func newAuthRepo(t *testing.T, api driven.PlantAPI) (*application.AuthRepository, *application.TokenManager, *memStore) {
	t.Helper()
	store := newMemStore()
	tm := application.NewTokenManager(store)
	require.NoError(t, tm.Initialize(context.Background()))
	return application.NewAuthRepository(api, tm), tm, store
}

func TestAuthRepository_LoginSavesToken(t *testing.T) {
	api := &mockAPI{
		login: func(_ context.Context, username, password string) (model.AuthToken, error) {
			assert.Equal(t, "alice", username)
			assert.Equal(t, "s3cretpass", password)
			return model.AuthToken{AccessToken: "tok", TokenType: "bearer"}, nil
		},
	}
	repo, tm, store := newAuthRepo(t, api)

	out := repo.Login(context.Background(), "alice", "s3cretpass")

	require.True(t, out.OK())
	assert.Equal(t, "tok", out.Value().AccessToken)
	token, ok := tm.Current()
	assert.True(t, ok)
	assert.Equal(t, "tok", token)
	persisted, _ := store.value(application.AuthStore, application.TokenKey)
	assert.Equal(t, "tok", persisted)
}

func TestAuthRepository_LoginFailureLeavesNoToken(t *testing.T) {
	api := &mockAPI{
		login: func(context.Context, string, string) (model.AuthToken, error) {
			return model.AuthToken{}, &driven.APIError{StatusCode: 401, Detail: "Incorrect username or password"}
		},
	}
	repo, tm, _ := newAuthRepo(t, api)

	out := repo.Login(context.Background(), "alice", "wrong")

	require.False(t, out.OK())
	assert.EqualError(t, out.Err(), "error: 401")
	_, ok := tm.Current()
	assert.False(t, ok)
}

func TestAuthRepository_LoginSaveFailure(t *testing.T) {
	api := &mockAPI{
		login: func(context.Context, string, string) (model.AuthToken, error) {
			return model.AuthToken{AccessToken: "tok"}, nil
		},
	}
	repo, tm, store := newAuthRepo(t, api)
	store.failSet = errors.New("read-only")

	out := repo.Login(context.Background(), "alice", "pw")

	require.False(t, out.OK())
	assert.ErrorIs(t, out.Err(), store.failSet)
	_, ok := tm.Current()
	assert.False(t, ok)
}

func TestAuthRepository_RegisterLogsIn(t *testing.T) {
	userID := uuid.New()
	var calls []string
	api := &mockAPI{
		register: func(_ context.Context, username, _ string) (model.User, error) {
			calls = append(calls, "register")
			return model.User{ID: userID, Username: username, IsActive: true}, nil
		},
		login: func(_ context.Context, username, password string) (model.AuthToken, error) {
			calls = append(calls, "login")
			assert.Equal(t, "bob", username)
			assert.Equal(t, "longenough", password)
			return model.AuthToken{AccessToken: "fresh"}, nil
		},
	}
	repo, tm, _ := newAuthRepo(t, api)

	out := repo.Register(context.Background(), "bob", "longenough")

	require.True(t, out.OK())
	assert.Equal(t, userID, out.Value().ID)
	assert.Equal(t, []string{"register", "login"}, calls)
	token, ok := tm.Current()
	assert.True(t, ok)
	assert.Equal(t, "fresh", token)
}

func TestAuthRepository_RegisterFailureSkipsLogin(t *testing.T) {
	api := &mockAPI{
		register: func(context.Context, string, string) (model.User, error) {
			return model.User{}, &driven.APIError{StatusCode: 400, Detail: "Username already registered"}
		},
	}
	repo, _, _ := newAuthRepo(t, api)

	out := repo.Register(context.Background(), "bob", "longenough")

	require.False(t, out.OK())
	status, ok := driven.StatusCode(out.Err())
	require.True(t, ok)
	assert.Equal(t, 400, status)
	assert.NotErrorIs(t, out.Err(), application.ErrLoginAfterRegistration)
}

func TestAuthRepository_RegisterLoginFails(t *testing.T) {
	api := &mockAPI{
		register: func(_ context.Context, username, _ string) (model.User, error) {
			return model.User{ID: uuid.New(), Username: username}, nil
		},
		login: func(context.Context, string, string) (model.AuthToken, error) {
			return model.AuthToken{}, &driven.APIError{StatusCode: 500}
		},
	}
	repo, tm, _ := newAuthRepo(t, api)

	out := repo.Register(context.Background(), "bob", "longenough")

	require.False(t, out.OK())
	assert.ErrorIs(t, out.Err(), application.ErrLoginAfterRegistration)
	status, ok := driven.StatusCode(out.Err())
	require.True(t, ok)
	assert.Equal(t, 500, status)
	_, ok = tm.Current()
	assert.False(t, ok)
}

func TestAuthRepository_CurrentUser(t *testing.T) {
	api := &mockAPI{
		currentUser: func(context.Context) (model.User, error) {
			return model.User{Username: "carol", IsActive: true}, nil
		},
	}
	repo, _, _ := newAuthRepo(t, api)

	out := repo.CurrentUser(context.Background())

	require.True(t, out.OK())
	assert.Equal(t, "carol", out.Value().Username)
}

func TestAuthRepository_LoginLogoutStream(t *testing.T) {
	api := &mockAPI{
		login: func(context.Context, string, string) (model.AuthToken, error) {
			return model.AuthToken{AccessToken: "tok"}, nil
		},
	}
	repo, tm, store := newAuthRepo(t, api)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	authed := repo.IsAuthenticated(ctx)
	assert.False(t, next(t, authed))

	require.True(t, repo.Login(ctx, "alice", "pw").OK())
	assert.True(t, next(t, authed))

	require.NoError(t, repo.Logout(ctx))
	assert.False(t, next(t, authed))

	_, ok := tm.Current()
	assert.False(t, ok)
	_, ok = store.value(application.AuthStore, application.TokenKey)
	assert.False(t, ok)
}

func TestAuthRepository_LogoutStoreError(t *testing.T) {
	repo, tm, store := newAuthRepo(t, &mockAPI{})
	require.NoError(t, tm.Save(context.Background(), "tok"))
	store.failDelete = errors.New("locked")

	err := repo.Logout(context.Background())

	require.Error(t, err)
	_, ok := tm.Current()
	assert.False(t, ok)
}
