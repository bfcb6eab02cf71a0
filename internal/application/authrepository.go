package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/watermyplant/internal/domain/model"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// ErrLoginAfterRegistration marks a register call whose account was created
// but whose automatic login failed. The account exists server-side; the user
// can log in separately.
var ErrLoginAfterRegistration = errors.New("failed to login after registration")

// AuthRepository wraps the auth endpoints and keeps the TokenManager in sync
// with successful logins.
type AuthRepository struct {
	api    driven.PlantAPI
	tokens *TokenManager
}

// NewAuthRepository creates a new AuthRepository.
func NewAuthRepository(api driven.PlantAPI, tokens *TokenManager) *AuthRepository {
	return &AuthRepository{api: api, tokens: tokens}
}

// IsAuthenticated streams whether a token is present, starting with the
// current state.
func (r *AuthRepository) IsAuthenticated(ctx context.Context) <-chan bool {
	return r.tokens.Observe(ctx)
}

// Register creates an account and immediately logs in with the same
// credentials. The outcome is a failure when the login fails, even though the
// account now exists; such failures wrap ErrLoginAfterRegistration.
func (r *AuthRepository) Register(ctx context.Context, username, password string) model.Outcome[model.User] {
	user, err := r.api.Register(ctx, username, password)
	if err != nil {
		return model.Failure[model.User](err)
	}

	token, err := r.api.Login(ctx, username, password)
	if err != nil {
		slog.Warn("account registered but automatic login failed", "username", username, "error", err)
		return model.Failure[model.User](fmt.Errorf("%w: %w", ErrLoginAfterRegistration, err))
	}

	if err := r.tokens.Save(ctx, token.AccessToken); err != nil {
		return model.Failure[model.User](fmt.Errorf("%w: %w", ErrLoginAfterRegistration, err))
	}

	slog.Info("registered and logged in", "username", username)
	return model.Success(user)
}

// Login exchanges credentials for a token and persists it.
func (r *AuthRepository) Login(ctx context.Context, username, password string) model.Outcome[model.AuthToken] {
	token, err := r.api.Login(ctx, username, password)
	if err != nil {
		return model.Failure[model.AuthToken](err)
	}

	if err := r.tokens.Save(ctx, token.AccessToken); err != nil {
		return model.Failure[model.AuthToken](err)
	}

	slog.Info("logged in", "username", username)
	return model.Success(token)
}

// CurrentUser fetches the account the current token belongs to.
func (r *AuthRepository) CurrentUser(ctx context.Context) model.Outcome[model.User] {
	user, err := r.api.CurrentUser(ctx)
	return outcomeOf(user, err)
}

// Logout forgets the token. No request is sent to the backend.
func (r *AuthRepository) Logout(ctx context.Context) error {
	if err := r.tokens.Clear(ctx); err != nil {
		return err
	}
	slog.Info("logged out")
	return nil
}
