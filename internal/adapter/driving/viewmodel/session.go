package viewmodel

import (
	"context"
	"log/slog"

	"github.com/ericfisherdev/watermyplant/internal/application"
)

// SessionState decides which screens are reachable.
type SessionState struct {
	Authenticated bool
}

// Session mirrors the authentication stream for root navigation.
type Session struct {
	holder[SessionState]
	auth *application.AuthRepository
}

// NewSession starts mirroring auth's authentication state. The mirror stops
// when ctx is cancelled or Close is called.
func NewSession(ctx context.Context, auth *application.AuthRepository) *Session {
	s := &Session{holder: newHolder(ctx, SessionState{}), auth: auth}
	s.scope.Launch(func(ctx context.Context) {
		for authed := range auth.IsAuthenticated(ctx) {
			s.set(func(SessionState) SessionState {
				return SessionState{Authenticated: authed}
			})
		}
	})
	return s
}

// Logout forgets the current token. The session observes the change through
// the authentication stream.
func (s *Session) Logout() {
	s.scope.Launch(func(ctx context.Context) {
		if err := s.auth.Logout(ctx); err != nil {
			slog.Error("logout failed", "error", err)
		}
	})
}
