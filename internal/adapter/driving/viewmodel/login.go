package viewmodel

import (
	"context"
	"net/http"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// Messages shown by the login screen.
const (
	MsgFillAllFields  = "Please fill in all fields"
	MsgBadCredentials = "Incorrect username or password"
)

// LoginState is the login screen's snapshot.
type LoginState struct {
	Action
}

// Login is the state holder for the login screen.
type Login struct {
	holder[LoginState]
	auth *application.AuthRepository
}

// NewLogin creates a Login whose tasks end with ctx.
func NewLogin(ctx context.Context, auth *application.AuthRepository) *Login {
	return &Login{holder: newHolder(ctx, LoginState{}), auth: auth}
}

// Login checks that both fields are filled and then exchanges them for a
// token. A rejected username or password is reported without the status
// code.
func (l *Login) Login(username, password string) {
	if msg := checkForm(loginForm{Username: username, Password: password}, MsgFillAllFields); msg != "" {
		l.set(func(LoginState) LoginState { return LoginState{Action: invalid(msg)} })
		return
	}

	l.run(
		func(LoginState) LoginState { return LoginState{Action: loading()} },
		func(ctx context.Context) func(LoginState) LoginState {
			out := l.auth.Login(ctx, username, password)
			return func(LoginState) LoginState {
				if out.OK() {
					return LoginState{Action: succeeded()}
				}
				return LoginState{Action: loginFailure(out.Err())}
			}
		},
	)
}

func loginFailure(err error) Action {
	a := failed(err)
	if code, ok := driven.StatusCode(err); ok && (code == http.StatusUnauthorized || code == http.StatusBadRequest) {
		a.Err = MsgBadCredentials
	}
	return a
}
