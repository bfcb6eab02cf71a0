package viewmodel

import (
	"context"

	"github.com/ericfisherdev/watermyplant/internal/application"
	"github.com/ericfisherdev/watermyplant/internal/domain/model"
)

// RegisterState is the registration screen's snapshot. User is set once the
// account exists and the automatic login succeeded.
type RegisterState struct {
	Action
	User *model.User
}

// Register is the state holder for the registration screen.
type Register struct {
	holder[RegisterState]
	auth *application.AuthRepository
}

// NewRegister creates a Register whose tasks end with ctx.
func NewRegister(ctx context.Context, auth *application.AuthRepository) *Register {
	return &Register{holder: newHolder(ctx, RegisterState{}), auth: auth}
}

// Register validates the form, creates the account and logs in with it.
func (r *Register) Register(username, password, confirm string) {
	form := registerForm{Username: username, Password: password, Confirm: confirm}
	if msg := checkForm(form, "Invalid registration"); msg != "" {
		r.set(func(RegisterState) RegisterState { return RegisterState{Action: invalid(msg)} })
		return
	}

	r.run(
		func(RegisterState) RegisterState { return RegisterState{Action: loading()} },
		func(ctx context.Context) func(RegisterState) RegisterState {
			out := r.auth.Register(ctx, username, password)
			return func(RegisterState) RegisterState {
				if !out.OK() {
					return RegisterState{Action: failed(out.Err())}
				}
				user := out.Value()
				return RegisterState{Action: succeeded(), User: &user}
			}
		},
	)
}
