package viewmodel_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watermyplant/internal/adapter/driving/viewmodel"
)

func TestRegister_FormErrors(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		confirm  string
		want     string
	}{
		{name: "blank username", username: " ", password: "longenough", confirm: "longenough", want: "Username cannot be empty"},
		{name: "blank password", username: "bob", password: "  ", confirm: "  ", want: "Password cannot be empty"},
		{name: "short password", username: "bob", password: "short", confirm: "short", want: "Password must be at least 8 characters"},
		{name: "mismatch", username: "bob", password: "longenough", confirm: "longenougH", want: "Passwords do not match"},
		{name: "username checked first", username: "", password: "", confirm: "x", want: "Username cannot be empty"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			r := viewmodel.NewRegister(context.Background(), e.auth)
			defer r.Close()

			r.Register(tc.username, tc.password, tc.confirm)
			r.Wait()

			assert.Equal(t, viewmodel.StatusError, r.State().Status)
			assert.Equal(t, tc.want, r.State().Err)
			assert.Zero(t, e.backend.Calls(http.MethodPost, "/auth/register"))
		})
	}
}

func TestRegister_Success(t *testing.T) {
	e := newEnv(t)
	r := viewmodel.NewRegister(context.Background(), e.auth)
	defer r.Close()

	r.Register("bob", "longenough", "longenough")
	r.Wait()

	state := r.State()
	require.True(t, state.Succeeded(), state.Err)
	require.NotNil(t, state.User)
	assert.Equal(t, "bob", state.User.Username)
	_, ok := e.tokens.Current()
	assert.True(t, ok, "registration logs in")
}

func TestRegister_Taken(t *testing.T) {
	e := newEnv(t)
	r := viewmodel.NewRegister(context.Background(), e.auth)
	defer r.Close()

	r.Register(testUser, "longenough", "longenough")
	r.Wait()

	assert.Equal(t, "error: 400", r.State().Err)
	assert.Equal(t, "Username already registered", r.State().Detail)
}

func TestRegister_LoginAfterCreateFails(t *testing.T) {
	e := newEnv(t)
	e.backend.Fail(http.MethodPost, "/auth/token", http.StatusServiceUnavailable)
	r := viewmodel.NewRegister(context.Background(), e.auth)
	defer r.Close()

	r.Register("bob", "longenough", "longenough")
	r.Wait()

	state := r.State()
	assert.Equal(t, viewmodel.StatusError, state.Status)
	assert.Contains(t, state.Err, "failed to login after registration")
	assert.Nil(t, state.User)
}
