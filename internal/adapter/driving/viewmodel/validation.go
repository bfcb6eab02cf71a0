package viewmodel

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

// notblank ships with validator but is not registered by default.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(fmt.Sprintf("register notblank validation: %v", err))
	}
	return v
}

type loginForm struct {
	Username string `validate:"notblank"`
	Password string `validate:"notblank"`
}

type registerForm struct {
	Username string `validate:"notblank"`
	Password string `validate:"notblank,min=8"`
	Confirm  string `validate:"eqfield=Password"`
}

type plantForm struct {
	Name string `validate:"notblank"`
	Type string `validate:"notblank"`
}

var formMessages = map[string]string{
	"registerForm.Username.notblank": "Username cannot be empty",
	"registerForm.Password.notblank": "Password cannot be empty",
	"registerForm.Password.min":      "Password must be at least 8 characters",
	"registerForm.Confirm.eqfield":   "Passwords do not match",
	"plantForm.Name.notblank":        "Name cannot be empty",
	"plantForm.Type.notblank":        "Type cannot be empty",
}

// checkForm validates form and returns the message for its first violation,
// or "" when the form is valid. Fields are checked in declaration order.
func checkForm(form any, fallback string) string {
	err := validate.Struct(form)
	if err == nil {
		return ""
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) || len(violations) == 0 {
		return fallback
	}
	if msg, ok := formMessages[violations[0].Namespace()+"."+violations[0].Tag()]; ok {
		return msg
	}
	return fallback
}
