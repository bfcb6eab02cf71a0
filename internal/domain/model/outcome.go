package model

// Outcome is the result of a repository operation: either a success carrying
// a value or a failure carrying a reason. Exactly one of the two holds.
type Outcome[T any] struct {
	value T
	err   error
}

// Success wraps v as a successful outcome.
func Success[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Failure wraps err as a failed outcome. A nil err is replaced with
// ErrUnknownFailure so a failure can never be mistaken for a success.
func Failure[T any](err error) Outcome[T] {
	if err == nil {
		err = ErrUnknownFailure
	}
	return Outcome[T]{err: err}
}

// OK reports whether the outcome is a success.
func (o Outcome[T]) OK() bool {
	return o.err == nil
}

// Value returns the success value, or the zero value on failure.
func (o Outcome[T]) Value() T {
	return o.value
}

// Err returns the failure reason, or nil on success.
func (o Outcome[T]) Err() error {
	return o.err
}

// Get returns the outcome in Go's (value, error) form.
func (o Outcome[T]) Get() (T, error) {
	return o.value, o.err
}
