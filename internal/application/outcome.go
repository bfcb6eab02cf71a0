package application

import "github.com/ericfisherdev/watermyplant/internal/domain/model"

// outcomeOf converts a (value, error) pair into an Outcome.
func outcomeOf[T any](v T, err error) model.Outcome[T] {
	if err != nil {
		return model.Failure[T](err)
	}
	return model.Success(v)
}

// done converts an error-only result into an Outcome with no value.
func done(err error) model.Outcome[struct{}] {
	return outcomeOf(struct{}{}, err)
}
