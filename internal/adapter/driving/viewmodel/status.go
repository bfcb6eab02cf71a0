package viewmodel

import (
	"errors"

	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// Status is the lifecycle of a single screen action.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Action is the observable outcome of the most recent action on a screen.
// Err holds a human-readable message when Status is StatusError; Detail holds
// the backend's own explanation when it sent one.
type Action struct {
	Status Status
	Err    string
	Detail string
}

// Loading reports whether an action is in flight.
func (a Action) Loading() bool { return a.Status == StatusLoading }

// Succeeded reports whether the last action completed successfully.
func (a Action) Succeeded() bool { return a.Status == StatusSuccess }

// cleared drops an error so the screen returns to idle.
func (a Action) cleared() Action {
	if a.Status == StatusError {
		return Action{}
	}
	return a
}

func loading() Action   { return Action{Status: StatusLoading} }
func succeeded() Action { return Action{Status: StatusSuccess} }

// invalid reports a form problem found before any request was made.
func invalid(msg string) Action {
	return Action{Status: StatusError, Err: msg}
}

// failed renders err for display.
func failed(err error) Action {
	a := Action{Status: StatusError, Err: err.Error()}
	var apiErr *driven.APIError
	if errors.As(err, &apiErr) {
		a.Detail = apiErr.Detail
	}
	return a
}
