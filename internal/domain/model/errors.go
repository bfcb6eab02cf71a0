package model

import "errors"

// ErrUnknownFailure is used when a failure is constructed without a reason.
var ErrUnknownFailure = errors.New("unknown error")
