package api

import (
	"log/slog"
	"net/http"
	"time"
)

// TokenSource supplies the current bearer token. Current must not block on
// I/O; it is called on every outgoing request.
type TokenSource interface {
	Current() (string, bool)
}

// BearerTransport attaches "Authorization: Bearer <token>" to every request
// while a token is present and passes requests through untouched otherwise.
// A missing token is not an error; the backend rejects the request instead.
type BearerTransport struct {
	Tokens TokenSource
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Tokens != nil {
		if token, ok := t.Tokens.Current(); ok {
			// RoundTrippers must not modify the caller's request.
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return t.base().RoundTrip(req)
}

func (t *BearerTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// loggingTransport logs method, path, status and latency of every request at
// debug level. Headers and bodies are never logged.
type loggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Warn("api request failed",
			"method", req.Method,
			"path", req.URL.Path,
			"duration", elapsed,
			"error", err,
		)
		return nil, err
	}

	t.logger.Debug("api request",
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"duration", elapsed,
	)
	return resp, nil
}
