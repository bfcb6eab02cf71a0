package api

import (
	"encoding/json"
	"strings"

	"github.com/ericfisherdev/watermyplant/internal/domain/port/driven"
)

// validationError is one entry of a field-validation error body.
type validationError struct {
	Loc  []any  `json:"loc"`
	Msg  string `json:"msg"`
	Type string `json:"type"`
}

// newAPIError builds the error for a non-2xx response. The backend sends
// either {"detail": "..."} or {"detail": [{loc, msg, type}, ...]}; anything
// else leaves Detail empty.
func newAPIError(status int, body []byte) *driven.APIError {
	return &driven.APIError{StatusCode: status, Detail: parseDetail(body)}
}

func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return message
	}

	var fields []validationError
	if err := json.Unmarshal(envelope.Detail, &fields); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		if field := fieldName(f.Loc); field != "" {
			msgs = append(msgs, field+": "+f.Msg)
		} else {
			msgs = append(msgs, f.Msg)
		}
	}
	return strings.Join(msgs, "; ")
}

// fieldName drops the leading location kind ("body", "query") and joins the rest.
func fieldName(loc []any) string {
	parts := make([]string, 0, len(loc))
	for i, l := range loc {
		s, ok := l.(string)
		if !ok {
			continue
		}
		if i == 0 && (s == "body" || s == "query" || s == "path") {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ".")
}
