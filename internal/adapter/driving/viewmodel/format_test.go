package viewmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Never", FormatDate(nil))

	ts := time.Date(2024, time.March, 5, 12, 0, 0, 0, time.Local)
	assert.Equal(t, "Mar 05, 2024", FormatDate(&ts))
}

func TestRenderDescription(t *testing.T) {
	tests := []struct {
		name     string
		in       *string
		contains string
		excludes string
	}{
		{name: "nil", in: nil},
		{name: "empty", in: ptr("")},
		{name: "blank", in: ptr("  \n ")},
		{name: "plain", in: ptr("water weekly"), contains: "water weekly"},
		{name: "bold", in: ptr("**bright** light"), contains: "<strong>bright</strong>"},
		{name: "link", in: ptr("[care guide](https://example.com)"), contains: `<a href="https://example.com"`},
		{name: "link nofollow", in: ptr("[care guide](https://example.com)"), contains: `rel="nofollow`},
		{name: "bare url linked", in: ptr("see https://example.com/fern"), contains: `href="https://example.com/fern"`},
		{name: "line break kept", in: ptr("mist leaves\nrotate pot"), contains: "<br"},
		{name: "strikethrough", in: ptr("~~daily~~"), contains: "<del>daily</del>"},
		{name: "script stripped", in: ptr(`<script>alert("x")</script>`), excludes: "<script>"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RenderDescription(tc.in)
			if tc.contains == "" && tc.excludes == "" {
				assert.Empty(t, got)
				return
			}
			if tc.contains != "" {
				assert.Contains(t, got, tc.contains)
			}
			if tc.excludes != "" {
				assert.NotContains(t, got, tc.excludes)
			}
		})
	}
}

func TestCheckForm(t *testing.T) {
	assert.Empty(t, checkForm(loginForm{Username: "a", Password: "b"}, "fallback"))
	assert.Equal(t, "fallback", checkForm(loginForm{Username: "a"}, "fallback"))
	assert.Equal(t, "Passwords do not match",
		checkForm(registerForm{Username: "a", Password: "12345678", Confirm: "1234567"}, "fallback"))
}

func ptr(s string) *string { return &s }
