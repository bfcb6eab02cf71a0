package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail":"Plant not found"}`, want: "Plant not found"},
		{
			name: "validation detail",
			body: `{"detail":[{"loc":["body","name"],"msg":"field required","type":"value_error.missing"},{"loc":["body","last_watered"],"msg":"invalid datetime","type":"type_error"}]}`,
			want: "name: field required; last_watered: invalid datetime",
		},
		{name: "index in loc", body: `{"detail":[{"loc":["body",0],"msg":"bad","type":"x"}]}`, want: "bad"},
		{name: "no detail", body: `{"error":"boom"}`, want: ""},
		{name: "not json", body: `Internal Server Error`, want: ""},
		{name: "empty", body: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestNewAPIError_MessageIsStatusOnly(t *testing.T) {
	err := newAPIError(422, []byte(`{"detail":"nope"}`))
	assert.Equal(t, "error: 422", err.Error())
	assert.Equal(t, "nope", err.Detail)
}
