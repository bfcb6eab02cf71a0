package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{name: "utc", in: `"2026-03-01T08:00:00Z"`, want: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{name: "offset", in: `"2026-03-01T10:00:00+02:00"`, want: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{name: "naive", in: `"2026-03-01T08:00:00"`, want: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)},
		{name: "naive fractional", in: `"2026-03-01T08:00:00.5"`, want: time.Date(2026, 3, 1, 8, 0, 0, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, time.Time(ts).Equal(tt.want), "got %s", time.Time(ts))
			assert.Equal(t, time.UTC, time.Time(ts).Location())
		})
	}
}

func TestTimestamp_UnmarshalInvalid(t *testing.T) {
	var ts timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestTimestamp_NullPointer(t *testing.T) {
	var p plantJSON
	require.NoError(t, json.Unmarshal([]byte(`{"last_watered": null}`), &p))
	assert.Nil(t, p.LastWatered)
}

func TestTimestamp_MarshalUTC(t *testing.T) {
	in := time.Date(2026, 3, 1, 10, 0, 0, 0, time.FixedZone("EET", 2*3600))
	out, err := json.Marshal(timestamp(in))
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-01T08:00:00Z"`, string(out))
}
