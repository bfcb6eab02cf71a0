package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/watermyplant/internal/adapter/driven/api"
)

func TestMetrics_CountsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{})
	}))
	t.Cleanup(server.Close)

	reg := prometheus.NewRegistry()
	metrics := api.NewMetrics(reg)

	client, err := api.NewClient(api.Options{BaseURL: server.URL, Metrics: metrics})
	require.NoError(t, err)

	for range 3 {
		_, err := client.ListPlants(context.Background())
		require.NoError(t, err)
	}

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RequestsTotal.WithLabelValues("200", "get")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(metrics.RequestsInFlight), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(metrics.RequestDuration))
}
