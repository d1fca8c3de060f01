package obs_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/getaway/internal/obs"
)

func TestMetrics_Counters(t *testing.T) {
	m := obs.NewMetrics(slog.New(slog.DiscardHandler))

	m.ObserveRequest("/api/hotels/hp", 200, 0.05)
	m.ObserveRequest("/api/hotels/hp", 502, 0.10)
	m.IncUpstreamErrors("/api/hotels/hp")
	m.IncCacheHits("rates")
	m.IncCacheHits("rates")
	m.IncStaleResponses()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["getaway_upstream_requests_total"])
	assert.True(t, names["getaway_upstream_errors_total"])
	assert.True(t, names["getaway_cache_hits_total"])
	assert.True(t, names["getaway_stale_responses_total"])
	assert.True(t, names["getaway_upstream_request_duration_seconds"])

	count, err := testutil.GatherAndCount(m.Registry(), "getaway_upstream_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricsHandler(t *testing.T) {
	m := obs.NewMetrics(slog.New(slog.DiscardHandler))
	m.IncStaleResponses()

	rec := httptest.NewRecorder()
	m.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "getaway_stale_responses_total 1")
}

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	obs.HealthHandler(slog.New(slog.DiscardHandler))(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
