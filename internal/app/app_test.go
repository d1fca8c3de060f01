package app_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/getaway/internal/app"
	"github.com/alex-user-go/getaway/internal/config"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/providers/providertest"
)

func testConfig(apiBase string) *config.Config {
	return &config.Config{
		APIBase:         apiBase,
		Timeout:         2 * time.Second,
		Currency:        "EUR",
		Residency:       "gb",
		Language:        "en",
		HotelsLimit:     60,
		CabinClass:      "economy",
		PrefetchWorkers: 2,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

func TestApp_SessionSearchAgainstFakeAPI(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointMulticomplete, http.StatusOK, `{"data":{"regions":[{"id":"R1","name":"Reykjavik","type":"City"}]}}`)
	srv.Respond(providers.EndpointSerpRegion, http.StatusOK, `{"data":{"hotels":[{"id":"h1","name":"Harbor"}]}}`)

	a := app.New(testConfig(srv.URL), slog.New(slog.DiscardHandler))

	q := a.Query("Reykjavik", "2025-06-01", 3, 2)
	assert.Equal(t, 60, q.ResultCap)
	assert.Equal(t, "EUR", q.Currency)

	res, err := a.Session.Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res.Hotels, 1)
	assert.Equal(t, "Harbor", res.Hotels[0].Name)

	var body map[string]any
	srv.Calls(providers.EndpointSerpRegion)[0].Decode(t, &body)
	assert.Equal(t, "gb", body["residency"])
}

func TestApp_ServeOpsDisabled(t *testing.T) {
	a := app.New(testConfig("http://127.0.0.1:1"), slog.New(slog.DiscardHandler))
	require.NoError(t, a.ServeOps(context.Background()))
}

func TestApp_ServeOpsStopsOnCancel(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MetricsAddr = "127.0.0.1:0"
	a := app.New(cfg, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.ServeOps(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ServeOps did not return after cancel")
	}
}
