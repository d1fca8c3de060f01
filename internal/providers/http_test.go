package providers_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/getaway/internal/middleware"
	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/providers/providertest"
	"github.com/alex-user-go/getaway/internal/search/ratelimit"
	"github.com/alex-user-go/getaway/internal/search/types"
)

func newClient(t *testing.T, srv *providertest.Server) *providers.Client {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)
	return providers.NewClient(srv.URL+"/", 2*time.Second, nil, obs.NewMetrics(logger), logger)
}

func TestClient_Post_Success(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointPrebook, http.StatusOK, `{"data":{"status":"ok"}}`)

	client := newClient(t, srv)
	body, err := client.Post(context.Background(), providers.EndpointPrebook, providers.PrebookRequest{OfferID: "of-1"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, string(body))

	calls := srv.Calls(providers.EndpointPrebook)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"offer_id":"of-1"}`, string(calls[0].Body))
}

func TestClient_Post_RequestBodies(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointSerpRegion, http.StatusOK, `{}`)

	q := types.SearchQuery{
		Destination: "Reykjavik", CheckIn: "2025-06-01", Nights: 3, Adults: 2,
		Currency: "EUR", Residency: "gb", Language: "en", ResultCap: 60,
	}
	_, err := newClient(t, srv).Post(context.Background(), providers.EndpointSerpRegion, providers.SerpRequestFor(q, "R1"))
	require.NoError(t, err)

	calls := srv.Calls(providers.EndpointSerpRegion)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{
		"region_id":"R1","checkin":"2025-06-01","checkout":"2025-06-04",
		"guests":[{"adults":2}],"residency":"gb","language":"en","currency":"EUR","hotels_limit":60
	}`, string(calls[0].Body))
}

func TestClient_Post_UpstreamError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "error.message", status: http.StatusBadRequest, body: `{"error":{"message":"offer expired"}}`, wantMsg: "offer expired"},
		{name: "string error", status: http.StatusNotFound, body: `{"error":"unknown hotel"}`, wantMsg: "unknown hotel"},
		{name: "errors title", status: http.StatusUnprocessableEntity, body: `{"errors":[{"title":"Invalid origin"}]}`, wantMsg: "Invalid origin"},
		{name: "generic", status: http.StatusBadGateway, body: `upstream down`, wantMsg: "Request failed: 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := providertest.NewServer(t)
			srv.Respond(providers.EndpointHotelPage, tt.status, tt.body)

			_, err := newClient(t, srv).Post(context.Background(), providers.EndpointHotelPage, providers.HotelPageRequest{ID: "h"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrUpstream))

			var uerr *types.UpstreamError
			require.ErrorAs(t, err, &uerr)
			assert.Equal(t, tt.status, uerr.StatusCode)
			assert.Equal(t, providers.EndpointHotelPage, uerr.Endpoint)
			assert.Equal(t, tt.wantMsg, uerr.Message)
		})
	}
}

func TestClient_Post_SuccessWithInvalidJSONPassesThrough(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointHotelInfo, http.StatusOK, `not json`)

	body, err := newClient(t, srv).Post(context.Background(), providers.EndpointHotelInfo, providers.HotelInfoRequest{ID: "h"})
	require.NoError(t, err)
	assert.Equal(t, "not json", string(body))
}

func TestClient_Post_ContextCancellation(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Handle(providers.EndpointFull, func(json.RawMessage) providertest.Response {
		return providertest.Response{Status: http.StatusOK, Body: `{}`, Delay: time.Second}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := newClient(t, srv).Post(ctx, providers.EndpointFull, providers.FullRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestClient_Post_SendsRequestID(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(middleware.RequestIDHeader)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	logger := slog.New(slog.DiscardHandler)
	client := providers.NewClient(srv.URL, time.Second, nil, obs.NewMetrics(logger), logger)

	ctx := middleware.WithRequestID(context.Background(), "req-1")
	_, err := client.Post(ctx, providers.EndpointMulticomplete, providers.MulticompleteRequest{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "req-1", got)
}

func TestClient_Post_RateLimited(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointPrebook, http.StatusOK, `{}`)

	logger := slog.New(slog.DiscardHandler)
	client := providers.NewClient(srv.URL, time.Second, ratelimit.New(0.001, 1), obs.NewMetrics(logger), logger)

	_, err := client.Post(context.Background(), providers.EndpointPrebook, providers.PrebookRequest{OfferID: "a"})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.Post(ctx, providers.EndpointPrebook, providers.PrebookRequest{OfferID: "a"})
	require.Error(t, err)
	assert.Len(t, srv.Calls(providers.EndpointPrebook), 1)
}
