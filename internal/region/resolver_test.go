package region_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/providers/providertest"
	"github.com/alex-user-go/getaway/internal/region"
	"github.com/alex-user-go/getaway/internal/search/types"
)

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    types.Region
		wantErr error
	}{
		{
			name: "prefers city over earlier candidates",
			body: `{"data":{"regions":[
				{"id":"A1","name":"Iceland","type":"Country"},
				{"id":"R1","name":"Reykjavik","type":"City"},
				{"id":"R2","name":"Reykjavik Old Town","type":"City"}
			]}}`,
			want: types.Region{ID: "R1", Name: "Reykjavik", Type: "City"},
		},
		{
			name: "falls back to first candidate",
			body: `{"data":{"regions":[
				{"id":"P1","name":"Blue Lagoon","type":"Point of Interest"},
				{"id":"P2","name":"Lagoon","type":"Neighborhood"}
			]}}`,
			want: types.Region{ID: "P1", Name: "Blue Lagoon", Type: "Point of Interest"},
		},
		{
			name: "numeric id",
			body: `{"data":{"regions":[{"id":2114,"name":"Paris","type":"City"}]}}`,
			want: types.Region{ID: "2114", Name: "Paris", Type: "City"},
		},
		{
			name:    "empty list",
			body:    `{"data":{"regions":[]}}`,
			wantErr: types.ErrNotFound,
		},
		{
			name:    "missing regions",
			body:    `{"data":{}}`,
			wantErr: types.ErrNotFound,
		},
		{
			name:    "chosen candidate without id",
			body:    `{"data":{"regions":[{"name":"Nowhere","type":"City"}]}}`,
			wantErr: types.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := providertest.NewAPI()
			api.Respond(providers.EndpointMulticomplete, http.StatusOK, tt.body)

			r := region.NewResolver(api, slog.New(slog.DiscardHandler))
			got, err := r.Resolve(context.Background(), "Reykjavik", "en")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_RequestBody(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, `{"data":{"regions":[{"id":"R1","type":"City"}]}}`)

	r := region.NewResolver(api, slog.New(slog.DiscardHandler))
	_, err := r.Resolve(context.Background(), "  Reykjavik ", "is")
	require.NoError(t, err)

	calls := api.Calls(providers.EndpointMulticomplete)
	require.Len(t, calls, 1)
	assert.JSONEq(t, `{"query":"Reykjavik","language":"is"}`, string(calls[0].Body))
}

func TestResolver_EmptyQuery(t *testing.T) {
	api := providertest.NewAPI()
	r := region.NewResolver(api, slog.New(slog.DiscardHandler))

	_, err := r.Resolve(context.Background(), "   ", "en")
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Empty(t, api.Calls(""))
}

func TestResolver_UpstreamError(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusInternalServerError, `{"error":"boom"}`)

	r := region.NewResolver(api, slog.New(slog.DiscardHandler))
	_, err := r.Resolve(context.Background(), "Oslo", "en")
	require.ErrorIs(t, err, types.ErrUpstream)
	assert.Contains(t, err.Error(), "boom")
}

func TestPick(t *testing.T) {
	_, ok := region.Pick(nil)
	assert.False(t, ok)

	got, ok := region.Pick([]types.Region{{ID: "x", Type: "Airport"}, {ID: "c", Type: "City"}})
	require.True(t, ok)
	assert.Equal(t, "c", got.ID)
}
