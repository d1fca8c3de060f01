package search_test

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/providers/providertest"
	"github.com/alex-user-go/getaway/internal/region"
	"github.com/alex-user-go/getaway/internal/search"
	"github.com/alex-user-go/getaway/internal/search/types"
)

const reykjavikRegions = `{"data":{"regions":[
	{"id":"C9","name":"Iceland","type":"Country"},
	{"id":"R1","name":"Reykjavik","type":"City"}
]}}`

const reykjavikSerp = `{"data":{"hotels":[
	{"id":"h-harbor","hid":101,"name":"Harbor Hotel","offers":[{"id":"o1","price":{"total":420,"currency":"EUR"}}]},
	{"id":"h-aurora","hid":102,"name":"Aurora Inn","offers":[{"id":"o2","price":{"total":380,"currency":"EUR"}}]}
]}}`

func newOrchestrator(api providers.API) *search.Orchestrator {
	logger := slog.New(slog.DiscardHandler)
	return search.NewOrchestrator(api, region.NewResolver(api, logger), 2*time.Second, logger)
}

func reykjavikQuery() types.SearchQuery {
	return types.SearchQuery{
		Destination: "Reykjavik",
		CheckIn:     "2025-06-01",
		Nights:      3,
		Adults:      2,
		Currency:    "EUR",
		Residency:   "gb",
		Language:    "en",
		ResultCap:   60,
	}
}

func TestOrchestrator_Search_EndToEnd(t *testing.T) {
	srv := providertest.NewServer(t)
	srv.Respond(providers.EndpointMulticomplete, http.StatusOK, reykjavikRegions)
	srv.Respond(providers.EndpointSerpRegion, http.StatusOK, reykjavikSerp)

	logger := slog.New(slog.DiscardHandler)
	client := providers.NewClient(srv.URL, 2*time.Second, nil, obs.NewMetrics(logger), logger)

	res, err := newOrchestrator(client).Search(context.Background(), reykjavikQuery())
	require.NoError(t, err)

	require.NotNil(t, res.Region)
	assert.Equal(t, "R1", res.Region.ID)
	require.Len(t, res.Hotels, 2)
	assert.Equal(t, "Harbor Hotel", res.Hotels[0].Name)
	assert.Equal(t, "Aurora Inn", res.Hotels[1].Name)

	calls := srv.Calls(providers.EndpointSerpRegion)
	require.Len(t, calls, 1)

	var body struct {
		RegionID string        `json:"region_id"`
		Checkin  string        `json:"checkin"`
		Checkout string        `json:"checkout"`
		Guests   []types.Guest `json:"guests"`
		Limit    int           `json:"hotels_limit"`
	}
	calls[0].Decode(t, &body)
	assert.Equal(t, "R1", body.RegionID)
	assert.Equal(t, "2025-06-01", body.Checkin)
	assert.Equal(t, "2025-06-04", body.Checkout)
	assert.Equal(t, []types.Guest{{Adults: 2}}, body.Guests)
	assert.Equal(t, 60, body.Limit)
}

func TestOrchestrator_Search_ValidationMakesNoCalls(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.SearchQuery)
		field  string
	}{
		{name: "missing destination", mutate: func(q *types.SearchQuery) { q.Destination = "" }, field: "destination"},
		{name: "missing checkin", mutate: func(q *types.SearchQuery) { q.CheckIn = "" }, field: "checkin"},
		{name: "bad checkin", mutate: func(q *types.SearchQuery) { q.CheckIn = "01/06/2025" }, field: "checkin"},
		{name: "zero nights", mutate: func(q *types.SearchQuery) { q.Nights = 0 }, field: "nights"},
		{name: "negative adults", mutate: func(q *types.SearchQuery) { q.Adults = -1 }, field: "adults"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := providertest.NewAPI()
			q := reykjavikQuery()
			tt.mutate(&q)

			_, err := newOrchestrator(api).Search(context.Background(), q)
			require.ErrorIs(t, err, types.ErrValidation)

			var verr *types.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			assert.Empty(t, api.Calls(""))
		})
	}
}

func TestOrchestrator_Search_PreservesOrderAndCaps(t *testing.T) {
	var items []string
	for i := range 10 {
		items = append(items, fmt.Sprintf(`{"id":"h%d","name":"Hotel %d"}`, i, i))
	}

	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, reykjavikRegions)
	api.Respond(providers.EndpointSerpRegion, http.StatusOK, `{"hotels":[`+strings.Join(items, ",")+`]}`)

	q := reykjavikQuery()
	q.ResultCap = 4

	res, err := newOrchestrator(api).Search(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, res.Hotels, 4)
	for i, h := range res.Hotels {
		assert.Equal(t, fmt.Sprintf("h%d", i), h.ID)
	}
}

func TestOrchestrator_Search_NotFound(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, `{"data":{"regions":[]}}`)

	_, err := newOrchestrator(api).Search(context.Background(), reykjavikQuery())
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Empty(t, api.Calls(providers.EndpointSerpRegion))
}

func TestOrchestrator_Search_ByRegionIDSkipsResolution(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointSerpRegion, http.StatusOK, reykjavikSerp)

	q := reykjavikQuery()
	q.Destination = ""
	q.RegionID = "R7"

	res, err := newOrchestrator(api).Search(context.Background(), q)
	require.NoError(t, err)
	assert.Equal(t, "R7", res.Region.ID)
	assert.Empty(t, api.Calls(providers.EndpointMulticomplete))

	var body map[string]any
	api.Calls(providers.EndpointSerpRegion)[0].Decode(t, &body)
	assert.Equal(t, "R7", body["region_id"])
}

func TestOrchestrator_Search_UpstreamError(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, reykjavikRegions)
	api.Respond(providers.EndpointSerpRegion, http.StatusBadGateway, `{"error":{"message":"serp unavailable"}}`)

	_, err := newOrchestrator(api).Search(context.Background(), reykjavikQuery())
	require.ErrorIs(t, err, types.ErrUpstream)
	assert.Contains(t, err.Error(), "serp unavailable")
}

func TestOrchestrator_Search_MapURLUsesRegionName(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, reykjavikRegions)
	api.Respond(providers.EndpointSerpRegion, http.StatusOK, `{"hotels":[
		{"id":"a","name":"Fosshotel"},
		{"id":"b","name":"Canopy","location":{"lat":64.14,"lng":-21.93}}
	]}`)

	res, err := newOrchestrator(api).Search(context.Background(), reykjavikQuery())
	require.NoError(t, err)
	require.Len(t, res.Hotels, 2)
	assert.True(t, strings.HasSuffix(res.Hotels[0].MapURL, "Fosshotel%20Reykjavik"), res.Hotels[0].MapURL)
	assert.True(t, strings.HasSuffix(res.Hotels[1].MapURL, "64.14,-21.93"), res.Hotels[1].MapURL)
}

func TestOrchestrator_Search_ContextCancellation(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointMulticomplete, http.StatusOK, reykjavikRegions)
	api.Handle(providers.EndpointSerpRegion, func(json.RawMessage) providertest.Response {
		return providertest.Response{Body: reykjavikSerp, Delay: time.Second}
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := newOrchestrator(api).Search(ctx, reykjavikQuery())
	require.ErrorIs(t, err, context.Canceled)
}

func TestOrchestrator_Full(t *testing.T) {
	api := providertest.NewAPI()
	api.Respond(providers.EndpointFull, http.StatusOK, `{
		"status":"ok","meta":{"total":2},
		"data":[
			{"serp_item":{"id":"h1","name":"One"},"info":{"stars":4},"hp":{"offers":[{"offer_id":"x1","price":{"total":99,"currency":"EUR"}}]}},
			{"serp_item":{"id":"h2","name":"Two"},"info":{"stars":3}}
		]}`)

	q := reykjavikQuery()
	q.RegionID = "R1"

	res, err := newOrchestrator(api).Full(context.Background(), q, search.FullOptions{IncludeHP: true, HPLimit: 1})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	require.Len(t, res.Items, 2)
	require.NotNil(t, res.Items[0].Rates)
	assert.Equal(t, "x1", res.Items[0].Rates.First().OfferID)
	assert.Nil(t, res.Items[1].Rates)

	var body map[string]any
	api.Calls(providers.EndpointFull)[0].Decode(t, &body)
	assert.Equal(t, true, body["include_hp"])
	assert.EqualValues(t, 1, body["hp_limit"])
	assert.Equal(t, "2025-06-04", body["checkout"])
}

func TestOrchestrator_Full_Validation(t *testing.T) {
	api := providertest.NewAPI()
	q := reykjavikQuery()
	q.RegionID = "R1"

	_, err := newOrchestrator(api).Full(context.Background(), q, search.FullOptions{HPLimit: -1})
	require.ErrorIs(t, err, types.ErrValidation)
	assert.Empty(t, api.Calls(""))
}
