// Package search runs hotel searches against the booking API: destination
// resolution followed by a results page request for the resolved region.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/region"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Orchestrator runs region resolution and results page requests.
type Orchestrator struct {
	api      providers.API
	resolver *region.Resolver
	timeout  time.Duration
	logger   *slog.Logger
}

// NewOrchestrator creates a new Orchestrator. A zero timeout leaves the
// deadline to the caller's context.
func NewOrchestrator(api providers.API, resolver *region.Resolver, timeout time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		api:      api,
		resolver: resolver,
		timeout:  timeout,
		logger:   logger,
	}
}

// FullOptions controls the combined search.
type FullOptions struct {
	IncludeHP bool
	HPLimit   int
}

// Search validates q, resolves its destination (unless q.RegionID is set) and
// returns the normalized results page in upstream order, truncated to q.ResultCap.
func (o *Orchestrator) Search(ctx context.Context, q types.SearchQuery) (*types.SearchResult, error) {
	if err := types.Validate(q); err != nil {
		return nil, err
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	reg, err := o.region(ctx, q)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := o.api.Post(ctx, providers.EndpointSerpRegion, providers.SerpRequestFor(q, reg.ID))
	if err != nil {
		return nil, fmt.Errorf("search region %s: %w", reg.ID, err)
	}

	hotels := normalize.Hotels(body)
	if q.ResultCap > 0 && len(hotels) > q.ResultCap {
		hotels = hotels[:q.ResultCap]
	}
	for i := range hotels {
		if hotels[i].Coordinates == nil && reg.Name != "" {
			hotels[i].MapURL = normalize.MapURL(hotels[i].Name, nil, reg.Name)
		}
	}

	o.logger.Info("search completed",
		"region_id", reg.ID,
		"checkin", q.CheckIn,
		"nights", q.Nights,
		"adults", q.Adults,
		"hotels", len(hotels),
		"duration_ms", time.Since(start).Milliseconds())

	return &types.SearchResult{
		Region: &reg,
		Hotels: hotels,
		Raw:    json.RawMessage(body),
	}, nil
}

// Full performs the combined search returning results page items together
// with rich content and, optionally, rates for the first opts.HPLimit hotels.
func (o *Orchestrator) Full(ctx context.Context, q types.SearchQuery, opts FullOptions) (*types.FullResult, error) {
	if err := types.Validate(q); err != nil {
		return nil, err
	}
	if opts.HPLimit < 0 {
		return nil, types.NewValidationError("hp_limit", "hp_limit must be at least 0")
	}

	ctx, cancel := o.withTimeout(ctx)
	defer cancel()

	reg, err := o.region(ctx, q)
	if err != nil {
		return nil, err
	}

	body, err := o.api.Post(ctx, providers.EndpointFull, providers.FullRequest{
		SerpRequest: providers.SerpRequestFor(q, reg.ID),
		IncludeHP:   opts.IncludeHP,
		HPLimit:     opts.HPLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("full search region %s: %w", reg.ID, err)
	}

	res := normalize.Full(body)
	o.logger.Info("full search completed",
		"region_id", reg.ID,
		"status", res.Status,
		"items", len(res.Items),
		"include_hp", opts.IncludeHP)

	return res, nil
}

func (o *Orchestrator) region(ctx context.Context, q types.SearchQuery) (types.Region, error) {
	if q.RegionID != "" {
		return types.Region{ID: q.RegionID}, nil
	}
	return o.resolver.Resolve(ctx, q.Destination, q.Language)
}

func (o *Orchestrator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.timeout)
}
