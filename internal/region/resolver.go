// Package region resolves free-text destinations to booking API regions.
package region

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Resolver maps a destination query to a region using the autocomplete endpoint.
type Resolver struct {
	api    providers.API
	logger *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(api providers.API, logger *slog.Logger) *Resolver {
	return &Resolver{
		api:    api,
		logger: logger,
	}
}

// Resolve returns the first City candidate for query, else the first candidate.
// It fails with *types.NotFoundError when there is no candidate or the chosen
// one has no id.
func (r *Resolver) Resolve(ctx context.Context, query, language string) (types.Region, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return types.Region{}, types.NewValidationError("destination", "destination is required")
	}

	body, err := r.api.Post(ctx, providers.EndpointMulticomplete, providers.MulticompleteRequest{
		Query:    query,
		Language: language,
	})
	if err != nil {
		return types.Region{}, fmt.Errorf("autocomplete %q: %w", query, err)
	}

	candidates := normalize.Regions(body)
	region, ok := Pick(candidates)
	if !ok {
		r.logger.Warn("no region found", "query", query, "candidates", len(candidates))
		return types.Region{}, &types.NotFoundError{Query: query}
	}

	r.logger.Debug("region resolved",
		"query", query,
		"region_id", region.ID,
		"region_name", region.Name,
		"region_type", region.Type)

	return region, nil
}

// Pick chooses the first City candidate, else the first candidate. It reports
// false when the list is empty or the chosen candidate has no id.
func Pick(candidates []types.Region) (types.Region, bool) {
	if len(candidates) == 0 {
		return types.Region{}, false
	}

	chosen := candidates[0]
	for _, c := range candidates {
		if c.Type == types.RegionTypeCity {
			chosen = c
			break
		}
	}

	if chosen.ID == "" {
		return types.Region{}, false
	}
	return chosen, true
}
