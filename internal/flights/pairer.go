// Package flights pairs a hotel stay with a flight offer.
package flights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// DefaultCabinClass is used when neither the query nor the pairer sets one.
const DefaultCabinClass = "economy"

// Pairer requests flight offers and picks one to pair with a stay.
type Pairer struct {
	api        providers.API
	cabinClass string
	logger     *slog.Logger
}

// NewPairer creates a new Pairer. cabinClass is the default for queries that
// leave it empty.
func NewPairer(api providers.API, cabinClass string, logger *slog.Logger) *Pairer {
	if cabinClass == "" {
		cabinClass = DefaultCabinClass
	}
	return &Pairer{
		api:        api,
		cabinClass: cabinClass,
		logger:     logger,
	}
}

// Offers returns all offers for q in provider order.
func (p *Pairer) Offers(ctx context.Context, q types.FlightQuery) ([]types.FlightOffer, error) {
	q = p.prepare(q)
	if err := types.Validate(q); err != nil {
		return nil, err
	}

	body, err := p.api.Post(ctx, providers.EndpointOfferRequests, q)
	if err != nil {
		return nil, fmt.Errorf("flight offers %s-%s: %w", q.Origin, q.Destination, err)
	}

	offers := normalize.FlightOffers(body)
	p.logger.Debug("flight offers fetched",
		"origin", q.Origin,
		"destination", q.Destination,
		"departure_date", q.DepartureDate,
		"offers", len(offers))

	return offers, nil
}

// Pair returns the first fully direct offer, else the first offer. It returns
// nil without error when there are no offers.
func (p *Pairer) Pair(ctx context.Context, q types.FlightQuery) (*types.FlightOffer, error) {
	offers, err := p.Offers(ctx, q)
	if err != nil {
		return nil, err
	}
	return Select(offers), nil
}

// Select picks the first offer whose slices are all direct, falling back to
// the first offer. Provider order is assumed to be a ranking.
func Select(offers []types.FlightOffer) *types.FlightOffer {
	if len(offers) == 0 {
		return nil
	}
	for i := range offers {
		if offers[i].Direct() {
			return &offers[i]
		}
	}
	return &offers[0]
}

func (p *Pairer) prepare(q types.FlightQuery) types.FlightQuery {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	q.CabinClass = strings.TrimSpace(q.CabinClass)
	if q.CabinClass == "" {
		q.CabinClass = p.cabinClass
	}
	if q.Adults < 1 {
		q.Adults = 1
	}
	return q
}
