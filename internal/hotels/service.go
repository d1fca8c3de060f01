// Package hotels implements per-hotel operations: rate enrichment, price lock
// and rich content.
package hotels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/alex-user-go/getaway/internal/normalize"
	"github.com/alex-user-go/getaway/internal/providers"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Service calls the hotel page, prebook and info endpoints.
type Service struct {
	api    providers.API
	logger *slog.Logger
}

// NewService creates a new Service.
func NewService(api providers.API, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		logger: logger,
	}
}

// Rates fetches the full rate listing of one hotel for the dates and occupancy of q.
func (s *Service) Rates(ctx context.Context, ref types.HotelRef, q types.SearchQuery) (*types.HotelRates, error) {
	if ref.Empty() {
		return nil, types.NewValidationError("id", "id or hid is required")
	}
	checkout := q.CheckOut()
	if checkout == "" {
		return nil, types.NewValidationError("checkin", "checkin and nights are required")
	}

	body, err := s.api.Post(ctx, providers.EndpointHotelPage, providers.HotelPageRequest{
		ID:        ref.ID,
		HID:       ref.HID,
		Checkin:   q.CheckIn,
		Checkout:  checkout,
		Guests:    q.Guests(),
		Residency: q.Residency,
		Language:  q.Language,
		Currency:  q.Currency,
	})
	if err != nil {
		return nil, fmt.Errorf("rates for hotel %s: %w", ref.Key(), err)
	}

	rates := normalize.RateOffers(body)
	s.logger.Debug("rates fetched", "hotel", ref.Key(), "offers", len(rates.Offers))

	return rates, nil
}

// Prebook locks the price of an offer. Repeated calls are not de-duplicated.
func (s *Service) Prebook(ctx context.Context, offerID string) (*types.Prebooking, error) {
	offerID = strings.TrimSpace(offerID)
	if offerID == "" {
		return nil, types.NewValidationError("offer_id", "offer_id is required")
	}

	body, err := s.api.Post(ctx, providers.EndpointPrebook, providers.PrebookRequest{OfferID: offerID})
	if err != nil {
		return nil, fmt.Errorf("prebook offer %s: %w", offerID, err)
	}

	s.logger.Info("offer prebooked", "offer_id", offerID)

	return &types.Prebooking{
		OfferID: offerID,
		Raw:     rawJSON(body),
	}, nil
}

// Info fetches the rich content of one hotel.
func (s *Service) Info(ctx context.Context, ref types.HotelRef, language string) (*types.HotelInfo, error) {
	if ref.Empty() {
		return nil, types.NewValidationError("id", "id or hid is required")
	}

	body, err := s.api.Post(ctx, providers.EndpointHotelInfo, providers.HotelInfoRequest{
		ID:       ref.ID,
		HID:      ref.HID,
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("info for hotel %s: %w", ref.Key(), err)
	}

	return &types.HotelInfo{
		Ref: ref,
		Raw: rawJSON(body),
	}, nil
}

// rawJSON keeps body only when it is valid JSON so it can be re-encoded.
func rawJSON(body []byte) json.RawMessage {
	if !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}
