package providers

import (
	"context"

	"github.com/alex-user-go/getaway/internal/search/types"
)

// Booking API endpoints.
const (
	EndpointOfferRequests = "/api/offer-requests"
	EndpointMulticomplete = "/api/hotels/multicomplete"
	EndpointSerpRegion    = "/api/hotels/serp/region"
	EndpointHotelPage     = "/api/hotels/hp"
	EndpointPrebook       = "/api/hotels/prebook"
	EndpointHotelInfo     = "/api/hotels/info"
	EndpointFull          = "/api/hotels/full"
)

// API posts a JSON body to a booking API endpoint and returns the raw response body.
// Non-success responses are returned as *types.UpstreamError.
type API interface {
	Post(ctx context.Context, endpoint string, body any) ([]byte, error)
}

// MulticompleteRequest is the destination autocomplete request.
type MulticompleteRequest struct {
	Query    string `json:"query"`
	Language string `json:"language"`
}

// SerpRequest is the hotel results page request for a region.
type SerpRequest struct {
	RegionID    string        `json:"region_id"`
	Checkin     string        `json:"checkin"`
	Checkout    string        `json:"checkout"`
	Guests      []types.Guest `json:"guests"`
	Residency   string        `json:"residency"`
	Language    string        `json:"language"`
	Currency    string        `json:"currency"`
	HotelsLimit int           `json:"hotels_limit"`
}

// FullRequest is the combined search request.
type FullRequest struct {
	SerpRequest
	IncludeHP bool `json:"include_hp"`
	HPLimit   int  `json:"hp_limit"`
}

// HotelPageRequest is the per-hotel rate detail request.
type HotelPageRequest struct {
	ID        string        `json:"id,omitempty"`
	HID       int64         `json:"hid,omitempty"`
	Checkin   string        `json:"checkin"`
	Checkout  string        `json:"checkout"`
	Guests    []types.Guest `json:"guests"`
	Residency string        `json:"residency"`
	Language  string        `json:"language"`
	Currency  string        `json:"currency"`
}

// PrebookRequest is the price lock request.
type PrebookRequest struct {
	OfferID string `json:"offer_id"`
}

// HotelInfoRequest is the hotel rich content request.
type HotelInfoRequest struct {
	ID       string `json:"id,omitempty"`
	HID      int64  `json:"hid,omitempty"`
	Language string `json:"language"`
}

// SerpRequestFor builds a results page request from a query and a resolved region id.
func SerpRequestFor(q types.SearchQuery, regionID string) SerpRequest {
	return SerpRequest{
		RegionID:    regionID,
		Checkin:     q.CheckIn,
		Checkout:    q.CheckOut(),
		Guests:      q.Guests(),
		Residency:   q.Residency,
		Language:    q.Language,
		Currency:    q.Currency,
		HotelsLimit: q.ResultCap,
	}
}
