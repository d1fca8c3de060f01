package types

import (
	"encoding/json"
	"strconv"
)

// RegionTypeCity is the administrative level preferred by region resolution.
const RegionTypeCity = "City"

// Region represents a destination resolved by autocomplete.
type Region struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Money is an amount in a currency.
type Money struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// HotelRef identifies a hotel by its id or its numeric hid.
type HotelRef struct {
	ID  string `json:"id,omitempty"`
	HID int64  `json:"hid,omitempty"`
}

// Empty reports whether neither identifier is set.
func (r HotelRef) Empty() bool {
	return r.ID == "" && r.HID == 0
}

// Key returns the id, falling back to the decimal hid.
func (r HotelRef) Key() string {
	if r.ID != "" {
		return r.ID
	}
	if r.HID != 0 {
		return strconv.FormatInt(r.HID, 10)
	}
	return ""
}

// HotelResult represents a normalized hotel from a results page.
type HotelResult struct {
	ID              string          `json:"id,omitempty"`
	HID             int64           `json:"hid,omitempty"`
	Name            string          `json:"name"`
	Address         string          `json:"address"`
	Coordinates     *Coordinates    `json:"coordinates,omitempty"`
	CheapestPrice   *Money          `json:"cheapest_price,omitempty"`
	CheapestOfferID string          `json:"cheapest_offer_id,omitempty"`
	Image           string          `json:"image"`
	RoomName        string          `json:"room_name"`
	ReviewsCount    int64           `json:"reviews_count"`
	MapURL          string          `json:"map_url"`
	Raw             json.RawMessage `json:"-"`
}

// Ref returns the hotel identifiers.
func (h HotelResult) Ref() HotelRef {
	return HotelRef{ID: h.ID, HID: h.HID}
}

// Key returns the cache key of the hotel.
func (h HotelResult) Key() string {
	return h.Ref().Key()
}

// SearchResult represents a results page for a resolved region.
type SearchResult struct {
	Region *Region         `json:"region,omitempty"`
	Hotels []HotelResult   `json:"hotels"`
	Raw    json.RawMessage `json:"-"`
}

// RateOffer is one bookable rate of a hotel.
type RateOffer struct {
	OfferID  string `json:"offer_id,omitempty"`
	RoomName string `json:"room_name"`
	MealName string `json:"meal_name"`
	Price    *Money `json:"price,omitempty"`
}

// HotelRates is the rate listing of one hotel.
type HotelRates struct {
	Offers []RateOffer     `json:"offers"`
	Raw    json.RawMessage `json:"-"`
}

// First returns the first offer or nil.
func (r *HotelRates) First() *RateOffer {
	if r == nil || len(r.Offers) == 0 {
		return nil
	}
	return &r.Offers[0]
}

// Prebooking is the provider confirmation of a price lock.
type Prebooking struct {
	OfferID string          `json:"offer_id"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// HotelInfo is the rich content payload of one hotel.
type HotelInfo struct {
	Ref HotelRef        `json:"ref"`
	Raw json.RawMessage `json:"raw,omitempty"`
}

// FlightSlice is one directional portion of an itinerary.
type FlightSlice struct {
	Origin       string `json:"origin"`
	Destination  string `json:"destination"`
	SegmentCount int    `json:"segment_count"`
}

// Stops returns the number of intermediate stops.
func (s FlightSlice) Stops() int {
	if s.SegmentCount <= 1 {
		return 0
	}
	return s.SegmentCount - 1
}

// FlightOffer represents a priced itinerary.
type FlightOffer struct {
	ID            string          `json:"id,omitempty"`
	OwnerName     string          `json:"owner_name"`
	Slices        []FlightSlice   `json:"slices"`
	TotalAmount   string          `json:"total_amount"`
	TotalCurrency string          `json:"total_currency"`
	Raw           json.RawMessage `json:"-"`
}

// Direct reports whether every slice is flown on exactly one segment.
func (o FlightOffer) Direct() bool {
	for _, s := range o.Slices {
		if s.SegmentCount != 1 {
			return false
		}
	}
	return true
}

// FlightQuery holds flight pairing parameters.
type FlightQuery struct {
	Origin        string `json:"origin" validate:"required"`
	Destination   string `json:"destination" validate:"required"`
	DepartureDate string `json:"departure_date" validate:"omitempty,datetime=2006-01-02"`
	Adults        int    `json:"adults" validate:"gte=0"`
	CabinClass    string `json:"cabin_class"`
}

// FullItem is one hotel of a combined search.
type FullItem struct {
	Hotel HotelResult     `json:"hotel"`
	Info  json.RawMessage `json:"info,omitempty"`
	Rates *HotelRates     `json:"rates,omitempty"`
}

// FullResult represents a combined search response.
type FullResult struct {
	Status string          `json:"status"`
	Meta   json.RawMessage `json:"meta,omitempty"`
	Items  []FullItem      `json:"items"`
	Raw    json.RawMessage `json:"-"`
}
