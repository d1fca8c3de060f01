// Package cache holds per-hotel enrichment results for the lifetime of one
// search. Entries never expire on their own; they are dropped by Reset.
package cache

import (
	gocache "github.com/patrickmn/go-cache"

	"github.com/alex-user-go/getaway/internal/search/types"
)

// Store names, as reported in metrics and stats.
const (
	StoreRates   = "rates"
	StoreFlights = "flights"
	StoreInfo    = "info"
)

// ResultCache keeps rates, paired flights and rich content keyed by hotel key.
// The stores are independent: writing one key never touches another.
type ResultCache struct {
	rates   *gocache.Cache
	flights *gocache.Cache
	info    *gocache.Cache
}

// NewResultCache creates an empty ResultCache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		rates:   gocache.New(gocache.NoExpiration, 0),
		flights: gocache.New(gocache.NoExpiration, 0),
		info:    gocache.New(gocache.NoExpiration, 0),
	}
}

// PutRates stores rates for key, overwriting any previous value.
func (c *ResultCache) PutRates(key string, rates *types.HotelRates) {
	c.rates.Set(key, rates, gocache.NoExpiration)
}

// Rates returns the rates stored for key.
func (c *ResultCache) Rates(key string) (*types.HotelRates, bool) {
	return get[*types.HotelRates](c.rates, key)
}

// PutFlight stores the paired flight for key. A nil offer records that no
// flight was found.
func (c *ResultCache) PutFlight(key string, offer *types.FlightOffer) {
	c.flights.Set(key, offer, gocache.NoExpiration)
}

// Flight returns the paired flight stored for key. The offer may be nil when
// the lookup found no flights.
func (c *ResultCache) Flight(key string) (*types.FlightOffer, bool) {
	return get[*types.FlightOffer](c.flights, key)
}

// PutInfo stores rich content for key.
func (c *ResultCache) PutInfo(key string, info *types.HotelInfo) {
	c.info.Set(key, info, gocache.NoExpiration)
}

// Info returns the rich content stored for key.
func (c *ResultCache) Info(key string) (*types.HotelInfo, bool) {
	return get[*types.HotelInfo](c.info, key)
}

// Reset clears every store.
func (c *ResultCache) Reset() {
	c.rates.Flush()
	c.flights.Flush()
	c.info.Flush()
}

// Len returns the number of entries per store.
func (c *ResultCache) Len() map[string]int {
	return map[string]int{
		StoreRates:   c.rates.ItemCount(),
		StoreFlights: c.flights.ItemCount(),
		StoreInfo:    c.info.ItemCount(),
	}
}

func get[T any](store *gocache.Cache, key string) (T, bool) {
	var zero T
	v, ok := store.Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
