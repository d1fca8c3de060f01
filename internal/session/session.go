// Package session owns the state of one interactive search: the current query,
// its hotels and the per-hotel enrichment cache. A new search invalidates
// everything from the previous one, including responses still in flight.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alex-user-go/getaway/internal/obs"
	"github.com/alex-user-go/getaway/internal/search/cache"
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Session errors.
var (
	ErrSuperseded   = errors.New("superseded by a newer search")
	ErrUnknownHotel = errors.New("unknown hotel")
	ErrNoOffer      = errors.New("no offer available to prebook")
	ErrNoSearch     = errors.New("no search yet")
)

// Searcher runs hotel searches.
type Searcher interface {
	Search(ctx context.Context, q types.SearchQuery) (*types.SearchResult, error)
}

// HotelService performs per-hotel operations.
type HotelService interface {
	Rates(ctx context.Context, ref types.HotelRef, q types.SearchQuery) (*types.HotelRates, error)
	Prebook(ctx context.Context, offerID string) (*types.Prebooking, error)
	Info(ctx context.Context, ref types.HotelRef, language string) (*types.HotelInfo, error)
}

// FlightPairer picks a flight for a stay.
type FlightPairer interface {
	Pair(ctx context.Context, q types.FlightQuery) (*types.FlightOffer, error)
}

// Session is safe for concurrent use.
type Session struct {
	searcher Searcher
	hotelSvc HotelService
	pairer   FlightPairer
	cache    *cache.ResultCache
	workers  int
	metrics  *obs.Metrics
	logger   *slog.Logger

	inflight singleflight.Group

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	query  *types.SearchQuery
	region *types.Region
	hotels []types.HotelResult
}

// New creates a new Session. workers bounds Prefetch concurrency.
func New(searcher Searcher, hotelSvc HotelService, pairer FlightPairer, workers int, metrics *obs.Metrics, logger *slog.Logger) *Session {
	if workers < 1 {
		workers = 1
	}
	return &Session{
		searcher: searcher,
		hotelSvc: hotelSvc,
		pairer:   pairer,
		cache:    cache.NewResultCache(),
		workers:  workers,
		metrics:  metrics,
		logger:   logger,
	}
}

// Search starts a new search. The cache and visible results are cleared before
// the network call and the previous in-flight search is cancelled. When another
// search starts before this one returns, the response is discarded and
// ErrSuperseded is returned.
func (s *Session) Search(ctx context.Context, q types.SearchQuery) (*types.SearchResult, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	gen := s.gen
	s.cancel = cancel
	s.query = &q
	s.region = nil
	s.hotels = nil
	s.cache.Reset()
	s.mu.Unlock()

	res, err := s.searcher.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.metrics.IncStaleResponses()
		s.logger.Debug("discarding superseded search", "generation", gen, "current", s.gen)
		return nil, ErrSuperseded
	}
	s.cancel = nil

	if err != nil {
		return nil, err
	}

	s.region = res.Region
	s.hotels = res.Hotels
	return res, nil
}

// Hotel looks up a hotel of the current results by key, or by 1-based
// position when no key matches.
func (s *Session) Hotel(ref string) (types.HotelResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookup(ref)
}

func (s *Session) lookup(ref string) (types.HotelResult, error) {
	if s.query == nil {
		return types.HotelResult{}, ErrNoSearch
	}
	for _, h := range s.hotels {
		if h.Key() == ref {
			return h, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(s.hotels) {
		return s.hotels[n-1], nil
	}
	return types.HotelResult{}, fmt.Errorf("%w: %q", ErrUnknownHotel, ref)
}

// target captures a hotel together with the search it belongs to.
type target struct {
	hotel types.HotelResult
	query types.SearchQuery
	gen   uint64
}

func (s *Session) target(ref string) (target, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, err := s.lookup(ref)
	if err != nil {
		return target{}, err
	}
	return target{hotel: h, query: *s.query, gen: s.gen}, nil
}

// commit runs put when gen is still the current generation.
func (s *Session) commit(gen uint64, put func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.gen {
		s.metrics.IncStaleResponses()
		return ErrSuperseded
	}
	put()
	return nil
}

// Rates fetches and caches the rate listing of a hotel. On failure any
// previously cached rates are kept.
func (s *Session) Rates(ctx context.Context, ref string) (*types.HotelRates, error) {
	t, err := s.target(ref)
	if err != nil {
		return nil, err
	}
	key := t.hotel.Key()

	v, err, _ := s.inflight.Do(flightKey(cache.StoreRates, t.gen, key), func() (any, error) {
		return s.hotelSvc.Rates(ctx, t.hotel.Ref(), t.query)
	})
	if err != nil {
		return nil, err
	}
	rates := v.(*types.HotelRates)

	if err := s.commit(t.gen, func() { s.cache.PutRates(key, rates) }); err != nil {
		return nil, err
	}
	return rates, nil
}

// CachedRates returns the cached rates of a hotel.
func (s *Session) CachedRates(ref string) (*types.HotelRates, bool) {
	h, err := s.Hotel(ref)
	if err != nil {
		return nil, false
	}
	rates, ok := s.cache.Rates(h.Key())
	if ok {
		s.metrics.IncCacheHits(cache.StoreRates)
	}
	return rates, ok
}

// Flight pairs a flight from origin to destination on the check-in date of
// the current search and caches it. A nil offer without error means no
// flight was found.
func (s *Session) Flight(ctx context.Context, ref, origin, destination string) (*types.FlightOffer, error) {
	t, err := s.target(ref)
	if err != nil {
		return nil, err
	}

	offer, err := s.pairer.Pair(ctx, types.FlightQuery{
		Origin:        origin,
		Destination:   destination,
		DepartureDate: t.query.CheckIn,
		Adults:        t.query.Adults,
	})
	if err != nil {
		return nil, err
	}

	if err := s.commit(t.gen, func() { s.cache.PutFlight(t.hotel.Key(), offer) }); err != nil {
		return nil, err
	}
	return offer, nil
}

// Prebook locks the price of the first offer in the hotel's cached rates,
// falling back to the cheapest offer of the results page.
func (s *Session) Prebook(ctx context.Context, ref string) (*types.Prebooking, error) {
	h, err := s.Hotel(ref)
	if err != nil {
		return nil, err
	}

	offerID := ""
	if rates, ok := s.cache.Rates(h.Key()); ok {
		if first := rates.First(); first != nil {
			offerID = first.OfferID
		}
	}
	if offerID == "" {
		offerID = h.CheapestOfferID
	}
	if offerID == "" {
		return nil, fmt.Errorf("%w: hotel %s", ErrNoOffer, h.Key())
	}

	return s.hotelSvc.Prebook(ctx, offerID)
}

// Info fetches and caches the rich content of a hotel.
func (s *Session) Info(ctx context.Context, ref string) (*types.HotelInfo, error) {
	t, err := s.target(ref)
	if err != nil {
		return nil, err
	}
	key := t.hotel.Key()

	v, err, _ := s.inflight.Do(flightKey(cache.StoreInfo, t.gen, key), func() (any, error) {
		return s.hotelSvc.Info(ctx, t.hotel.Ref(), t.query.Language)
	})
	if err != nil {
		return nil, err
	}
	info := v.(*types.HotelInfo)

	if err := s.commit(t.gen, func() { s.cache.PutInfo(key, info) }); err != nil {
		return nil, err
	}
	return info, nil
}

// PrefetchResult summarizes a Prefetch run.
type PrefetchResult struct {
	Fetched int `json:"fetched"`
	Cached  int `json:"cached"`
	Failed  int `json:"failed"`
}

// Prefetch fetches rates for the first n hotels concurrently. Hotels with
// cached rates are skipped. Each completion is cached on its own; failures
// are returned joined.
func (s *Session) Prefetch(ctx context.Context, n int) (PrefetchResult, error) {
	s.mu.Lock()
	if s.query == nil {
		s.mu.Unlock()
		return PrefetchResult{}, ErrNoSearch
	}
	if n <= 0 || n > len(s.hotels) {
		n = len(s.hotels)
	}
	hotels := make([]types.HotelResult, n)
	copy(hotels, s.hotels[:n])
	s.mu.Unlock()

	var (
		mu   sync.Mutex
		res  PrefetchResult
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, h := range hotels {
		key := h.Key()
		if _, ok := s.cache.Rates(key); ok {
			s.metrics.IncCacheHits(cache.StoreRates)
			res.Cached++
			continue
		}

		g.Go(func() error {
			_, err := s.Rates(ctx, key)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				res.Failed++
				errs = append(errs, fmt.Errorf("hotel %s: %w", key, err))
				return nil
			}
			res.Fetched++
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("prefetch completed",
		"fetched", res.Fetched,
		"cached", res.Cached,
		"failed", res.Failed)

	return res, errors.Join(errs...)
}

func flightKey(store string, gen uint64, key string) string {
	return store + ":" + strconv.FormatUint(gen, 10) + ":" + key
}
