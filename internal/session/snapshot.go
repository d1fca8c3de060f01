package session

import (
	"github.com/alex-user-go/getaway/internal/search/types"
)

// Entry is one hotel of a Snapshot with whatever has been cached for it.
type Entry struct {
	Index         int                `json:"index"`
	Key           string             `json:"key"`
	Hotel         types.HotelResult  `json:"hotel"`
	Rates         *types.HotelRates  `json:"rates,omitempty"`
	Flight        *types.FlightOffer `json:"flight,omitempty"`
	FlightChecked bool               `json:"flight_checked"`
	Info          *types.HotelInfo   `json:"info,omitempty"`
}

// Snapshot is a point-in-time copy of the session for rendering.
type Snapshot struct {
	Generation uint64             `json:"generation"`
	Searching  bool               `json:"searching"`
	Query      *types.SearchQuery `json:"query,omitempty"`
	Region     *types.Region      `json:"region,omitempty"`
	Hotels     []Entry            `json:"hotels"`
	Cache      map[string]int     `json:"cache"`
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Generation: s.gen,
		Searching:  s.cancel != nil,
		Region:     s.region,
		Hotels:     make([]Entry, 0, len(s.hotels)),
		Cache:      s.cache.Len(),
	}
	if s.query != nil {
		q := *s.query
		snap.Query = &q
	}

	for i, h := range s.hotels {
		key := h.Key()
		e := Entry{Index: i + 1, Key: key, Hotel: h}
		e.Rates, _ = s.cache.Rates(key)
		e.Flight, e.FlightChecked = s.cache.Flight(key)
		e.Info, _ = s.cache.Info(key)
		snap.Hotels = append(snap.Hotels, e)
	}
	return snap
}
