package filter

import (
	"slices"
	"sync"

	"go.uber.org/zap"
)

// State owns every facet of one search session. Range and set facets are
// edited through popovers; the search token and sort order are committed
// directly by the user action that sets them.
type State struct {
	Price         *Popover[Range]
	BedsBaths     *Popover[BedsBaths]
	PropertyTypes *Popover[[]string]
	More          *Popover[MoreFilters]

	logger *zap.Logger

	mu            sync.Mutex
	search        string
	initialSearch string
	sort          Sort
	last          Criteria
	batching      bool
	nextID        int
	listeners     map[int]func(Criteria)
}

func NewState(logger *zap.Logger, initialSearch string) *State {
	if initialSearch == "" {
		initialSearch = DefaultSearch
	}

	s := &State{
		logger:        logger,
		search:        initialSearch,
		initialSearch: initialSearch,
		sort:          SortDefault,
		listeners:     make(map[int]func(Criteria)),
	}

	s.Price = newPopover("price", DefaultPrice,
		withNormalize(func(r Range) Range { return r.Normalize().Clamp(DefaultPrice) }))
	s.BedsBaths = newPopover("beds_baths", DefaultBedsBaths,
		withNormalize(func(b BedsBaths) BedsBaths {
			b.Beds = b.Beds.Normalize().Clamp(DefaultBeds)
			b.Baths = b.Baths.Normalize().Clamp(DefaultBaths)
			return b
		}))
	s.PropertyTypes = newPopover[[]string]("property_types", nil,
		withClone(slices.Clone[[]string]))
	s.More = newPopover("more", DefaultMoreFilters,
		withClone(MoreFilters.clone),
		withNormalize(MoreFilters.normalize))

	s.Price.onCommit = s.committed
	s.BedsBaths.onCommit = s.committed
	s.PropertyTypes.onCommit = s.committed
	s.More.onCommit = s.committed

	s.last = s.Criteria()

	return s
}

// Criteria returns the committed value of every facet.
func (s *State) Criteria() Criteria {
	s.mu.Lock()
	search, sort := s.search, s.sort
	s.mu.Unlock()

	return Criteria{
		Search:        search,
		Sort:          sort,
		Price:         s.Price.Committed(),
		BedsBaths:     s.BedsBaths.Committed(),
		PropertyTypes: s.PropertyTypes.Committed(),
		More:          s.More.Committed(),
	}
}

func (s *State) SetSearch(search string) {
	s.mu.Lock()
	s.search = search
	s.mu.Unlock()

	s.committed("search")
}

func (s *State) SetSort(sort Sort) {
	s.mu.Lock()
	s.sort = sort
	s.mu.Unlock()

	s.committed("sort")
}

// Reset clears every facet and restores the initial search token.
// Subscribers are notified once, with the final criteria.
func (s *State) Reset() {
	s.mu.Lock()
	s.search = s.initialSearch
	s.sort = SortDefault
	s.batching = true
	s.mu.Unlock()

	s.Price.Clear()
	s.BedsBaths.Clear()
	s.PropertyTypes.Clear()
	s.More.Clear()

	s.mu.Lock()
	s.batching = false
	s.mu.Unlock()

	s.committed("reset")
}

// Subscribe registers fn to be called after committed criteria change.
func (s *State) Subscribe(fn func(Criteria)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		delete(s.listeners, id)
	}
}

func (s *State) committed(facet string) {
	s.mu.Lock()
	batching := s.batching
	s.mu.Unlock()
	if batching {
		return
	}

	c := s.Criteria()

	s.mu.Lock()
	if c.Equal(s.last) {
		s.mu.Unlock()
		return
	}
	s.last = c

	listeners := make([]func(Criteria), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	s.logger.Debug("filter committed", zap.String("facet", facet))

	for _, fn := range listeners {
		fn(c)
	}
}
