package listing

import "sync"

// Store keeps listings in arrival order, keyed by ID. Merges never produce
// duplicate IDs and never overwrite the local IsSaved flag of a listing that
// is already present.
type Store struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Listing
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]Listing),
	}
}

// Replace drops everything that is not in items. Listings that were present
// before keep their IsSaved flag.
func (s *Store) Replace(items []Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.byID

	s.order = make([]string, 0, len(items))
	s.byID = make(map[string]Listing, len(items))

	s.mergeLocked(items, prev)
}

// Append adds a page of listings after the existing ones. An ID already in
// the store keeps its position; the new instance supersedes the old one
// except for IsSaved.
func (s *Store) Append(items []Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.mergeLocked(items, s.byID)
}

func (s *Store) mergeLocked(items []Listing, prev map[string]Listing) {
	for _, item := range items {
		if old, ok := prev[item.ID]; ok {
			item.IsSaved = old.IsSaved
		}

		if _, ok := s.byID[item.ID]; !ok {
			s.order = append(s.order, item.ID)
		}

		s.byID[item.ID] = item
	}
}

// SetSaved returns the previous flag and whether the listing exists.
func (s *Store) SetSaved(id string, saved bool) (bool, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.byID[id]
	if !ok {
		return false, false
	}

	prev := item.IsSaved
	item.IsSaved = saved
	s.byID[id] = item

	return prev, true
}

func (s *Store) Get(id string) (Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.byID[id]
	return item, ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}

func (s *Store) All() []Listing {
	return s.Slice(-1)
}

// Slice returns at most limit listings in order. A negative limit means all.
func (s *Store) Slice(limit int) []Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.order)
	if limit >= 0 && limit < n {
		n = limit
	}

	out := make([]Listing, 0, n)
	for _, id := range s.order[:n] {
		out = append(out, s.byID[id])
	}

	return out
}

func (s *Store) Clear() {
	s.Replace(nil)
}
