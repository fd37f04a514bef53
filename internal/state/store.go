package state

import "sync"

// Store is the single shared mutable resource of the kiosk client. All
// mutation funnels through Dispatch, which applies the reducers under one
// mutex, so the snapshot always reflects a whole number of events.
type Store struct {
	mu    sync.RWMutex
	state All

	subMu  sync.Mutex
	subs   map[int]func(Event)
	nextID int
}

// NewStore creates a store holding the initial snapshot.
func NewStore() *Store {
	return &Store{
		state: Initial(),
		subs:  map[int]func(Event){},
	}
}

// Dispatch applies the event to every reducer and notifies subscribers.
// Subscribers run after the new snapshot is committed and are notified on
// every dispatch, whether or not any slice changed; the cost of a spurious
// notification is one extra render, not a correctness problem.
func (s *Store) Dispatch(ev Event) {
	s.mu.Lock()
	s.state = Reduce(s.state, ev)
	s.mu.Unlock()

	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

// State returns the latest committed snapshot. Reducers never mutate in
// place, so the snapshot is safe to read without further locking.
func (s *Store) State() All {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers a notification callback and returns a function that
// removes it.
func (s *Store) Subscribe(fn func(Event)) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}
