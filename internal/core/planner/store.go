package planner

// Listener observes state transitions. It is called synchronously from
// Dispatch, after the new state is in place, and only when next != prev.
type Listener func(prev, next *State, action Action)

type subscription struct {
	id int
	fn Listener
}

// Store holds the current state and dispatches actions through Reduce.
// It has a single writer: Dispatch must not be called concurrently, and
// listeners run on the dispatching goroutine.
type Store struct {
	state     *State
	listeners []subscription
	nextID    int
}

// NewStore creates a store seeded with initial, or NewState when nil.
func NewStore(initial *State) *Store {
	if initial == nil {
		initial = NewState()
	}
	return &Store{state: initial}
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store) State() *State {
	return s.state
}

// Dispatch reduces a into the next state and notifies listeners when the
// state changed. It returns the resulting state.
func (s *Store) Dispatch(a Action) *State {
	prev := s.state
	next := Reduce(prev, a)
	if next == prev {
		return prev
	}

	s.state = next

	// Copy so a listener may unsubscribe while being notified.
	listeners := make([]subscription, len(s.listeners))
	copy(listeners, s.listeners)
	for _, l := range listeners {
		l.fn(prev, next, a)
	}

	return next
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})

	return func() {
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
