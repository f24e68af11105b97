package state

import "sync"

type slot[T any] struct {
	mu     sync.Mutex
	active bool
	value  T
}

// Store maps user IDs to at most one session of type T.
type Store[T any] struct {
	mu    sync.Mutex
	slots map[int64]*slot[T]
}

// NewStore returns an empty store.
func NewStore[T any]() *Store[T] {
	return &Store[T]{slots: make(map[int64]*slot[T])}
}

func (s *Store[T]) lookup(userID int64) *slot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slots[userID]
}

// Start creates or replaces the session for userID.
func (s *Store[T]) Start(userID int64, value T) {
	fresh := &slot[T]{active: true, value: value}

	s.mu.Lock()
	old := s.slots[userID]
	s.slots[userID] = fresh
	s.mu.Unlock()

	if old != nil {
		old.mu.Lock()
		old.active = false
		old.mu.Unlock()
	}
}

// Clear removes the session for userID and reports whether one was active.
func (s *Store[T]) Clear(userID int64) bool {
	s.mu.Lock()
	sl := s.slots[userID]
	delete(s.slots, userID)
	s.mu.Unlock()

	if sl == nil {
		return false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	was := sl.active
	sl.active = false
	return was
}

// Update runs fn on the user's session under that user's lock. When fn
// returns true the session is finished and removed. Update reports false
// without calling fn if the user has no active session.
func (s *Store[T]) Update(userID int64, fn func(value *T) (done bool)) bool {
	sl := s.lookup(userID)
	if sl == nil {
		return false
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !sl.active {
		return false
	}
	if !fn(&sl.value) {
		return true
	}

	sl.active = false
	s.mu.Lock()
	if s.slots[userID] == sl {
		delete(s.slots, userID)
	}
	s.mu.Unlock()
	return true
}

// Get returns a copy of the user's session.
func (s *Store[T]) Get(userID int64) (T, bool) {
	var zero T
	sl := s.lookup(userID)
	if sl == nil {
		return zero, false
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if !sl.active {
		return zero, false
	}
	return sl.value, true
}

// Active reports whether userID has a session.
func (s *Store[T]) Active(userID int64) bool {
	_, ok := s.Get(userID)
	return ok
}

// Len returns the number of users with a session.
func (s *Store[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.slots)
}
