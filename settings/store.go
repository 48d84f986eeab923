package settings

import "sync"

// Store holds the current settings value shared by the callers of one session.
type Store struct {
	lock    sync.RWMutex
	current PackageSettings
}

func NewStore(initial PackageSettings) *Store {
	return &Store{current: initial.Clone()}
}

func (s *Store) Get() PackageSettings {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.current.Clone()
}

// Replace swaps the whole settings value.
func (s *Store) Replace(next PackageSettings) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.current = next.Clone()
}

// Update replaces the current value with the result of fn.
func (s *Store) Update(fn func(PackageSettings) PackageSettings) PackageSettings {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.current = fn(s.current.Clone()).Clone()
	return s.current.Clone()
}
