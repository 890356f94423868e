package schedule

import "sync"

// sliceLocks hands out one mutex per topology slice so that a conflict
// check and the subsequent insert run as a unit against the store. Entries
// are created on first use and kept for the process lifetime; the key space
// is bounded by the number of active slices.
type sliceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSliceLocks() *sliceLocks {
	return &sliceLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for key and returns its unlock function.
func (s *sliceLocks) lock(key string) func() {
	s.mu.Lock()
	m, ok := s.locks[key]
	if !ok {
		m = &sync.Mutex{}
		s.locks[key] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}
