package line

import "sync"

// eventSet remembers the most recent webhook event ids, oldest evicted first.
type eventSet struct {
	mu    sync.Mutex
	size  int
	order []string
	seen  map[string]struct{}
}

func newEventSet(size int) *eventSet {
	if size <= 0 {
		size = 1024
	}
	return &eventSet{
		size: size,
		seen: make(map[string]struct{}, size),
	}
}

func (s *eventSet) Has(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func (s *eventSet) Add(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return
	}
	if len(s.order) >= s.size {
		delete(s.seen, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, id)
	s.seen[id] = struct{}{}
}
