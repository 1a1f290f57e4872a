// Package session binds a user's menu selection back to the originating
// request. Two interchangeable strategies exist: a server-held store keyed by
// the menu message, or a self-contained token carried by the button itself.
package session

import "sync"

// Store holds open correlations keyed by the anchor (the menu message ID).
// Resolve consumes destructively: only the first caller for an anchor
// succeeds.
type Store interface {
	Open(anchor int64, url string)
	Resolve(anchor int64) (string, error)
	Invalidate(anchor int64)
	Len() int
}

// MemoryStore is the in-process Store. State does not survive a restart; any
// correlation open at restart surfaces to the user as an expired link.
type MemoryStore struct {
	mu   sync.Mutex
	urls map[int64]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{urls: make(map[int64]string)}
}

// Open records anchor -> url, replacing any previous entry for the anchor.
func (s *MemoryStore) Open(anchor int64, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[anchor] = url
}

// Resolve looks up and deletes the entry in one critical section, so
// concurrent resolves on the same anchor observe at most one success.
func (s *MemoryStore) Resolve(anchor int64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.urls[anchor]
	if !ok {
		return "", ErrCorrelationExpired
	}
	delete(s.urls, anchor)
	return url, nil
}

// Invalidate removes the entry if present. Safe to call on consumed anchors.
func (s *MemoryStore) Invalidate(anchor int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.urls, anchor)
}

// Len reports the number of open correlations.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
