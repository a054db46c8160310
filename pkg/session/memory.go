package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/flickergrid/flickergrid/pkg/design"
)

// MemoryStore keeps sessions in a map. It backs tests and `serve --no-persist`.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
	now      func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]string{}, now: time.Now}
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sessions))
	for n := range s.sessions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) Get(ctx context.Context, name string) (string, error) {
	name, err := lookupName(name)
	if err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.sessions[name]
	if !ok {
		return "", notFound(name)
	}
	return text, nil
}

func (s *MemoryStore) Save(ctx context.Context, name, text string) (string, error) {
	name, patches, err := prepare(name, text, s.now())
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[name] = design.Serialize(patches)
	return name, nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	name, err := lookupName(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[name]; !ok {
		return notFound(name)
	}
	delete(s.sessions, name)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
