package storage

import (
	"context"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MemoryOptionStore keeps the whole poll in process memory. It is the default
// backend and the one the tests run against.
type MemoryOptionStore struct {
	mu      sync.Mutex
	order   []string
	picks   map[string]int
	history []*LogEntry
}

func NewMemoryOptionStore() *MemoryOptionStore {
	return &MemoryOptionStore{
		picks: make(map[string]int),
	}
}

func (s *MemoryOptionStore) ListOptions(_ context.Context) ([]*Option, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	options := make([]*Option, 0, len(s.order))
	for _, name := range s.order {
		options = append(options, &Option{Name: name, Picks: s.picks[name]})
	}
	return options, nil
}

func (s *MemoryOptionStore) RecordVote(_ context.Context, option string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.picks[option]; !ok {
		return nil
	}

	id, err := newEntryID()
	if err != nil {
		return err
	}

	s.picks[option]++
	s.history = append(s.history, &LogEntry{
		ID:        id,
		Option:    option,
		Timestamp: time.Now().UTC(),
	})
	return nil
}

func (s *MemoryOptionStore) History(_ context.Context) ([]*LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := make([]*LogEntry, len(s.history))
	copy(entries, s.history)
	return entries, nil
}

func (s *MemoryOptionStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name := range s.picks {
		s.picks[name] = 0
	}
	s.history = nil
	return nil
}

func (s *MemoryOptionStore) EnsureOptions(_ context.Context, names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, name := range names {
		if _, ok := s.picks[name]; !ok {
			s.picks[name] = 0
			s.order = append(s.order, name)
		}
	}
	return nil
}

var entryAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// newEntryID fails only when the platform has no randomness source; the
// error must propagate, entry IDs end up as unique keys in the backends.
func newEntryID() (string, error) {
	return gonanoid.Generate(entryAlphabet, 12)
}
