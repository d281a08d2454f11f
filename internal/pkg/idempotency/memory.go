package idempotency

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	record    Record
	expiresAt time.Time
}

// MemoryStore keeps records in process memory. Expired entries are ignored
// on read and removed by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Reserve(ctx context.Context, key string, requestHash string, ttl time.Duration) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if e, ok := s.entries[key]; ok && now.Before(e.expiresAt) {
		return e.record, false, nil
	}

	s.entries[key] = memoryEntry{
		record:    Record{RequestHash: requestHash},
		expiresAt: now.Add(ttl),
	}
	return Record{}, true, nil
}

func (s *MemoryStore) Complete(ctx context.Context, key string, record Record, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{record: record, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Release(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Sweep removes expired entries and reports how many were dropped.
func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed, nil
}

// Size returns the number of entries, expired or not.
func (s *MemoryStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
