package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryEntry struct {
	value    string
	live     bool
	origin   string
	revision int64
}

type memoryBackend struct {
	mu       sync.Mutex
	entries  map[string]memoryEntry
	revision int64
	quota    int64
}

// MemoryStore keeps keys in process memory. Handles returned by Fork share
// the same data but carry distinct origins, like two tabs on one origin.
type MemoryStore struct {
	backend *memoryBackend
	origin  string
}

func NewMemoryStore(quotaBytes int64) *MemoryStore {
	return &MemoryStore{
		backend: &memoryBackend{entries: make(map[string]memoryEntry), quota: quotaBytes},
		origin:  uuid.NewString(),
	}
}

func (s *MemoryStore) Fork() *MemoryStore {
	return &MemoryStore{backend: s.backend, origin: uuid.NewString()}
}

func (s *MemoryStore) Origin() string {
	return s.origin
}

func (s *MemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok || !e.live {
		return "", false, nil
	}
	return e.value, true, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.quota > 0 {
		var used int64
		for k, e := range b.entries {
			if e.live && k != key {
				used += entrySize(k, e.value)
			}
		}
		if used+entrySize(key, value) > b.quota {
			return fmt.Errorf("set %s: %w", key, ErrQuotaExceeded)
		}
	}
	b.revision++
	b.entries[key] = memoryEntry{value: value, live: true, origin: s.origin, revision: b.revision}
	return nil
}

func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok || !e.live {
		return nil
	}
	b.revision++
	b.entries[key] = memoryEntry{origin: s.origin, revision: b.revision}
	return nil
}

func (s *MemoryStore) Revision(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revision, nil
}

func (s *MemoryStore) ChangesSince(ctx context.Context, after int64) ([]Change, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b := s.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Change, 0)
	for k, e := range b.entries {
		if e.revision <= after {
			continue
		}
		out = append(out, Change{Key: k, Value: e.value, Removed: !e.live, Origin: e.origin, Revision: e.revision})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Revision < out[j].Revision })
	return out, nil
}
