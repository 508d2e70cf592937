package persistence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/colony-go/internal/domain/mission"
)

var _ mission.MemoryStore = (*CachedMemoryStore)(nil)

// CachedMemoryStore is the in-process mission memory. Missions load and save
// against the cache every tick; dirty namespaces reach the repository only on
// Flush. A nil repository keeps everything in memory.
type CachedMemoryStore struct {
	mu    sync.Mutex
	repo  MissionMemoryRepository
	cache map[string][]byte
	dirty map[string]bool
}

// NewCachedMemoryStore creates a store backed by repo
func NewCachedMemoryStore(repo MissionMemoryRepository) *CachedMemoryStore {
	return &CachedMemoryStore{
		repo:  repo,
		cache: make(map[string][]byte),
		dirty: make(map[string]bool),
	}
}

// Load decodes the namespace into dst. Returns false when nothing was stored.
func (s *CachedMemoryStore) Load(ctx context.Context, namespace string, dst interface{}) (bool, error) {
	s.mu.Lock()
	raw, ok := s.cache[namespace]
	s.mu.Unlock()

	if !ok && s.repo != nil {
		record, err := s.repo.Get(ctx, namespace)
		if err != nil {
			return false, err
		}
		if record != nil {
			raw, ok = record.Data, true
			s.mu.Lock()
			s.cache[namespace] = raw
			s.mu.Unlock()
		}
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return true, fmt.Errorf("failed to decode memory %s: %w", namespace, err)
	}
	return true, nil
}

// Save encodes src into the cache. Unchanged values do not mark the namespace dirty.
func (s *CachedMemoryStore) Save(ctx context.Context, namespace string, src interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("failed to encode memory %s: %w", namespace, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.cache[namespace]; ok && bytes.Equal(existing, raw) {
		return nil
	}
	s.cache[namespace] = raw
	s.dirty[namespace] = true
	return nil
}

// Flush writes dirty namespaces to the repository, stamped with tick. It
// returns how many were written; namespaces that failed stay dirty.
func (s *CachedMemoryStore) Flush(ctx context.Context, tick uint64) (int, error) {
	if s.repo == nil {
		return 0, nil
	}

	s.mu.Lock()
	pending := make(map[string][]byte, len(s.dirty))
	for ns := range s.dirty {
		pending[ns] = s.cache[ns]
	}
	s.mu.Unlock()

	names := make([]string, 0, len(pending))
	for ns := range pending {
		names = append(names, ns)
	}
	sort.Strings(names)

	written := 0
	for _, ns := range names {
		if err := s.repo.Put(ctx, MissionMemoryRecord{Namespace: ns, Data: pending[ns], UpdatedTick: tick}); err != nil {
			return written, err
		}
		s.mu.Lock()
		if bytes.Equal(s.cache[ns], pending[ns]) {
			delete(s.dirty, ns)
		}
		s.mu.Unlock()
		written++
	}
	return written, nil
}

// DirtyCount returns the number of namespaces waiting for Flush
func (s *CachedMemoryStore) DirtyCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.dirty)
}

// Raw returns the cached JSON of a namespace
func (s *CachedMemoryStore) Raw(namespace string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.cache[namespace]
	return raw, ok
}

// Namespaces returns the cached namespaces in order
func (s *CachedMemoryStore) Namespaces() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cache))
	for ns := range s.cache {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}
