package cache

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"SwingScan/internal/domain/models"
)

const snapshotKeyPrefix = "zonemap:"

// ZoneStore holds the latest zone snapshot per symbol. The nightly
// recompute publishes a complete replacement; hourly readers see either
// the prior map or the new one, never a partial rewrite. An optional
// bytes backend persists snapshots across restarts.
type ZoneStore struct {
	mu      sync.RWMutex
	m       map[string]*models.ZoneSnapshot
	backend BytesCache
	ttl     time.Duration
}

func NewZoneStore(backend BytesCache, ttl time.Duration) *ZoneStore {
	return &ZoneStore{
		m:       make(map[string]*models.ZoneSnapshot),
		backend: backend,
		ttl:     ttl,
	}
}

// Publish replaces the symbol's snapshot. Backend persistence is best
// effort; the in-memory map is the source of truth for readers.
func (s *ZoneStore) Publish(snap *models.ZoneSnapshot) {
	s.mu.Lock()
	s.m[snap.Symbol] = snap
	s.mu.Unlock()

	if s.backend == nil {
		return
	}
	if b, err := json.Marshal(snap); err == nil {
		_ = s.backend.SetBytes(snapshotKeyPrefix+snap.Symbol, b, s.ttl)
	}
}

// Get returns the published snapshot for the symbol, falling back to
// the backend after a restart.
func (s *ZoneStore) Get(symbol string) (*models.ZoneSnapshot, bool) {
	s.mu.RLock()
	snap, ok := s.m[symbol]
	s.mu.RUnlock()
	if ok {
		return snap, true
	}
	if s.backend == nil {
		return nil, false
	}

	b, ok, err := s.backend.GetBytes(snapshotKeyPrefix + symbol)
	if err != nil || !ok {
		return nil, false
	}
	var restored models.ZoneSnapshot
	if err := json.Unmarshal(b, &restored); err != nil {
		return nil, false
	}

	s.mu.Lock()
	if cur, exists := s.m[symbol]; exists {
		// a concurrent Publish won the race
		s.mu.Unlock()
		return cur, true
	}
	s.m[symbol] = &restored
	s.mu.Unlock()
	return &restored, true
}

// Symbols lists every symbol with a published snapshot, sorted.
func (s *ZoneStore) Symbols() []string {
	s.mu.RLock()
	out := make([]string, 0, len(s.m))
	for sym := range s.m {
		out = append(out, sym)
	}
	s.mu.RUnlock()
	sort.Strings(out)
	return out
}
