package cache

import (
	"sync"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
)

type memBackend struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemBackend() *memBackend { return &memBackend{m: make(map[string][]byte)} }

func (b *memBackend) GetBytes(key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.m[key]
	return v, ok, nil
}

func (b *memBackend) SetBytes(key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
	return nil
}

func snapshot(symbol string, price float64) *models.ZoneSnapshot {
	return &models.ZoneSnapshot{
		Symbol: symbol,
		AsOf:   time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
		Price:  price,
		Zones: []models.Zone{{
			ID: symbol + "_support_1_20250620", Symbol: symbol,
			Kind: models.ZoneSupport, Low: price - 1, Mid: price - 0.4, High: price + 0.2,
		}},
	}
}

func TestZoneStorePublishReplaces(t *testing.T) {
	s := NewZoneStore(nil, 0)
	s.Publish(snapshot("AAPL", 200))
	s.Publish(snapshot("AAPL", 210))

	got, ok := s.Get("AAPL")
	if !ok {
		t.Fatal("snapshot missing after publish")
	}
	if got.Price != 210 {
		t.Errorf("Price = %v, want the replacement snapshot", got.Price)
	}
}

func TestZoneStoreMiss(t *testing.T) {
	s := NewZoneStore(nil, 0)
	if _, ok := s.Get("MSFT"); ok {
		t.Fatal("unexpected hit for unpublished symbol")
	}
}

func TestZoneStoreRestoresFromBackend(t *testing.T) {
	backend := newMemBackend()
	NewZoneStore(backend, time.Hour).Publish(snapshot("AAPL", 200))

	// a fresh store simulates a restart
	restarted := NewZoneStore(backend, time.Hour)
	got, ok := restarted.Get("AAPL")
	if !ok {
		t.Fatal("snapshot not restored from backend")
	}
	if got.Symbol != "AAPL" || got.Price != 200 || len(got.Zones) != 1 {
		t.Errorf("restored snapshot = %+v", got)
	}
}

func TestZoneStoreSymbols(t *testing.T) {
	s := NewZoneStore(nil, 0)
	s.Publish(snapshot("MSFT", 400))
	s.Publish(snapshot("AAPL", 200))

	got := s.Symbols()
	if len(got) != 2 || got[0] != "AAPL" || got[1] != "MSFT" {
		t.Errorf("Symbols = %v, want sorted [AAPL MSFT]", got)
	}
}
