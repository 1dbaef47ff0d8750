package usecase

import (
	"sync"
	"testing"
	"time"
)

func TestDeduperCooldown(t *testing.T) {
	d := NewDeduper(time.Hour)
	now := time.Date(2025, 6, 20, 10, 0, 0, 0, time.UTC)

	if !d.TryAcquire("AAPL", "long", now) {
		t.Fatal("first emission blocked")
	}
	if d.TryAcquire("AAPL", "long", now.Add(30*time.Minute)) {
		t.Fatal("repeat emission allowed inside the cooldown")
	}
	if !d.TryAcquire("AAPL", "long", now.Add(61*time.Minute)) {
		t.Fatal("emission blocked after the cooldown expired")
	}
}

func TestDeduperKeysBySymbolAndSide(t *testing.T) {
	d := NewDeduper(time.Hour)
	now := time.Now()

	if !d.TryAcquire("AAPL", "long", now) {
		t.Fatal("first emission blocked")
	}
	if !d.TryAcquire("AAPL", "short", now) {
		t.Fatal("opposite side blocked by the long cooldown")
	}
	if !d.TryAcquire("MSFT", "long", now) {
		t.Fatal("other symbol blocked")
	}
}

func TestDeduperAtomicUnderContention(t *testing.T) {
	d := NewDeduper(time.Hour)
	now := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := 0
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if d.TryAcquire("AAPL", "long", now) {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if granted != 1 {
		t.Fatalf("%d concurrent acquisitions granted, want exactly 1", granted)
	}
}

func TestDeduperPrune(t *testing.T) {
	d := NewDeduper(time.Hour)
	now := time.Now()
	d.TryAcquire("AAPL", "long", now)
	d.Prune(now.Add(2 * time.Hour))

	if len(d.last) != 0 {
		t.Fatalf("%d entries after prune, want 0", len(d.last))
	}
}
