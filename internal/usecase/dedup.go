package usecase

import (
	"sync"
	"time"
)

// DefaultCooldown suppresses repeat signals for the same symbol and
// direction within one hour.
const DefaultCooldown = 60 * time.Minute

// Deduper throttles emissions per (symbol, side). The check and the
// record are one atomic step, so two evaluators racing on the same
// symbol can never both emit inside the window.
type Deduper struct {
	cooldown time.Duration

	mu   sync.Mutex
	last map[dedupKey]time.Time
}

type dedupKey struct {
	symbol string
	side   string
}

func NewDeduper(cooldown time.Duration) *Deduper {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Deduper{cooldown: cooldown, last: make(map[dedupKey]time.Time)}
}

// TryAcquire reports whether a signal may be emitted now and, when it
// may, records the emission in the same critical section.
func (d *Deduper) TryAcquire(symbol, side string, now time.Time) bool {
	k := dedupKey{symbol: symbol, side: side}

	d.mu.Lock()
	defer d.mu.Unlock()
	if prev, ok := d.last[k]; ok && now.Sub(prev) < d.cooldown {
		return false
	}
	d.last[k] = now
	return true
}

// Prune drops entries older than the cooldown window.
func (d *Deduper) Prune(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for k, ts := range d.last {
		if now.Sub(ts) >= d.cooldown {
			delete(d.last, k)
		}
	}
}
