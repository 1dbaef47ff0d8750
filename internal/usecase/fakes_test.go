package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type fakeBarSource struct {
	daily    map[string][]models.Bar
	intraday map[string][]models.Bar
	fail     map[string]error
}

func (f *fakeBarSource) DailyBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	if err := f.fail[symbol]; err != nil {
		return nil, err
	}
	return f.daily[symbol], nil
}

func (f *fakeBarSource) IntradayBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return f.intraday[symbol], nil
}

func (f *fakeBarSource) IndexBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return f.daily[symbol], nil
}

type fakeZoneCache struct {
	mu sync.Mutex
	m  map[string]*models.ZoneSnapshot
}

func newFakeZoneCache() *fakeZoneCache {
	return &fakeZoneCache{m: make(map[string]*models.ZoneSnapshot)}
}

func (f *fakeZoneCache) Get(symbol string) (*models.ZoneSnapshot, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap, ok := f.m[symbol]
	return snap, ok
}

func (f *fakeZoneCache) Publish(snap *models.ZoneSnapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.m[snap.Symbol] = snap
}

func (f *fakeZoneCache) Symbols() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.m))
	for s := range f.m {
		out = append(out, s)
	}
	return out
}

type fakeMetrics struct {
	mu           sync.Mutex
	suppressions map[string]int
	errorKinds   map[string]int
	signals      int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{suppressions: make(map[string]int), errorKinds: make(map[string]int)}
}

func (f *fakeMetrics) RecordScan(stage string, seconds float64) {}

func (f *fakeMetrics) RecordSignal(symbol, side, quality string) {
	f.mu.Lock()
	f.signals++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordSuppression(reason string) {
	f.mu.Lock()
	f.suppressions[reason]++
	f.mu.Unlock()
}

func (f *fakeMetrics) RecordZoneCount(symbol string, n int) {}

func (f *fakeMetrics) RecordError(kind string) {
	f.mu.Lock()
	f.errorKinds[kind]++
	f.mu.Unlock()
}

type fakeWatchlistStore struct {
	saved   []models.Candidate
	symbols map[string]bool
	err     error
}

func (f *fakeWatchlistStore) Load(ctx context.Context) ([]models.Candidate, error) {
	return f.saved, f.err
}

func (f *fakeWatchlistStore) Save(ctx context.Context, entries []models.Candidate) error {
	f.saved = entries
	return f.err
}

func (f *fakeWatchlistStore) Symbols(ctx context.Context) (map[string]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.symbols == nil {
		return map[string]bool{}, nil
	}
	return f.symbols, nil
}

type fakePublisher struct {
	mu        sync.Mutex
	published []*models.Signal
	err       error
}

func (f *fakePublisher) Publish(ctx context.Context, sig *models.Signal) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	f.published = append(f.published, sig)
	f.mu.Unlock()
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type fakeSignalStore struct {
	stored []*models.Signal
}

func (f *fakeSignalStore) Store(ctx context.Context, sig *models.Signal) error {
	f.stored = append(f.stored, sig)
	return nil
}

func (f *fakeSignalStore) Close() error { return nil }

type fakeEarnings struct {
	blackout map[string]bool
}

func (f *fakeEarnings) InBlackout(ctx context.Context, symbol string, date time.Time) (bool, error) {
	return f.blackout[symbol], nil
}

type fakeRegime struct {
	mkt models.MarketContext
	err error
}

func (f *fakeRegime) Analyze(ctx context.Context, asOf time.Time) (models.MarketContext, error) {
	return f.mkt, f.err
}

type fakeDetector struct {
	pattern models.Pattern
	found   bool
}

func (f *fakeDetector) Detect(bars []models.Bar) (models.Pattern, bool) {
	return f.pattern, f.found
}

var errBoom = errors.New("boom")
