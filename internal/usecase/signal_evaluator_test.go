package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/services/confluence"
)

var (
	snapAsOf = time.Date(2025, 6, 19, 21, 0, 0, 0, time.UTC) // Thursday
	obsTime  = time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC) // Friday
)

func supportSnapshot(strength float64) *models.ZoneSnapshot {
	return &models.ZoneSnapshot{
		Symbol: "AAPL",
		AsOf:   snapAsOf,
		Price:  100.2,
		Zones: []models.Zone{
			{
				ID: "AAPL_support_1_20250619", Symbol: "AAPL", Kind: models.ZoneSupport,
				Low: 99, Mid: 100, High: 101, Strength: strength,
			},
			{
				ID: "AAPL_resistance_1_20250619", Symbol: "AAPL", Kind: models.ZoneResistance,
				Low: 106, Mid: 107, High: 108, Strength: 3,
			},
		},
		Indicators: models.IndicatorSet{
			Symbol: "AAPL", AsOf: snapAsOf, Close: 100.2, ATR14: 2,
			SMA50: 95, SMA50Rising: true,
		},
	}
}

func bullishMarket() models.MarketContext {
	return models.MarketContext{
		Primary: models.MarketRegime{AboveEMA20: true, IndexTrendBullish: true},
		Second:  models.MarketRegime{AboveEMA20: true},
	}
}

func hammerAt(price, rv float64) models.Pattern {
	return models.Pattern{Name: "Hammer", Side: models.SideLong, Price: price, RelativeVolume: rv}
}

type evalHarness struct {
	eval      *SignalEvaluator
	cache     *fakeZoneCache
	metrics   *fakeMetrics
	publisher *fakePublisher
	store     *fakeSignalStore
	watchlist *fakeWatchlistStore
	earnings  *fakeEarnings
	detector  *fakeDetector
	regime    *fakeRegime
}

func newEvalHarness(t *testing.T) *evalHarness {
	h := &evalHarness{
		cache:     newFakeZoneCache(),
		metrics:   newFakeMetrics(),
		publisher: &fakePublisher{},
		store:     &fakeSignalStore{},
		watchlist: &fakeWatchlistStore{},
		earnings:  &fakeEarnings{blackout: map[string]bool{}},
		detector:  &fakeDetector{pattern: hammerAt(100.2, 1.6), found: true},
		regime:    &fakeRegime{mkt: bullishMarket()},
	}
	h.eval = NewSignalEvaluator(
		h.cache, h.regime, confluence.NewScorer(), h.detector,
		h.earnings, h.watchlist, h.publisher, h.store,
		NewDeduper(time.Hour), h.metrics, testLogger(t),
	)
	return h
}

func observation(price float64) *models.Observation {
	return &models.Observation{Symbol: "AAPL", Timestamp: obsTime, Price: price}
}

func TestEvaluateEmitsSignal(t *testing.T) {
	h := newEvalHarness(t)
	h.cache.Publish(supportSnapshot(5))

	sig, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sig == nil {
		t.Fatal("no signal emitted")
	}
	if sig.Side != models.SideLong || sig.ZoneID != "AAPL_support_1_20250619" {
		t.Errorf("signal = %s at %s, want long at the support zone", sig.Side, sig.ZoneID)
	}
	// base 5 + index 2 + alignment 2 = 9 with RV 1.6 is a high tier
	if sig.Confluence.Total != 9 {
		t.Errorf("confluence = %v, want 9", sig.Confluence.Total)
	}
	if sig.Quality != models.QualityHigh {
		t.Errorf("quality = %v, want high", sig.Quality)
	}
	if sig.Targets == nil {
		t.Fatal("signal has no targets")
	}
	if sig.Targets.NextZone != 107 {
		t.Errorf("NextZone = %v, want the resistance mid 107", sig.Targets.NextZone)
	}
	if sig.Targets.Stop != 99-0.2 {
		t.Errorf("Stop = %v, want just under the band at 98.8", sig.Targets.Stop)
	}
	if len(h.publisher.published) != 1 || len(h.store.stored) != 1 {
		t.Errorf("published %d / stored %d, want 1 / 1", len(h.publisher.published), len(h.store.stored))
	}
}

func TestEvaluateNoZoneMap(t *testing.T) {
	h := newEvalHarness(t)

	_, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if !errors.Is(err, models.ErrNoZoneMap) {
		t.Fatalf("err = %v, want ErrNoZoneMap", err)
	}
}

func TestEvaluateStaleZoneMap(t *testing.T) {
	h := newEvalHarness(t)
	snap := supportSnapshot(5)
	snap.AsOf = time.Date(2025, 6, 17, 21, 0, 0, 0, time.UTC) // Tuesday, 3 sessions back
	h.cache.Publish(snap)

	_, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if !errors.Is(err, models.ErrStaleZoneMap) {
		t.Fatalf("err = %v, want ErrStaleZoneMap", err)
	}
}

func TestEvaluatePriorDaySnapshotIsFresh(t *testing.T) {
	h := newEvalHarness(t)
	h.cache.Publish(supportSnapshot(5)) // Thursday snapshot, Friday observation

	if _, err := h.eval.Evaluate(context.Background(), observation(100.2)); err != nil {
		t.Fatalf("prior-session snapshot rejected: %v", err)
	}
}

func TestEvaluateRejections(t *testing.T) {
	cases := []struct {
		name   string
		setup  func(h *evalHarness)
		price  float64
		reason string
	}{
		{
			name:   "not at zone",
			setup:  func(h *evalHarness) {},
			price:  103, // 1.5 ATR from the support mid
			reason: "not_at_zone",
		},
		{
			name:   "no pattern",
			setup:  func(h *evalHarness) { h.detector.found = false },
			price:  100.2,
			reason: "no_pattern",
		},
		{
			name: "short pattern at support",
			setup: func(h *evalHarness) {
				h.detector.pattern = models.Pattern{
					Name: "Shooting Star", Side: models.SideShort, Price: 100.2, RelativeVolume: 1.6,
				}
			},
			price:  100.2,
			reason: "side_mismatch",
		},
		{
			name:   "thin volume",
			setup:  func(h *evalHarness) { h.detector.pattern = hammerAt(100.2, 1.1) },
			price:  100.2,
			reason: "low_volume",
		},
		{
			name: "both indices against the long",
			setup: func(h *evalHarness) {
				h.regime.mkt = models.MarketContext{
					Primary: models.MarketRegime{AboveEMA20: false},
					Second:  models.MarketRegime{AboveEMA20: false},
				}
			},
			price:  100.2,
			reason: "regime_suppressed",
		},
		{
			name:   "earnings blackout",
			setup:  func(h *evalHarness) { h.earnings.blackout["AAPL"] = true },
			price:  100.2,
			reason: "earnings_blackout",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newEvalHarness(t)
			h.cache.Publish(supportSnapshot(5))
			tc.setup(h)

			sig, err := h.eval.Evaluate(context.Background(), observation(tc.price))
			if err != nil {
				t.Fatalf("Evaluate: %v", err)
			}
			if sig != nil {
				t.Fatalf("signal emitted despite %s", tc.reason)
			}
			if h.metrics.suppressions[tc.reason] != 1 {
				t.Errorf("suppressions = %v, want one %q", h.metrics.suppressions, tc.reason)
			}
		})
	}
}

func TestEvaluateWatchlistLowersThreshold(t *testing.T) {
	h := newEvalHarness(t)
	h.cache.Publish(supportSnapshot(2)) // total 2+2+2 = 6: below 7, above 5

	sig, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sig != nil {
		t.Fatal("score 6 emitted without watchlist membership")
	}
	if h.metrics.suppressions["below_threshold"] != 1 {
		t.Errorf("suppressions = %v, want below_threshold", h.metrics.suppressions)
	}

	h2 := newEvalHarness(t)
	h2.cache.Publish(supportSnapshot(2))
	h2.watchlist.symbols = map[string]bool{"AAPL": true}

	sig, err = h2.eval.Evaluate(context.Background(), observation(100.2))
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if sig == nil {
		t.Fatal("watchlist symbol with score 6 not emitted")
	}
	if !sig.FromWatchlist {
		t.Error("FromWatchlist not set")
	}
	if sig.Quality != models.QualityMedium {
		t.Errorf("quality = %v, want medium below the watchlist high bar", sig.Quality)
	}
}

func TestEvaluateCooldownBlocksRepeat(t *testing.T) {
	h := newEvalHarness(t)
	h.cache.Publish(supportSnapshot(5))

	first, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if err != nil || first == nil {
		t.Fatalf("first evaluation: sig=%v err=%v", first, err)
	}

	obs := observation(100.2)
	obs.Timestamp = obsTime.Add(30 * time.Minute)
	second, err := h.eval.Evaluate(context.Background(), obs)
	if err != nil {
		t.Fatalf("second evaluation: %v", err)
	}
	if second != nil {
		t.Fatal("repeat signal emitted inside the cooldown")
	}
	if h.metrics.suppressions["cooldown"] != 1 {
		t.Errorf("suppressions = %v, want cooldown", h.metrics.suppressions)
	}
}

func TestEvaluatePublishFailureSurfaces(t *testing.T) {
	h := newEvalHarness(t)
	h.cache.Publish(supportSnapshot(5))
	h.publisher.err = errBoom

	_, err := h.eval.Evaluate(context.Background(), observation(100.2))
	if !errors.Is(err, errBoom) {
		t.Fatalf("err = %v, want publish failure surfaced", err)
	}
}
