package usecase

import (
	"context"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/services/confluence"
)

func rankSnapshot(symbol string, strength, midOffset float64) *models.ZoneSnapshot {
	price := 100.0
	mid := price + midOffset
	return &models.ZoneSnapshot{
		Symbol: symbol,
		AsOf:   snapAsOf,
		Price:  price,
		Zones: []models.Zone{{
			ID: symbol + "_support_1_20250619", Symbol: symbol, Kind: models.ZoneSupport,
			Low: mid - 0.6, Mid: mid, High: mid + 0.6, Strength: strength,
		}},
		Indicators: models.IndicatorSet{
			Symbol: symbol, Close: price, ATR14: 2,
			SMA50: 95, SMA50Rising: true,
		},
	}
}

func newRanker(cache *fakeZoneCache, store *fakeWatchlistStore, size int, t *testing.T) *WatchlistRanker {
	return NewWatchlistRanker(
		cache,
		&fakeRegime{mkt: bullishMarket()},
		confluence.NewScorer(),
		store,
		newFakeMetrics(),
		testLogger(t),
		size,
	)
}

func TestRankOrdersByConfluence(t *testing.T) {
	cache := newFakeZoneCache()
	cache.Publish(rankSnapshot("LOW", 2, -1))    // total 6
	cache.Publish(rankSnapshot("HIGH", 5, -1))   // total 9
	cache.Publish(rankSnapshot("MID", 3.5, -1))  // total 7.5
	store := &fakeWatchlistStore{}

	got, err := newRanker(cache, store, 20, t).Rank(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Symbol != "HIGH" || got[1].Symbol != "MID" || got[2].Symbol != "LOW" {
		t.Errorf("order = %s %s %s, want HIGH MID LOW", got[0].Symbol, got[1].Symbol, got[2].Symbol)
	}
	if len(store.saved) != 3 {
		t.Errorf("store holds %d entries, want the ranked list", len(store.saved))
	}
}

func TestRankExcludesFarZones(t *testing.T) {
	cache := newFakeZoneCache()
	cache.Publish(rankSnapshot("NEAR", 5, -1)) // band edge 0.2 under price
	cache.Publish(rankSnapshot("FAR", 5, -4))  // band edge 1.7 ATR away

	got, err := newRanker(cache, &fakeWatchlistStore{}, 20, t).Rank(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "NEAR" {
		t.Fatalf("entries = %v, want only NEAR", got)
	}
}

func TestRankExcludesWeakScores(t *testing.T) {
	cache := newFakeZoneCache()
	cache.Publish(rankSnapshot("WEAK", 0.5, -1)) // total 4.5 under the watchlist bar

	got, err := newRanker(cache, &fakeWatchlistStore{}, 20, t).Rank(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entries = %v, want none under the threshold", got)
	}
}

func TestRankTruncatesAndBreaksTiesBySymbol(t *testing.T) {
	cache := newFakeZoneCache()
	for _, s := range []string{"DDD", "AAA", "CCC", "BBB"} {
		cache.Publish(rankSnapshot(s, 5, -1)) // identical scores and distances
	}

	got, err := newRanker(cache, &fakeWatchlistStore{}, 3, t).Rank(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want size cap 3", len(got))
	}
	if got[0].Symbol != "AAA" || got[1].Symbol != "BBB" || got[2].Symbol != "CCC" {
		t.Errorf("order = %s %s %s, want alphabetical on ties", got[0].Symbol, got[1].Symbol, got[2].Symbol)
	}
}
