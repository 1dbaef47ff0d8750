package zones

import (
	"math"
	"reflect"
	"testing"
	"time"

	"SwingScan/internal/domain/models"
)

var asOf = time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC)

func seed(kind models.SeedKind, price, weight float64) models.Seed {
	return models.Seed{Symbol: "TEST", Kind: kind, Price: price, BaseWeight: weight}
}

func indicators(close, atr float64) models.IndicatorSet {
	return models.IndicatorSet{Symbol: "TEST", AsOf: asOf, Close: close, ATR14: atr}
}

func TestBuildMergesOverlappingSeeds(t *testing.T) {
	b := NewBuilder()
	// ATR 2 gives a 0.6 half-width, so bands at 100.0 and 100.5 overlap
	seeds := []models.Seed{
		seed(models.SeedSwingLow, 100.0, 1.5),
		seed(models.SeedHVN, 100.5, 1.0),
	}

	got := b.Build("TEST", seeds, indicators(102, 2), nil, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want 1 merged", len(got))
	}
	z := got[0]

	wantMid := (100.0*1.5 + 100.5*1.0) / 2.5
	if math.Abs(z.Mid-wantMid) > 1e-9 {
		t.Errorf("Mid = %v, want weighted %v", z.Mid, wantMid)
	}
	if math.Abs(z.High-z.Low-1.2) > 1e-9 {
		t.Errorf("band width = %v, want 2*0.30*ATR = 1.2", z.High-z.Low)
	}
	want := []models.SeedKind{models.SeedHVN, models.SeedSwingLow}
	if !reflect.DeepEqual(z.Components, want) {
		t.Errorf("Components = %v, want %v", z.Components, want)
	}
	if z.Kind != models.ZoneSupport {
		t.Errorf("Kind = %v, want support below price", z.Kind)
	}
}

func TestBuildKeepsDistinctBandsApart(t *testing.T) {
	b := NewBuilder()
	seeds := []models.Seed{
		seed(models.SeedSwingLow, 95, 1.5),
		seed(models.SeedSwingHigh, 105, 1.5),
	}

	got := b.Build("TEST", seeds, indicators(100, 2), nil, asOf)
	if len(got) != 2 {
		t.Fatalf("got %d zones, want 2", len(got))
	}
	if got[0].High >= got[1].Low {
		t.Errorf("zones overlap: [%v %v] and [%v %v]", got[0].Low, got[0].High, got[1].Low, got[1].High)
	}
	if got[0].Kind != models.ZoneSupport || got[1].Kind != models.ZoneResistance {
		t.Errorf("kinds = %v / %v, want support then resistance", got[0].Kind, got[1].Kind)
	}
}

func TestBuildChainMergeReachesFixedPoint(t *testing.T) {
	b := NewBuilder()
	// the first merge pulls the band's mid toward the heavy swing seed,
	// which brings the third band into reach on the same sweep
	seeds := []models.Seed{
		seed(models.SeedRoundNumber, 100.0, 0.3),
		seed(models.SeedSwingLow, 100.8, 1.5),
		seed(models.SeedHVN, 101.6, 1.0),
	}

	got := b.Build("TEST", seeds, indicators(103, 2), nil, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want 1 after chain merge", len(got))
	}
	if len(got[0].Components) != 3 {
		t.Errorf("Components = %v, want all three kinds", got[0].Components)
	}
}

func TestBuildDropsFarZones(t *testing.T) {
	b := NewBuilder()
	seeds := []models.Seed{
		seed(models.SeedSwingLow, 100, 1.5),
		seed(models.SeedSwingHigh, 140, 1.5), // 40% above price
	}

	got := b.Build("TEST", seeds, indicators(100, 2), nil, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want far zone dropped", len(got))
	}
	if got[0].Mid != 100 {
		t.Errorf("kept zone mid = %v, want 100", got[0].Mid)
	}
}

func TestBuildDeterministic(t *testing.T) {
	b := NewBuilder()
	seeds := []models.Seed{
		seed(models.SeedSwingLow, 99.8, 1.5),
		seed(models.SeedHVN, 100.1, 1.0),
		seed(models.SeedSwingHigh, 104, 1.5),
	}
	ind := indicators(102, 2)

	first := b.Build("TEST", seeds, ind, nil, asOf)
	second := b.Build("TEST", seeds, ind, nil, asOf)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different zone maps")
	}
}

func TestStrengthCountsEachKindOnce(t *testing.T) {
	b := NewBuilder()
	// two swing lows in one band must not double the swing weight
	seeds := []models.Seed{
		seed(models.SeedSwingLow, 100.0, 1.5),
		seed(models.SeedSwingLow, 100.2, 1.5),
	}

	got := b.Build("TEST", seeds, indicators(101, 2), nil, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want 1", len(got))
	}
	if math.Abs(got[0].Strength-1.5) > 1e-9 {
		t.Errorf("Strength = %v, want 1.5 with no touches", got[0].Strength)
	}
}

func TestStrengthTouchAndStackBonus(t *testing.T) {
	b := NewBuilder()
	ind := indicators(101, 2)
	ind.EMA20 = 100.4
	ind.SMA50 = 99 // price > EMA20 > SMA50, stack aligned

	daily := []models.Bar{{
		Symbol: "TEST", Timestamp: asOf,
		Open: 100, High: 100.6, Low: 99.8, Close: 100.2, Volume: 1000,
	}}
	seeds := []models.Seed{seed(models.SeedEMA20, 100.4, 2.4)}

	got := b.Build("TEST", seeds, ind, daily, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want 1", len(got))
	}
	// one same-day touch: 2.4*(1+0.05) + 0.5 stack bonus
	want := 2.4*1.05 + 0.5
	if math.Abs(got[0].Strength-want) > 1e-9 {
		t.Errorf("Strength = %v, want %v", got[0].Strength, want)
	}
}

func TestStrengthClampedAtSix(t *testing.T) {
	b := NewBuilder()
	seeds := []models.Seed{
		seed(models.SeedEMA20, 100.0, 2.4),
		seed(models.SeedSwingLow, 100.1, 1.5),
		seed(models.SeedGapEdge, 100.2, 1.2),
		seed(models.SeedHVN, 100.3, 1.0),
		seed(models.SeedSMA50, 100.4, 0.8),
	}
	daily := make([]models.Bar, 20)
	for i := range daily {
		daily[i] = models.Bar{
			Symbol: "TEST", Timestamp: asOf.AddDate(0, 0, i-19),
			Open: 100, High: 101, Low: 99, Close: 100, Volume: 1000,
		}
	}

	got := b.Build("TEST", seeds, indicators(101, 2), daily, asOf)
	if len(got) != 1 {
		t.Fatalf("got %d zones, want 1", len(got))
	}
	if got[0].Strength > 6 {
		t.Errorf("Strength = %v, cap is 6", got[0].Strength)
	}
	if got[0].Strength < 6-1e-9 {
		t.Errorf("Strength = %v, want pinned at the cap for a loaded zone", got[0].Strength)
	}
}

func TestTouchScoreDecay(t *testing.T) {
	bars := []models.Bar{
		{Timestamp: asOf.AddDate(0, 0, -10), High: 101, Low: 99},
		{Timestamp: asOf, High: 101, Low: 99},
	}
	got := TouchScore(99.5, 100.5, bars, asOf)
	want := math.Pow(0.98, 10) + 1
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("TouchScore = %v, want %v", got, want)
	}

	if s := TouchScore(150, 151, bars, asOf); s != 0 {
		t.Errorf("TouchScore far from bars = %v, want 0", s)
	}
}
