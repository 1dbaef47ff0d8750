package seeds

import (
	"fmt"
	"math"
	"sort"

	"SwingScan/internal/domain/models"
)

// Base weights per seed kind. The EMA20 weight is further scaled by the
// slope factor so a flat average does not read as dynamic support.
const (
	WeightEMA20       = 2.0
	WeightSwing       = 1.5
	WeightGapEdge     = 1.2
	WeightGapFilled   = 0.6
	WeightHVN         = 1.0
	WeightSMA         = 0.8
	WeightRoundNumber = 0.3
)

const (
	// Moving averages far from price are trend context, not tradeable
	// structure. Hard price levels get a tighter leash.
	maPctLimit     = 0.30
	structPctLimit = 0.10

	swingWindow   = 5
	gapMinPct     = 0.02
	gapLookback   = 90
	hvnLookback   = 252
	roundStepLow  = 5.0
	roundStepHigh = 10.0
	roundCutover  = 100.0
)

// Finder derives zone seeds from bar history and the indicator set.
// Stateless; safe for concurrent use.
type Finder struct{}

func NewFinder() *Finder { return &Finder{} }

// Find collects every candidate level near the current price. Daily bars
// feed gaps and the volume profile; intraday bars feed swing pivots.
// Returns ErrNoSeedsFound when nothing qualifies.
func (f *Finder) Find(symbol string, daily, intraday []models.Bar, ind models.IndicatorSet) ([]models.Seed, error) {
	price := ind.Close
	if price <= 0 {
		return nil, fmt.Errorf("%s: no reference price: %w", symbol, models.ErrNoSeedsFound)
	}

	var out []models.Seed
	add := func(kind models.SeedKind, level, weight, pctLimit float64) {
		if level <= 0 {
			return
		}
		if math.Abs(level-price)/price > pctLimit {
			return
		}
		out = append(out, models.Seed{Symbol: symbol, Kind: kind, Price: level, BaseWeight: weight})
	}

	add(models.SeedEMA20, ind.EMA20, WeightEMA20*ind.SlopeFactor(), maPctLimit)
	add(models.SeedSMA50, ind.SMA50, WeightSMA, maPctLimit)
	add(models.SeedSMA100, ind.SMA100, WeightSMA, maPctLimit)
	add(models.SeedSMA200, ind.SMA200, WeightSMA, maPctLimit)

	for _, sp := range FindSwingHighs(intraday, swingWindow) {
		add(models.SeedSwingHigh, sp.Price, WeightSwing, structPctLimit)
	}
	for _, sp := range FindSwingLows(intraday, swingWindow) {
		add(models.SeedSwingLow, sp.Price, WeightSwing, structPctLimit)
	}

	gapBars := daily
	if len(gapBars) > gapLookback {
		gapBars = gapBars[len(gapBars)-gapLookback:]
	}
	for _, g := range FindGaps(gapBars, gapMinPct) {
		if g.Filled {
			add(models.SeedGapFilled, g.Edge, WeightGapFilled, structPctLimit)
		} else {
			add(models.SeedGapEdge, g.Edge, WeightGapEdge, structPctLimit)
		}
	}

	hvnBars := daily
	if len(hvnBars) > hvnLookback {
		hvnBars = hvnBars[len(hvnBars)-hvnLookback:]
	}
	for _, level := range HVNLevels(hvnBars) {
		add(models.SeedHVN, level, WeightHVN, structPctLimit)
	}

	for _, level := range roundLevels(price) {
		add(models.SeedRoundNumber, level, WeightRoundNumber, structPctLimit)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, models.ErrNoSeedsFound)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

// roundLevels returns psychological price levels within 10% of price:
// $5 steps under $100, $10 steps at or above.
func roundLevels(price float64) []float64 {
	step := roundStepLow
	if price >= roundCutover {
		step = roundStepHigh
	}
	lo := math.Floor(price * (1 - structPctLimit) / step) * step
	hi := math.Ceil(price * (1 + structPctLimit) / step) * step

	var out []float64
	for level := lo; level <= hi+1e-9; level += step {
		if level > 0 {
			out = append(out, level)
		}
	}
	return out
}
