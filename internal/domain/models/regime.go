package models

import "time"

// Trend is the classified state of a reference index.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// MarketRegime is the classified backdrop of one reference index for one
// trading day.
type MarketRegime struct {
	AsOf            time.Time
	IndexSymbol     string
	Trend           Trend
	AboveEMA20      bool
	AboveSMA50      bool
	AboveSMA200     bool
	EMA20DistPct    float64
	SMA50DistPct    float64
	SMA200DistPct   float64
	WeeklyChangePct float64

	// IndexTrendBullish is the SMA50-based trend classification used for
	// stock-vs-index alignment (close above a rising SMA50).
	IndexTrendBullish bool
}

// MarketContext bundles the regimes of both reference indices.
type MarketContext struct {
	AsOf    time.Time
	Primary MarketRegime
	Second  MarketRegime
}

// AlignedCount counts reference indices on the signal's side of their
// EMA20: above for longs, below for shorts.
func (m MarketContext) AlignedCount(side Side) int {
	n := 0
	for _, r := range []MarketRegime{m.Primary, m.Second} {
		if side == SideLong && r.AboveEMA20 {
			n++
		}
		if side == SideShort && !r.AboveEMA20 {
			n++
		}
	}
	return n
}
