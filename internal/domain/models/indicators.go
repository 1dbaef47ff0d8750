package models

import "time"

// Slope factor buckets for the EMA20 slope gate.
const (
	SlopeFactorStrong   = 1.2
	SlopeFactorModerate = 1.0
	SlopeFactorChoppy   = 0.5

	slopeStrongMin   = 0.10
	slopeModerateMin = 0.05
)

// IndicatorSet holds the daily indicators for one symbol as of one
// trading day. Recomputed daily; a new value replaces the old one,
// never mutated in place.
type IndicatorSet struct {
	Symbol        string
	AsOf          time.Time
	Close         float64
	ATR14         float64
	EMA20         float64
	EMA20Prev     float64
	SMA50         float64
	SMA100        float64
	SMA200        float64
	EMA20SlopeATR float64
	SMA50Rising   bool
}

// SlopeFactor buckets the ATR-normalized EMA20 slope. A strong trend
// up-weights the EMA20 seed; a flat EMA20 de-weights it so sideways
// drift does not read as dynamic support.
func (s IndicatorSet) SlopeFactor() float64 {
	abs := s.EMA20SlopeATR
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= slopeStrongMin:
		return SlopeFactorStrong
	case abs >= slopeModerateMin:
		return SlopeFactorModerate
	default:
		return SlopeFactorChoppy
	}
}

// StackAligned reports whether the moving averages stack in trend order:
// price > EMA20 > SMA50 (bullish) or price < EMA20 < SMA50 (bearish).
func (s IndicatorSet) StackAligned() bool {
	if s.EMA20 == 0 || s.SMA50 == 0 {
		return false
	}
	if s.Close > s.EMA20 && s.EMA20 > s.SMA50 {
		return true
	}
	if s.Close < s.EMA20 && s.EMA20 < s.SMA50 {
		return true
	}
	return false
}

// TrendBullish classifies the symbol's own trend: bullish when the close
// is above a rising SMA50, bearish otherwise.
func (s IndicatorSet) TrendBullish() bool {
	return s.SMA50 != 0 && s.Close > s.SMA50 && s.SMA50Rising
}
