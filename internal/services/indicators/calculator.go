package indicators

import (
	"fmt"

	"SwingScan/internal/domain/models"
)

const (
	// MinDailyBars is the history floor: SMA200 needs a full window and
	// the slope gate needs one extra session.
	MinDailyBars = 200

	atrPeriod   = 14
	emaPeriod   = 20
	slopeWindow = 5
)

// Calculator derives the daily indicator set from raw bars. Stateless;
// safe for concurrent use.
type Calculator struct{}

func NewCalculator() *Calculator { return &Calculator{} }

// Compute derives the full indicator set from daily bars ordered oldest
// first. Returns ErrInsufficientHistory when fewer than 200 bars are
// available.
func (c *Calculator) Compute(symbol string, daily []models.Bar) (models.IndicatorSet, error) {
	if len(daily) < MinDailyBars {
		return models.IndicatorSet{}, fmt.Errorf("%s: %d bars: %w", symbol, len(daily), models.ErrInsufficientHistory)
	}

	closes := make([]float64, len(daily))
	highs := make([]float64, len(daily))
	lows := make([]float64, len(daily))
	for i, b := range daily {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	atr := ATR(highs, lows, closes, atrPeriod)
	ema := EMA(closes, emaPeriod)
	last := len(daily) - 1

	set := models.IndicatorSet{
		Symbol:    symbol,
		AsOf:      daily[last].Timestamp,
		Close:     closes[last],
		ATR14:     atr[last],
		EMA20:     ema[last],
		EMA20Prev: ema[last-1],
		SMA50:     SMA(closes, 50),
		SMA100:    SMA(closes, 100),
		SMA200:    SMA(closes, 200),
	}
	if set.ATR14 > 0 {
		set.EMA20SlopeATR = (set.EMA20 - set.EMA20Prev) / set.ATR14
	}
	set.SMA50Rising = sma50Rising(closes)
	return set, nil
}

// ATR computes the Average True Range with Wilder smoothing. Index i
// holds the ATR as of bar i; entries before the warmup period are zero.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	out := make([]float64, n)
	if n < period+1 {
		return out
	}

	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		hl := highs[i] - lows[i]
		hc := abs(highs[i] - closes[i-1])
		lc := abs(lows[i] - closes[i-1])
		tr[i] = max3(hl, hc, lc)
	}

	var sum float64
	for i := 1; i <= period; i++ {
		sum += tr[i]
	}
	out[period] = sum / float64(period)
	for i := period + 1; i < n; i++ {
		out[i] = (out[i-1]*float64(period-1) + tr[i]) / float64(period)
	}
	return out
}

// EMA computes the exponential moving average seeded with the simple
// average of the first period values. Entries before the warmup are zero.
func EMA(data []float64, period int) []float64 {
	n := len(data)
	out := make([]float64, n)
	if n < period {
		return out
	}

	var sum float64
	for i := 0; i < period; i++ {
		sum += data[i]
	}
	out[period-1] = sum / float64(period)

	k := 2.0 / float64(period+1)
	for i := period; i < n; i++ {
		out[i] = data[i]*k + out[i-1]*(1-k)
	}
	return out
}

// SMA computes the trailing simple moving average over the last period
// values. Returns 0 when the series is too short.
func SMA(data []float64, period int) float64 {
	if len(data) < period {
		return 0
	}
	var sum float64
	for _, v := range data[len(data)-period:] {
		sum += v
	}
	return sum / float64(period)
}

// RelativeVolume is the latest bar's volume over the mean of the prior
// lookback bars. Returns 0 when the history is too short or dead.
func RelativeVolume(bars []models.Bar, lookback int) float64 {
	if len(bars) < lookback+1 {
		return 0
	}
	last := len(bars) - 1
	var sum float64
	for _, b := range bars[last-lookback : last] {
		sum += float64(b.Volume)
	}
	if sum == 0 {
		return 0
	}
	return float64(bars[last].Volume) / (sum / float64(lookback))
}

// sma50Rising compares today's SMA50 against its value five sessions ago.
func sma50Rising(closes []float64) bool {
	if len(closes) < 50+slopeWindow {
		return false
	}
	now := SMA(closes, 50)
	then := SMA(closes[:len(closes)-slopeWindow], 50)
	return now > then
}

// WeeklyChangePct is the percent change of the close over the last five
// sessions.
func WeeklyChangePct(closes []float64) float64 {
	if len(closes) < slopeWindow+1 {
		return 0
	}
	then := closes[len(closes)-1-slopeWindow]
	if then == 0 {
		return 0
	}
	return (closes[len(closes)-1] - then) / then * 100
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max3(a, b, c float64) float64 {
	m := a
	if b > m {
		m = b
	}
	if c > m {
		m = c
	}
	return m
}
