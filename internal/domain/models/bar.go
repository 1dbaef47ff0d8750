package models

import "time"

// Bar is a single OHLCV record. Bars are immutable once recorded and
// ordered by timestamp; no duplicate timestamps per symbol/timeframe.
type Bar struct {
	Symbol    string
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Observation is a live price/candle/volume snapshot handed to the
// signal evaluator. Bars holds the most recent intraday window ending
// at the observed candle; the last element is the candle under test.
type Observation struct {
	Symbol    string
	Timestamp time.Time
	Price     float64
	Bars      []Bar
}

// LastBar returns the candle under test, or false when the window is empty.
func (o Observation) LastBar() (Bar, bool) {
	if len(o.Bars) == 0 {
		return Bar{}, false
	}
	return o.Bars[len(o.Bars)-1], true
}
