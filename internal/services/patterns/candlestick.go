package patterns

import (
	"math"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/services/indicators"
)

const rvLookback = 20

// Detector recognizes reversal and continuation candlestick patterns on
// the most recent bar. Stateless; safe for concurrent use.
type Detector struct{}

func NewDetector() *Detector { return &Detector{} }

type check struct {
	name string
	side models.Side
	ok   func(bars []models.Bar) bool
}

// Three-candle patterns outrank two-candle patterns outrank single-bar
// wicks, so a morning star is never reported as a plain hammer.
var checks = []check{
	{"Morning Star", models.SideLong, morningStar},
	{"Evening Star", models.SideShort, eveningStar},
	{"Three White Soldiers", models.SideLong, threeWhiteSoldiers},
	{"Three Black Crows", models.SideShort, threeBlackCrows},
	{"Bullish Engulfing", models.SideLong, bullishEngulfing},
	{"Bearish Engulfing", models.SideShort, bearishEngulfing},
	{"Piercing Pattern", models.SideLong, piercing},
	{"Dark Cloud Cover", models.SideShort, darkCloudCover},
	{"Hammer", models.SideLong, hammer},
	{"Inverted Hammer", models.SideLong, invertedHammer},
	{"Shooting Star", models.SideShort, shootingStar},
	{"Hanging Man", models.SideShort, hangingMan},
}

// Detect runs the checks in priority order against the latest bar and
// returns the first match with its relative volume.
func (d *Detector) Detect(bars []models.Bar) (models.Pattern, bool) {
	if len(bars) == 0 {
		return models.Pattern{}, false
	}
	for _, c := range checks {
		if !c.ok(bars) {
			continue
		}
		last := bars[len(bars)-1]
		return models.Pattern{
			Name:           c.name,
			Side:           c.side,
			Price:          last.Close,
			RelativeVolume: indicators.RelativeVolume(bars, rvLookback),
		}, true
	}
	return models.Pattern{}, false
}

func body(b models.Bar) float64     { return math.Abs(b.Close - b.Open) }
func barRange(b models.Bar) float64 { return b.High - b.Low }
func bullish(b models.Bar) bool     { return b.Close > b.Open }
func bearish(b models.Bar) bool     { return b.Close < b.Open }
func upperWick(b models.Bar) float64 {
	return b.High - math.Max(b.Open, b.Close)
}
func lowerWick(b models.Bar) float64 {
	return math.Min(b.Open, b.Close) - b.Low
}
func longBody(b models.Bar) bool {
	r := barRange(b)
	return r > 0 && body(b) > 0.6*r
}
func midpoint(b models.Bar) float64 { return (b.Open + b.Close) / 2 }

func lastN(bars []models.Bar, n int) ([]models.Bar, bool) {
	if len(bars) < n {
		return nil, false
	}
	return bars[len(bars)-n:], true
}

func bullishEngulfing(bars []models.Bar) bool {
	w, ok := lastN(bars, 2)
	if !ok {
		return false
	}
	prev, curr := w[0], w[1]
	return bearish(prev) && bullish(curr) &&
		curr.Open < prev.Close && curr.Close > prev.Open
}

func bearishEngulfing(bars []models.Bar) bool {
	w, ok := lastN(bars, 2)
	if !ok {
		return false
	}
	prev, curr := w[0], w[1]
	return bullish(prev) && bearish(curr) &&
		curr.Open > prev.Close && curr.Close < prev.Open
}

func hammer(bars []models.Bar) bool {
	b := bars[len(bars)-1]
	bd, r := body(b), barRange(b)
	if bd == 0 || r == 0 {
		return false
	}
	return lowerWick(b) >= 2*bd && upperWick(b) <= bd && lowerWick(b) >= 0.6*r
}

func invertedHammer(bars []models.Bar) bool {
	b := bars[len(bars)-1]
	bd, r := body(b), barRange(b)
	if bd == 0 || r == 0 {
		return false
	}
	return upperWick(b) >= 2*bd && lowerWick(b) <= bd && upperWick(b) >= 0.6*r
}

func shootingStar(bars []models.Bar) bool {
	b := bars[len(bars)-1]
	bd, r := body(b), barRange(b)
	if bd == 0 || r == 0 {
		return false
	}
	return upperWick(b) >= 2*bd && lowerWick(b) <= 0.5*bd && upperWick(b) >= 0.6*r
}

func hangingMan(bars []models.Bar) bool {
	b := bars[len(bars)-1]
	bd, r := body(b), barRange(b)
	if bd == 0 || r == 0 {
		return false
	}
	return lowerWick(b) >= 2*bd && upperWick(b) <= bd && lowerWick(b) >= 0.6*r
}

func morningStar(bars []models.Bar) bool {
	w, ok := lastN(bars, 3)
	if !ok {
		return false
	}
	d1, d2, d3 := w[0], w[1], w[2]
	d2Small := barRange(d2) > 0 && body(d2) < 0.3*barRange(d2)
	return bearish(d1) && longBody(d1) &&
		d2Small &&
		bullish(d3) && longBody(d3) &&
		d3.Close > midpoint(d1)
}

func eveningStar(bars []models.Bar) bool {
	w, ok := lastN(bars, 3)
	if !ok {
		return false
	}
	d1, d2, d3 := w[0], w[1], w[2]
	d2Small := barRange(d2) > 0 && body(d2) < 0.3*barRange(d2)
	return bullish(d1) && longBody(d1) &&
		d2Small &&
		bearish(d3) && longBody(d3) &&
		d3.Close < midpoint(d1)
}

func threeWhiteSoldiers(bars []models.Bar) bool {
	w, ok := lastN(bars, 3)
	if !ok {
		return false
	}
	d1, d2, d3 := w[0], w[1], w[2]
	if !(bullish(d1) && bullish(d2) && bullish(d3)) {
		return false
	}
	if !(d2.Close > d1.Close && d3.Close > d2.Close) {
		return false
	}
	if !(d1.Open < d2.Open && d2.Open < d1.Close && d2.Open < d3.Open && d3.Open < d2.Close) {
		return false
	}
	return similarBodies(d1.Close-d1.Open, d2.Close-d2.Open, d3.Close-d3.Open)
}

func threeBlackCrows(bars []models.Bar) bool {
	w, ok := lastN(bars, 3)
	if !ok {
		return false
	}
	d1, d2, d3 := w[0], w[1], w[2]
	if !(bearish(d1) && bearish(d2) && bearish(d3)) {
		return false
	}
	if !(d2.Close < d1.Close && d3.Close < d2.Close) {
		return false
	}
	if !(d1.Close < d2.Open && d2.Open < d1.Open && d2.Close < d3.Open && d3.Open < d2.Open) {
		return false
	}
	return similarBodies(d1.Open-d1.Close, d2.Open-d2.Close, d3.Open-d3.Close)
}

func similarBodies(b1, b2, b3 float64) bool {
	avg := (b1 + b2 + b3) / 3
	if avg <= 0 {
		return false
	}
	return math.Abs(b1-avg) < 0.3*avg &&
		math.Abs(b2-avg) < 0.3*avg &&
		math.Abs(b3-avg) < 0.3*avg
}

func piercing(bars []models.Bar) bool {
	w, ok := lastN(bars, 2)
	if !ok {
		return false
	}
	prev, curr := w[0], w[1]
	return bearish(prev) && longBody(prev) &&
		bullish(curr) && curr.Open < prev.Low && curr.Close > midpoint(prev)
}

func darkCloudCover(bars []models.Bar) bool {
	w, ok := lastN(bars, 2)
	if !ok {
		return false
	}
	prev, curr := w[0], w[1]
	return bullish(prev) && longBody(prev) &&
		bearish(curr) && curr.Open > prev.High && curr.Close < midpoint(prev)
}
