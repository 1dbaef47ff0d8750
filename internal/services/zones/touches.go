package zones

import (
	"math"
	"time"

	"SwingScan/internal/domain/models"
)

const (
	touchLookback = 20
	touchDecay    = 0.98
)

// TouchScore sums decayed touch credit over the last 20 daily bars. A
// bar touches when its range overlaps the band; each touch contributes
// 0.98^daysSince so a level tested yesterday outranks one tested three
// weeks ago. Derived from bars alone, so identical inputs always score
// identically.
func TouchScore(low, high float64, daily []models.Bar, asOf time.Time) float64 {
	if len(daily) > touchLookback {
		daily = daily[len(daily)-touchLookback:]
	}
	var score float64
	for _, b := range daily {
		if b.Low > high || b.High < low {
			continue
		}
		days := asOf.Sub(b.Timestamp).Hours() / 24
		if days < 0 {
			days = 0
		}
		score += math.Pow(touchDecay, days)
	}
	return score
}
