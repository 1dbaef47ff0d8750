package zones

import (
	"math"
	"sort"

	"SwingScan/internal/domain/models"
)

// DistanceATR measures how far price sits from the zone in ATR units:
// zero inside the band, otherwise the gap to the nearest edge.
func DistanceATR(z models.Zone, price, atr float64) float64 {
	if atr <= 0 {
		return math.Inf(1)
	}
	if z.Contains(price) {
		return 0
	}
	if price < z.Low {
		return (z.Low - price) / atr
	}
	return (price - z.High) / atr
}

// Nearest returns the zone whose mid is closest to price. Ties break
// toward the lower mid so repeated calls agree.
func Nearest(zs []models.Zone, price float64) (models.Zone, bool) {
	if len(zs) == 0 {
		return models.Zone{}, false
	}
	best := zs[0]
	bestDist := math.Abs(price - best.Mid)
	for _, z := range zs[1:] {
		d := math.Abs(price - z.Mid)
		if d < bestDist || (d == bestDist && z.Mid < best.Mid) {
			best = z
			bestDist = d
		}
	}
	return best, true
}

// NextOpposing finds the profit-target zone: the nearest resistance
// above price for a long, the nearest support below for a short.
func NextOpposing(zs []models.Zone, side models.Side, price float64) (models.Zone, bool) {
	var best models.Zone
	found := false
	for _, z := range zs {
		if side == models.SideLong {
			if z.Kind != models.ZoneResistance || z.Mid <= price {
				continue
			}
			if !found || z.Mid < best.Mid {
				best = z
				found = true
			}
		} else {
			if z.Kind != models.ZoneSupport || z.Mid >= price {
				continue
			}
			if !found || z.Mid > best.Mid {
				best = z
				found = true
			}
		}
	}
	return best, found
}

// WithDistances returns a copy of the zones with DistanceATR filled in,
// sorted nearest first with mid as the tie-break.
func WithDistances(zs []models.Zone, price, atr float64) []models.Zone {
	out := make([]models.Zone, len(zs))
	copy(out, zs)
	for i := range out {
		out[i].DistanceATR = DistanceATR(out[i], price, atr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceATR != out[j].DistanceATR {
			return out[i].DistanceATR < out[j].DistanceATR
		}
		return out[i].Mid < out[j].Mid
	})
	return out
}
