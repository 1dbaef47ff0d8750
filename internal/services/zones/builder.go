package zones

import (
	"fmt"
	"math"
	"sort"
	"time"

	"SwingScan/internal/domain/models"
)

const (
	// Band half-width in ATR units. Merged zones are re-tightened to the
	// same half-width around the new weighted mid.
	bandATRFactor = 0.30

	// Zones further than this from the current price are stale structure,
	// not actionable levels.
	maxDistancePct = 0.25

	touchBonus    = 0.05
	stackBonus    = 0.5
	strengthCap   = 6.0
	strengthFloor = 0.0
)

// Builder merges seeds into scored zones. Stateless; safe for
// concurrent use.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

type band struct {
	mid   float64
	seeds []models.Seed
}

// Build expands each seed into an ATR band, merges overlapping bands to
// a fixed point, scores the survivors and classifies them against the
// current price. Output is sorted by mid ascending and deterministic for
// identical inputs.
func (b *Builder) Build(symbol string, seeds []models.Seed, ind models.IndicatorSet, daily []models.Bar, asOf time.Time) []models.Zone {
	if len(seeds) == 0 || ind.ATR14 <= 0 || ind.Close <= 0 {
		return nil
	}
	half := bandATRFactor * ind.ATR14

	bands := make([]band, 0, len(seeds))
	for _, s := range seeds {
		bands = append(bands, band{mid: s.Price, seeds: []models.Seed{s}})
	}
	bands = mergeToFixedPoint(bands, half)

	var out []models.Zone
	supports, resistances := 0, 0
	for _, bd := range bands {
		if math.Abs(bd.mid-ind.Close)/ind.Close > maxDistancePct {
			continue
		}

		z := models.Zone{
			Symbol:    symbol,
			Low:       bd.mid - half,
			Mid:       bd.mid,
			High:      bd.mid + half,
			CreatedAt: asOf,
		}
		z.Components = componentKinds(bd.seeds)
		z.TouchScore = TouchScore(z.Low, z.High, daily, asOf)
		z.Strength = strength(bd.seeds, z.Components, z.TouchScore, ind)

		if bd.mid <= ind.Close {
			z.Kind = models.ZoneSupport
			supports++
			z.ID = zoneID(symbol, z.Kind, supports, asOf)
		} else {
			z.Kind = models.ZoneResistance
			resistances++
			z.ID = zoneID(symbol, z.Kind, resistances, asOf)
		}
		out = append(out, z)
	}
	return out
}

// mergeToFixedPoint sorts bands by mid and sweeps adjacent pairs,
// merging whenever their ATR bands overlap. The merged mid is the
// weight-weighted average of all constituent seed prices, which can
// shift a band into overlap with its next neighbor, so the sweep repeats
// until a pass makes no merge.
func mergeToFixedPoint(bands []band, half float64) []band {
	for {
		sort.Slice(bands, func(i, j int) bool {
			if bands[i].mid != bands[j].mid {
				return bands[i].mid < bands[j].mid
			}
			return firstKind(bands[i]) < firstKind(bands[j])
		})

		merged := false
		next := bands[:0]
		for _, bd := range bands {
			if n := len(next); n > 0 && next[n-1].mid+half >= bd.mid-half {
				next[n-1] = mergeBands(next[n-1], bd)
				merged = true
				continue
			}
			next = append(next, bd)
		}
		bands = next
		if !merged {
			return bands
		}
	}
}

func mergeBands(a, b band) band {
	seeds := append(append([]models.Seed{}, a.seeds...), b.seeds...)
	var wsum, psum float64
	for _, s := range seeds {
		wsum += s.BaseWeight
		psum += s.BaseWeight * s.Price
	}
	mid := psum / wsum
	return band{mid: mid, seeds: seeds}
}

// strength sums the strongest weight per component kind, credits recent
// touches, and adds the stack bonus when the moving averages align and
// one of them anchors the zone. Clamped to [0, 6].
func strength(seeds []models.Seed, components []models.SeedKind, touchScore float64, ind models.IndicatorSet) float64 {
	best := make(map[models.SeedKind]float64, len(components))
	for _, s := range seeds {
		if s.BaseWeight > best[s.Kind] {
			best[s.Kind] = s.BaseWeight
		}
	}
	var sum float64
	for _, w := range best {
		sum += w
	}

	s := sum * (1 + touchBonus*touchScore)
	if ind.StackAligned() && hasMAComponent(components) {
		s += stackBonus
	}
	if s > strengthCap {
		s = strengthCap
	}
	if s < strengthFloor {
		s = strengthFloor
	}
	return s
}

func hasMAComponent(components []models.SeedKind) bool {
	for _, k := range components {
		switch k {
		case models.SeedEMA20, models.SeedSMA50, models.SeedSMA100, models.SeedSMA200:
			return true
		}
	}
	return false
}

func componentKinds(seeds []models.Seed) []models.SeedKind {
	seen := make(map[models.SeedKind]bool, len(seeds))
	var out []models.SeedKind
	for _, s := range seeds {
		if !seen[s.Kind] {
			seen[s.Kind] = true
			out = append(out, s.Kind)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func firstKind(b band) models.SeedKind {
	if len(b.seeds) == 0 {
		return ""
	}
	return b.seeds[0].Kind
}

func zoneID(symbol string, kind models.ZoneKind, n int, asOf time.Time) string {
	return fmt.Sprintf("%s_%s_%d_%s", symbol, kind, n, asOf.Format("20060102"))
}
