package confluence

import "SwingScan/internal/domain/models"

const (
	indexBothAligned = 2.0
	indexOneAligned  = 1.0
	alignmentBonus   = 2.0
	totalCap         = 10.0
)

// Thresholds for acting on a score. Watchlist symbols earned a lower
// bar during the weekly scan; everything else must clear the higher one.
const (
	EmitWatchlistMin = 5.0
	EmitDefaultMin   = 7.0
	HighWatchlistMin = 7.0
	HighDefaultMin   = 8.0
)

// Scorer combines zone strength with the market backdrop. Stateless;
// safe for concurrent use.
type Scorer struct{}

func NewScorer() *Scorer { return &Scorer{} }

// Score grades one (zone, side) pair. The base is the zone's structural
// strength; the index component counts reference indices on the
// signal's side of their EMA20; the alignment bonus pays out when the
// stock and the primary index trend together in the signal's direction.
// When both indices contradict the direction the result is suppressed.
func (s *Scorer) Score(zone models.Zone, side models.Side, ind models.IndicatorSet, mkt models.MarketContext) models.ConfluenceResult {
	res := models.ConfluenceResult{
		ZoneID: zone.ID,
		Side:   side,
		Base:   zone.Strength,
	}

	switch mkt.AlignedCount(side) {
	case 2:
		res.Index = indexBothAligned
	case 1:
		res.Index = indexOneAligned
	default:
		res.Suppressed = true
	}

	stockBullish := ind.TrendBullish()
	if stockBullish == mkt.Primary.IndexTrendBullish && sideMatchesTrend(side, stockBullish) {
		res.Alignment = alignmentBonus
	}

	res.Total = res.Base + res.Index + res.Alignment
	if res.Total > totalCap {
		res.Total = totalCap
	}
	if res.Total < 0 {
		res.Total = 0
	}
	return res
}

// QualityFor tiers a passing score. Callers gate on the emit threshold
// and relative volume before asking for a tier.
func QualityFor(total, relativeVolume float64, fromWatchlist bool) models.Quality {
	highMin := HighDefaultMin
	if fromWatchlist {
		highMin = HighWatchlistMin
	}
	if total >= highMin && relativeVolume >= 1.5 {
		return models.QualityHigh
	}
	return models.QualityMedium
}

// EmitThreshold is the minimum total score to act on a signal.
func EmitThreshold(fromWatchlist bool) float64 {
	if fromWatchlist {
		return EmitWatchlistMin
	}
	return EmitDefaultMin
}

func sideMatchesTrend(side models.Side, bullish bool) bool {
	if side == models.SideLong {
		return bullish
	}
	return !bullish
}
