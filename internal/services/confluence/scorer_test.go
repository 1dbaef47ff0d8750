package confluence

import (
	"testing"

	"SwingScan/internal/domain/models"
)

func market(primaryAbove, secondAbove, primaryBullish bool) models.MarketContext {
	return models.MarketContext{
		Primary: models.MarketRegime{AboveEMA20: primaryAbove, IndexTrendBullish: primaryBullish},
		Second:  models.MarketRegime{AboveEMA20: secondAbove},
	}
}

func bullishStock() models.IndicatorSet {
	return models.IndicatorSet{Close: 105, SMA50: 100, SMA50Rising: true}
}

func TestScoreFullAlignment(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 5}

	res := s.Score(zone, models.SideLong, bullishStock(), market(true, true, true))
	if res.Index != 2 {
		t.Errorf("Index = %v, want 2 with both indices above EMA20", res.Index)
	}
	if res.Alignment != 2 {
		t.Errorf("Alignment = %v, want 2 for matched bullish trends", res.Alignment)
	}
	if res.Total != 9 {
		t.Errorf("Total = %v, want 9", res.Total)
	}
	if res.Suppressed {
		t.Error("fully aligned signal marked suppressed")
	}
}

func TestScoreSplitIndices(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 4}

	res := s.Score(zone, models.SideLong, bullishStock(), market(true, false, true))
	if res.Index != 1 {
		t.Errorf("Index = %v, want 1 with a split backdrop", res.Index)
	}
	if res.Suppressed {
		t.Error("split backdrop should not suppress")
	}
}

func TestScoreSuppressesAgainstBothIndices(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 6}

	res := s.Score(zone, models.SideLong, bullishStock(), market(false, false, false))
	if !res.Suppressed {
		t.Fatal("long against two bearish indices must be suppressed")
	}
	if res.Index != 0 {
		t.Errorf("Index = %v, want 0 when suppressed", res.Index)
	}
}

func TestScoreNoAlignmentWhenTrendsDiverge(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 5}

	// bullish stock, bearish primary index trend
	res := s.Score(zone, models.SideLong, bullishStock(), market(true, true, false))
	if res.Alignment != 0 {
		t.Errorf("Alignment = %v, want 0 when stock and index disagree", res.Alignment)
	}
}

func TestScoreNoAlignmentAgainstSignalSide(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 5}

	// both bullish but the signal is a short: matched trends on the
	// wrong side pay nothing
	res := s.Score(zone, models.SideShort, bullishStock(), market(false, false, true))
	if res.Alignment != 0 {
		t.Errorf("Alignment = %v, want 0 for a short against matched bullish trends", res.Alignment)
	}
}

func TestScoreClampedAtTen(t *testing.T) {
	s := NewScorer()
	zone := models.Zone{ID: "z1", Strength: 6}

	res := s.Score(zone, models.SideLong, bullishStock(), market(true, true, true))
	if res.Total != 10 {
		t.Errorf("Total = %v, want clamp at 10", res.Total)
	}
}

func TestQualityFor(t *testing.T) {
	cases := []struct {
		name          string
		total, rv     float64
		fromWatchlist bool
		want          models.Quality
	}{
		{"watchlist high", 7.5, 1.6, true, models.QualityHigh},
		{"watchlist medium rv", 7.5, 1.3, true, models.QualityMedium},
		{"default needs eight", 7.5, 1.6, false, models.QualityMedium},
		{"default high", 8.2, 1.6, false, models.QualityHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := QualityFor(tc.total, tc.rv, tc.fromWatchlist); got != tc.want {
				t.Errorf("QualityFor(%v, %v, %v) = %v, want %v", tc.total, tc.rv, tc.fromWatchlist, got, tc.want)
			}
		})
	}
}

func TestEmitThreshold(t *testing.T) {
	if got := EmitThreshold(true); got != 5 {
		t.Errorf("watchlist threshold = %v, want 5", got)
	}
	if got := EmitThreshold(false); got != 7 {
		t.Errorf("default threshold = %v, want 7", got)
	}
}
