package service

import (
	"context"
	"time"

	"SwingScan/internal/domain/models"
)

// IndicatorCalculator derives the daily indicator set for one symbol.
type IndicatorCalculator interface {
	Compute(symbol string, daily []models.Bar) (models.IndicatorSet, error)
}

// SeedFinder collects candidate price levels from the bar history.
type SeedFinder interface {
	Find(symbol string, daily, intraday []models.Bar, ind models.IndicatorSet) ([]models.Seed, error)
}

// ZoneBuilder turns seeds into merged, scored zones.
type ZoneBuilder interface {
	Build(symbol string, seeds []models.Seed, ind models.IndicatorSet, daily []models.Bar, asOf time.Time) []models.Zone
}

// RegimeAnalyzer classifies the reference-index backdrop.
type RegimeAnalyzer interface {
	Analyze(ctx context.Context, asOf time.Time) (models.MarketContext, error)
}

// ConfluenceScorer scores one (zone, side) pair against the indicator
// set and the market backdrop.
type ConfluenceScorer interface {
	Score(zone models.Zone, side models.Side, ind models.IndicatorSet, mkt models.MarketContext) models.ConfluenceResult
}

// PatternDetector inspects the latest intraday bar for a qualifying
// candlestick pattern.
type PatternDetector interface {
	Detect(bars []models.Bar) (models.Pattern, bool)
}
