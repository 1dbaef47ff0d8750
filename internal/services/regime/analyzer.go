package regime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/domain/repository"
	"SwingScan/internal/services/indicators"
	"SwingScan/pkg/logger"
)

const barLookback = 250

// Analyzer classifies the reference-index backdrop. The result for a
// trading day is cached so the hourly evaluators share one computation.
type Analyzer struct {
	bars    repository.BarSource
	calc    *indicators.Calculator
	log     *logger.Logger
	primary string
	second  string
	ttl     time.Duration

	mu       sync.Mutex
	cached   models.MarketContext
	cachedAt time.Time
}

func NewAnalyzer(bars repository.BarSource, calc *indicators.Calculator, log *logger.Logger, primary, second string, ttl time.Duration) *Analyzer {
	return &Analyzer{
		bars:    bars,
		calc:    calc,
		log:     log,
		primary: primary,
		second:  second,
		ttl:     ttl,
	}
}

// Analyze returns the market context for both reference indices,
// recomputing only when the cached copy has expired.
func (a *Analyzer) Analyze(ctx context.Context, asOf time.Time) (models.MarketContext, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.cachedAt.IsZero() && time.Since(a.cachedAt) < a.ttl {
		return a.cached, nil
	}

	primary, err := a.classify(ctx, a.primary, asOf)
	if err != nil {
		return models.MarketContext{}, err
	}
	second, err := a.classify(ctx, a.second, asOf)
	if err != nil {
		return models.MarketContext{}, err
	}

	a.cached = models.MarketContext{AsOf: asOf, Primary: primary, Second: second}
	a.cachedAt = time.Now()

	a.log.Debug("market regime refreshed",
		logger.String("primary", a.primary),
		logger.String("primary_trend", string(primary.Trend)),
		logger.String("second", a.second),
		logger.String("second_trend", string(second.Trend)),
	)
	return a.cached, nil
}

func (a *Analyzer) classify(ctx context.Context, index string, asOf time.Time) (models.MarketRegime, error) {
	bars, err := a.bars.IndexBars(ctx, index, barLookback)
	if err != nil {
		return models.MarketRegime{}, fmt.Errorf("index bars %s: %w", index, err)
	}
	ind, err := a.calc.Compute(index, bars)
	if err != nil {
		return models.MarketRegime{}, fmt.Errorf("index indicators %s: %w", index, err)
	}

	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}

	r := models.MarketRegime{
		AsOf:              asOf,
		IndexSymbol:       index,
		AboveEMA20:        ind.Close > ind.EMA20,
		AboveSMA50:        ind.Close > ind.SMA50,
		AboveSMA200:       ind.Close > ind.SMA200,
		WeeklyChangePct:   indicators.WeeklyChangePct(closes),
		IndexTrendBullish: ind.TrendBullish(),
	}
	if ind.Close > 0 {
		r.EMA20DistPct = (ind.Close - ind.EMA20) / ind.Close * 100
		r.SMA50DistPct = (ind.Close - ind.SMA50) / ind.Close * 100
		r.SMA200DistPct = (ind.Close - ind.SMA200) / ind.Close * 100
	}

	switch {
	case r.AboveEMA20 && r.AboveSMA50 && r.AboveSMA200:
		r.Trend = models.TrendBullish
	case !r.AboveEMA20 && !r.AboveSMA50 && !r.AboveSMA200:
		r.Trend = models.TrendBearish
	default:
		r.Trend = models.TrendNeutral
	}
	return r, nil
}
