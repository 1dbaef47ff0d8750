package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/domain/repository"
	"SwingScan/internal/domain/service"
	"SwingScan/pkg/logger"
)

const (
	defaultDailyLookback    = 250
	defaultIntradayLookback = 130
	defaultRecomputeWorkers = 8
)

// ZoneRecomputer runs the nightly per-symbol pipeline: bars to
// indicators to seeds to merged zones, published as a complete snapshot.
type ZoneRecomputer struct {
	bars    repository.BarSource
	calc    service.IndicatorCalculator
	finder  service.SeedFinder
	builder service.ZoneBuilder
	cache   repository.ZoneCache
	metrics repository.Metrics
	log     *logger.Logger

	workers          int
	dailyLookback    int
	intradayLookback int
}

func NewZoneRecomputer(
	bars repository.BarSource,
	calc service.IndicatorCalculator,
	finder service.SeedFinder,
	builder service.ZoneBuilder,
	cache repository.ZoneCache,
	metrics repository.Metrics,
	log *logger.Logger,
	workers int,
) *ZoneRecomputer {
	if workers <= 0 {
		workers = defaultRecomputeWorkers
	}
	return &ZoneRecomputer{
		bars:             bars,
		calc:             calc,
		finder:           finder,
		builder:          builder,
		cache:            cache,
		metrics:          metrics,
		log:              log,
		workers:          workers,
		dailyLookback:    defaultDailyLookback,
		intradayLookback: defaultIntradayLookback,
	}
}

// RecomputeSymbol rebuilds and publishes the zone map for one symbol.
// The snapshot replaces the prior one only on success; any failure
// leaves yesterday's map in place.
func (r *ZoneRecomputer) RecomputeSymbol(ctx context.Context, symbol string, asOf time.Time) (*models.ZoneSnapshot, error) {
	start := time.Now()

	daily, err := r.bars.DailyBars(ctx, symbol, r.dailyLookback)
	if err != nil {
		return nil, fmt.Errorf("daily bars %s: %w", symbol, err)
	}
	ind, err := r.calc.Compute(symbol, daily)
	if err != nil {
		return nil, err
	}
	intraday, err := r.bars.IntradayBars(ctx, symbol, r.intradayLookback)
	if err != nil {
		return nil, fmt.Errorf("intraday bars %s: %w", symbol, err)
	}
	seeds, err := r.finder.Find(symbol, daily, intraday, ind)
	if err != nil {
		return nil, err
	}

	snap := &models.ZoneSnapshot{
		Symbol:     symbol,
		AsOf:       asOf,
		Price:      ind.Close,
		Zones:      r.builder.Build(symbol, seeds, ind, daily, asOf),
		Indicators: ind,
	}
	r.cache.Publish(snap)

	r.metrics.RecordZoneCount(symbol, len(snap.Zones))
	r.metrics.RecordScan("recompute_symbol", time.Since(start).Seconds())
	r.log.Debug("zone map published",
		logger.String("symbol", symbol),
		logger.Int("zones", len(snap.Zones)),
		logger.Int("seeds", len(seeds)),
	)
	return snap, nil
}

// BatchResult summarizes one universe-wide recompute.
type BatchResult struct {
	Succeeded int
	Failed    int
	Elapsed   time.Duration
}

// RecomputeBatch fans the universe across a bounded worker pool. A
// failing symbol is logged and counted, never fatal to the batch.
func (r *ZoneRecomputer) RecomputeBatch(ctx context.Context, symbols []string, asOf time.Time) BatchResult {
	start := time.Now()

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	var mu sync.Mutex
	res := BatchResult{}

	for _, symbol := range symbols {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			_, err := r.RecomputeSymbol(ctx, symbol, asOf)
			mu.Lock()
			if err != nil {
				res.Failed++
			} else {
				res.Succeeded++
			}
			mu.Unlock()
			if err != nil {
				r.metrics.RecordError("recompute")
				r.log.Warn("symbol skipped", logger.String("symbol", symbol), logger.Error(err))
			}
		}(symbol)
	}
	wg.Wait()

	res.Elapsed = time.Since(start)
	r.metrics.RecordScan("recompute_batch", res.Elapsed.Seconds())
	r.log.Info("zone recompute finished",
		logger.Int("succeeded", res.Succeeded),
		logger.Int("failed", res.Failed),
		logger.Duration("elapsed", res.Elapsed),
	)
	return res
}
