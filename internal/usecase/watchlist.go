package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/domain/repository"
	"SwingScan/internal/domain/service"
	"SwingScan/internal/services/confluence"
	"SwingScan/internal/services/zones"
	"SwingScan/pkg/logger"
)

const (
	// watchlistMaxDistanceATR admits symbols whose best zone sits within
	// one ATR of the current price.
	watchlistMaxDistanceATR = 1.0

	defaultWatchlistSize = 20
)

// WatchlistRanker builds the weekly focus list: for every symbol with a
// published zone map, find the best nearby zone, score it, and keep the
// strongest names.
type WatchlistRanker struct {
	cache   repository.ZoneCache
	regime  service.RegimeAnalyzer
	scorer  service.ConfluenceScorer
	store   repository.WatchlistStore
	metrics repository.Metrics
	log     *logger.Logger
	size    int
}

func NewWatchlistRanker(
	cache repository.ZoneCache,
	regime service.RegimeAnalyzer,
	scorer service.ConfluenceScorer,
	store repository.WatchlistStore,
	metrics repository.Metrics,
	log *logger.Logger,
	size int,
) *WatchlistRanker {
	if size <= 0 {
		size = defaultWatchlistSize
	}
	return &WatchlistRanker{
		cache:   cache,
		regime:  regime,
		scorer:  scorer,
		store:   store,
		metrics: metrics,
		log:     log,
		size:    size,
	}
}

// Rank scores every symbol's best zone, orders candidates by confluence
// with distance and then symbol as tie-breaks, truncates to the
// configured size and persists the result.
func (r *WatchlistRanker) Rank(ctx context.Context, asOf time.Time) ([]models.Candidate, error) {
	start := time.Now()

	mkt, err := r.regime.Analyze(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("market regime: %w", err)
	}

	var candidates []models.Candidate
	for _, symbol := range r.cache.Symbols() {
		snap, ok := r.cache.Get(symbol)
		if !ok {
			continue
		}
		if c, ok := r.bestCandidate(snap, mkt, asOf); ok {
			candidates = append(candidates, c)
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Confluence != b.Confluence {
			return a.Confluence > b.Confluence
		}
		if a.DistanceATR != b.DistanceATR {
			return a.DistanceATR < b.DistanceATR
		}
		return a.Symbol < b.Symbol
	})
	if len(candidates) > r.size {
		candidates = candidates[:r.size]
	}

	if err := r.store.Save(ctx, candidates); err != nil {
		r.metrics.RecordError("watchlist_save")
		return nil, fmt.Errorf("save watchlist: %w", err)
	}

	r.metrics.RecordScan("watchlist_rank", time.Since(start).Seconds())
	r.log.Info("watchlist ranked",
		logger.Int("entries", len(candidates)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return candidates, nil
}

// bestCandidate returns the symbol's strongest scoring zone within one
// ATR, or false when nothing clears the watchlist bar.
func (r *WatchlistRanker) bestCandidate(snap *models.ZoneSnapshot, mkt models.MarketContext, asOf time.Time) (models.Candidate, bool) {
	atr := snap.Indicators.ATR14
	best := models.Candidate{}
	found := false

	for _, z := range snap.Zones {
		dist := zones.DistanceATR(z, snap.Price, atr)
		if dist > watchlistMaxDistanceATR {
			continue
		}
		side := models.SideLong
		if z.Kind == models.ZoneResistance {
			side = models.SideShort
		}
		score := r.scorer.Score(z, side, snap.Indicators, mkt)
		if score.Suppressed || score.Total < confluence.EmitWatchlistMin {
			continue
		}

		better := !found ||
			score.Total > best.Confluence ||
			(score.Total == best.Confluence && dist < best.DistanceATR)
		if better {
			best = models.Candidate{
				Symbol:      snap.Symbol,
				ZoneID:      z.ID,
				ZoneKind:    z.Kind,
				ZoneMid:     z.Mid,
				Price:       snap.Price,
				Confluence:  score.Total,
				DistanceATR: dist,
				ScannedAt:   asOf,
			}
			found = true
		}
	}
	return best, found
}
