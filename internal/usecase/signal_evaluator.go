package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"SwingScan/internal/domain/models"
	"SwingScan/internal/domain/repository"
	"SwingScan/internal/domain/service"
	"SwingScan/internal/services/confluence"
	"SwingScan/internal/services/zones"
	"SwingScan/pkg/logger"
	"SwingScan/pkg/util"
)

const (
	// proximityATR is the maximum gap between price and a zone mid,
	// in ATR units, for the zone to count as "in play".
	proximityATR = 0.35

	// rvMin is the relative-volume floor for any emission.
	rvMin = 1.2

	// maxSnapshotAgeDays refuses snapshots older than one trading day.
	maxSnapshotAgeDays = 1
)

// SignalEvaluator runs the hourly trigger checks for one observation:
// a fresh zone map, price at a zone, a qualifying pattern with volume,
// a supportive backdrop, the score threshold, no earnings blackout and
// no recent duplicate. Every rejection is counted by reason.
type SignalEvaluator struct {
	cache     repository.ZoneCache
	regime    service.RegimeAnalyzer
	scorer    service.ConfluenceScorer
	detector  service.PatternDetector
	earnings  repository.EarningsCalendar
	watchlist repository.WatchlistStore
	publisher repository.SignalPublisher
	store     repository.SignalStore
	dedup     *Deduper
	metrics   repository.Metrics
	log       *logger.Logger
}

func NewSignalEvaluator(
	cache repository.ZoneCache,
	regime service.RegimeAnalyzer,
	scorer service.ConfluenceScorer,
	detector service.PatternDetector,
	earnings repository.EarningsCalendar,
	watchlist repository.WatchlistStore,
	publisher repository.SignalPublisher,
	store repository.SignalStore,
	dedup *Deduper,
	metrics repository.Metrics,
	log *logger.Logger,
) *SignalEvaluator {
	return &SignalEvaluator{
		cache:     cache,
		regime:    regime,
		scorer:    scorer,
		detector:  detector,
		earnings:  earnings,
		watchlist: watchlist,
		publisher: publisher,
		store:     store,
		dedup:     dedup,
		metrics:   metrics,
		log:       log,
	}
}

// Evaluate checks one observation against the symbol's zone map. A nil
// signal with a nil error means the gates rejected it; errors are
// reserved for missing or stale zone maps and collaborator failures.
func (e *SignalEvaluator) Evaluate(ctx context.Context, obs *models.Observation) (*models.Signal, error) {
	start := time.Now()
	defer func() {
		e.metrics.RecordScan("evaluate", time.Since(start).Seconds())
	}()

	snap, ok := e.cache.Get(obs.Symbol)
	if !ok {
		e.metrics.RecordError("no_zone_map")
		return nil, fmt.Errorf("%s: %w", obs.Symbol, models.ErrNoZoneMap)
	}
	if util.TradingDaysBetween(snap.AsOf, obs.Timestamp) > maxSnapshotAgeDays {
		e.metrics.RecordError("stale_zone_map")
		return nil, fmt.Errorf("%s: snapshot from %s: %w",
			obs.Symbol, snap.AsOf.Format("2006-01-02"), models.ErrStaleZoneMap)
	}

	price := obs.Price
	if price <= 0 {
		if last, ok := obs.LastBar(); ok {
			price = last.Close
		}
	}
	zone, ok := e.zoneInPlay(snap, price)
	if !ok {
		e.reject("not_at_zone")
		return nil, nil
	}

	pattern, ok := e.detector.Detect(obs.Bars)
	if !ok {
		e.reject("no_pattern")
		return nil, nil
	}
	if !sideFitsZone(pattern.Side, zone.Kind) {
		e.reject("side_mismatch")
		return nil, nil
	}
	if pattern.RelativeVolume < rvMin {
		e.reject("low_volume")
		return nil, nil
	}

	mkt, err := e.regime.Analyze(ctx, obs.Timestamp)
	if err != nil {
		e.metrics.RecordError("regime")
		return nil, fmt.Errorf("market regime: %w", err)
	}
	score := e.scorer.Score(zone, pattern.Side, snap.Indicators, mkt)
	if score.Suppressed {
		e.reject("regime_suppressed")
		return nil, nil
	}

	onWatchlist, err := e.onWatchlist(ctx, obs.Symbol)
	if err != nil {
		return nil, err
	}
	if score.Total < confluence.EmitThreshold(onWatchlist) {
		e.reject("below_threshold")
		return nil, nil
	}

	blackout, err := e.earnings.InBlackout(ctx, obs.Symbol, obs.Timestamp)
	if err != nil {
		e.metrics.RecordError("earnings")
		return nil, fmt.Errorf("earnings calendar %s: %w", obs.Symbol, err)
	}
	if blackout {
		e.reject("earnings_blackout")
		return nil, nil
	}

	if !e.dedup.TryAcquire(obs.Symbol, string(pattern.Side), obs.Timestamp) {
		e.reject("cooldown")
		return nil, nil
	}

	sig := e.buildSignal(snap, zone, pattern, score, price, obs.Timestamp, onWatchlist)
	if err := e.publisher.Publish(ctx, sig); err != nil {
		e.metrics.RecordError("publish")
		return nil, fmt.Errorf("publish signal %s: %w", sig.ID, err)
	}
	if e.store != nil {
		if err := e.store.Store(ctx, sig); err != nil {
			e.metrics.RecordError("signal_store")
			e.log.Warn("signal audit write failed", logger.String("id", sig.ID), logger.Error(err))
		}
	}

	e.metrics.RecordSignal(sig.Symbol, string(sig.Side), string(sig.Quality))
	e.log.Info("signal emitted",
		logger.String("symbol", sig.Symbol),
		logger.String("side", string(sig.Side)),
		logger.String("pattern", sig.Pattern.Name),
		logger.String("zone", sig.ZoneID),
		logger.Float64("confluence", sig.Confluence.Total),
		logger.String("quality", string(sig.Quality)),
	)
	return sig, nil
}

// zoneInPlay picks the nearest zone whose band holds the price or whose
// mid is within the proximity gate.
func (e *SignalEvaluator) zoneInPlay(snap *models.ZoneSnapshot, price float64) (models.Zone, bool) {
	atr := snap.Indicators.ATR14
	var best models.Zone
	bestGap := math.Inf(1)
	for _, z := range snap.Zones {
		gap := math.Abs(price - z.Mid)
		if !z.Contains(price) && (atr <= 0 || gap > proximityATR*atr) {
			continue
		}
		if gap < bestGap || (gap == bestGap && z.Mid < best.Mid) {
			best = z
			bestGap = gap
		}
	}
	return best, !math.IsInf(bestGap, 1)
}

func (e *SignalEvaluator) onWatchlist(ctx context.Context, symbol string) (bool, error) {
	symbols, err := e.watchlist.Symbols(ctx)
	if err != nil {
		e.metrics.RecordError("watchlist")
		return false, fmt.Errorf("watchlist symbols: %w", err)
	}
	return symbols[symbol], nil
}

func (e *SignalEvaluator) buildSignal(
	snap *models.ZoneSnapshot,
	zone models.Zone,
	pattern models.Pattern,
	score models.ConfluenceResult,
	price float64,
	ts time.Time,
	onWatchlist bool,
) *models.Signal {
	sig := &models.Signal{
		ID:             fmt.Sprintf("%s_%s_%d", snap.Symbol, pattern.Side, ts.Unix()),
		Symbol:         snap.Symbol,
		Timestamp:      ts,
		Side:           pattern.Side,
		Quality:        confluence.QualityFor(score.Total, pattern.RelativeVolume, onWatchlist),
		Price:          price,
		ZoneID:         zone.ID,
		Confluence:     score,
		FromWatchlist:  onWatchlist,
		Pattern:        pattern,
		RelativeVolume: pattern.RelativeVolume,
	}

	atr := snap.Indicators.ATR14
	targets := &models.Targets{}
	if pattern.Side == models.SideLong {
		targets.Stop = zone.Low - 0.10*atr
	} else {
		targets.Stop = zone.High + 0.10*atr
	}
	if next, ok := zones.NextOpposing(snap.Zones, pattern.Side, price); ok {
		targets.NextZone = next.Mid
	}
	sig.Targets = targets
	return sig
}

func (e *SignalEvaluator) reject(reason string) {
	e.metrics.RecordSuppression(reason)
}

// sideFitsZone keeps longs at support and shorts at resistance. A
// bullish pattern under resistance is a breakout bet, not the reversion
// trade this pipeline hunts.
func sideFitsZone(side models.Side, kind models.ZoneKind) bool {
	if side == models.SideLong {
		return kind == models.ZoneSupport
	}
	return kind == models.ZoneResistance
}
