package middleware

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"SwingScan/internal/domain/models"
	domrepo "SwingScan/internal/domain/repository"
	"SwingScan/internal/service/ratelimit"
	"SwingScan/pkg/logger"
)

// Evaluator is the minimal downstream interface the pipeline needs.
type Evaluator interface {
	Evaluate(ctx context.Context, obs *models.Observation) (*models.Signal, error)
}

// ObservationPipeline sits between the price stream and the signal
// evaluator. It validates observations, throttles per symbol so a busy
// tape cannot drown the evaluator, hydrates the intraday bar window,
// and absorbs bursts in a bounded buffer drained by worker goroutines.
type ObservationPipeline struct {
	eval    Evaluator
	bars    domrepo.BarSource
	limiter *ratelimit.Limiter
	metrics domrepo.Metrics
	log     *logger.Logger

	barLookback  int
	maxPerMinute float64
	workers      int

	bufCh   chan *models.Observation
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

type PipelineOption func(*ObservationPipeline)

// WithBarLookback sets how many intraday bars are fetched for pattern
// and volume checks.
func WithBarLookback(n int) PipelineOption {
	return func(p *ObservationPipeline) {
		if n > 0 {
			p.barLookback = n
		}
	}
}

// WithMaxPerMinute caps accepted observations per symbol per minute.
func WithMaxPerMinute(n int) PipelineOption {
	return func(p *ObservationPipeline) {
		if n > 0 {
			p.maxPerMinute = float64(n)
		}
	}
}

// WithBufferSize sets the burst buffer capacity.
func WithBufferSize(n int) PipelineOption {
	return func(p *ObservationPipeline) {
		if n > 0 {
			p.bufCh = make(chan *models.Observation, n)
		}
	}
}

// WithWorkers sets how many goroutines drain the buffer.
func WithWorkers(n int) PipelineOption {
	return func(p *ObservationPipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func NewObservationPipeline(
	eval Evaluator,
	bars domrepo.BarSource,
	metrics domrepo.Metrics,
	log *logger.Logger,
	opts ...PipelineOption,
) *ObservationPipeline {
	p := &ObservationPipeline{
		eval:         eval,
		bars:         bars,
		limiter:      ratelimit.New(),
		metrics:      metrics,
		log:          log,
		barLookback:  130,
		maxPerMinute: 2,
		workers:      4,
		bufCh:        make(chan *models.Observation, 1024),
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the worker goroutines draining the buffer.
func (p *ObservationPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-p.stopCh:
					return
				case <-ctx.Done():
					return
				case obs := <-p.bufCh:
					if obs == nil {
						continue
					}
					p.process(ctx, obs)
				}
			}
		}()
	}
}

// Stop halts the workers and waits for in-flight evaluations.
func (p *ObservationPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
	p.wg.Wait()
}

// Enqueue validates and throttles one observation, then hands it to the
// buffer without blocking the stream reader. Over-capacity observations
// are dropped and counted.
func (p *ObservationPipeline) Enqueue(obs *models.Observation) error {
	if err := validateObservation(obs); err != nil {
		p.metrics.RecordError("pipeline_validate")
		return err
	}
	if !p.limiter.Allow(obs.Symbol, p.maxPerMinute, p.maxPerMinute/60.0) {
		p.metrics.RecordSuppression("throttled")
		return nil
	}
	select {
	case p.bufCh <- obs:
	default:
		p.metrics.RecordError("pipeline_buffer_full")
		p.log.Warn("observation buffer full, dropping", logger.String("symbol", obs.Symbol))
	}
	return nil
}

// process hydrates the bar window when the stream delivered a bare tick
// and routes the observation through the evaluator. Missing or stale
// zone maps are expected between recompute runs and stay at debug.
func (p *ObservationPipeline) process(ctx context.Context, obs *models.Observation) {
	start := time.Now()
	if len(obs.Bars) == 0 {
		bars, err := p.bars.IntradayBars(ctx, obs.Symbol, p.barLookback)
		if err != nil {
			p.metrics.RecordError("pipeline_bars")
			p.log.Warn("intraday bar fetch failed",
				logger.String("symbol", obs.Symbol), logger.Error(err))
			return
		}
		obs.Bars = bars
	}

	_, err := p.eval.Evaluate(ctx, obs)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrNoZoneMap), errors.Is(err, models.ErrStaleZoneMap):
		p.log.Debug("observation skipped", logger.String("symbol", obs.Symbol), logger.Error(err))
	default:
		p.metrics.RecordError("pipeline_evaluate")
		p.log.Warn("evaluation failed", logger.String("symbol", obs.Symbol), logger.Error(err))
	}
	p.metrics.RecordScan("pipeline", time.Since(start).Seconds())
}

func validateObservation(obs *models.Observation) error {
	if obs == nil {
		return fmt.Errorf("observation nil")
	}
	if obs.Symbol == "" {
		return fmt.Errorf("symbol empty")
	}
	if obs.Timestamp.IsZero() {
		return fmt.Errorf("timestamp invalid")
	}
	if obs.Price < 0 {
		return fmt.Errorf("negative price")
	}
	return nil
}
