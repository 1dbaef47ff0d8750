package server

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"SwingScan/internal/domain/repository"
	"SwingScan/internal/handler/api"
	mid "SwingScan/internal/middleware"
	"SwingScan/internal/usecase"
	pkgch "SwingScan/pkg/clickhouse"
	"SwingScan/pkg/config"
	xhttp "SwingScan/pkg/http"
	pkgkafka "SwingScan/pkg/kafka"
	applogger "SwingScan/pkg/logger"
	"SwingScan/pkg/util"
)

// App encapsulates the entire application lifecycle: the HTTP server,
// the live observation feed, the Kafka consumer, and the nightly and
// weekly scan schedules.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	pipeline    *mid.ObservationPipeline
	priceStream repository.ObservationStream
	consumer    *pkgkafka.Consumer
	oh          pkgkafka.MessageHandler
	recomputer  *usecase.ZoneRecomputer
	ranker      *usecase.WatchlistRanker
	handler     *api.ScannerHandler
	publisher   repository.SignalPublisher
	sigStore    repository.SignalStore
	chClient    *pkgch.Client
	httpServer  *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *mid.ObservationPipeline,
	priceStream repository.ObservationStream,
	consumer *pkgkafka.Consumer,
	oh pkgkafka.MessageHandler,
	recomputer *usecase.ZoneRecomputer,
	ranker *usecase.WatchlistRanker,
	handler *api.ScannerHandler,
	publisher repository.SignalPublisher,
	sigStore repository.SignalStore,
	chClient *pkgch.Client,
) *App {
	return &App{
		cfg:         cfg,
		log:         log,
		pipeline:    pipeline,
		priceStream: priceStream,
		consumer:    consumer,
		oh:          oh,
		recomputer:  recomputer,
		ranker:      ranker,
		handler:     handler,
		publisher:   publisher,
		sigStore:    sigStore,
		chClient:    chClient,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	a.pipeline.Start(ctx)

	// Warm start: rebuild zone maps so evaluators have something to
	// check before the first scheduled run.
	go func() {
		res := a.recomputer.RecomputeBatch(ctx, a.cfg.Scan.Symbols, time.Now())
		a.log.Info("startup recompute finished",
			applogger.Int("succeeded", res.Succeeded),
			applogger.Int("failed", res.Failed),
			applogger.Duration("elapsed", res.Elapsed),
		)
	}()

	if a.priceStream != nil {
		go a.runStream(ctx)
	}

	if a.consumer != nil && a.oh != nil {
		a.consumer.RegisterHandler(a.oh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("kafka consumer started", applogger.String("topic", a.oh.Topic()))
	}

	go a.runSchedules(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	a.log.Info("scanner started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.Strings("symbols", a.cfg.Scan.Symbols),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// runStream keeps the WebSocket feed alive, pushing observations into
// the pipeline and reconnecting after transport errors.
func (a *App) runStream(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !a.priceStream.IsConnected() {
			if err := a.priceStream.Connect(ctx); err != nil {
				a.log.Warn("stream connect failed", applogger.Error(err))
				time.Sleep(a.cfg.Stream.ReconnectDelay)
				continue
			}
			if err := a.priceStream.Subscribe(ctx); err != nil {
				a.log.Warn("stream subscribe failed", applogger.Error(err))
				_ = a.priceStream.Close()
				continue
			}
		}

		observations, errs := a.priceStream.Read(ctx)
	read:
		for {
			select {
			case <-ctx.Done():
				return
			case obs, ok := <-observations:
				if !ok {
					break read
				}
				if err := a.pipeline.Enqueue(obs); err != nil {
					a.log.Debug("observation rejected", applogger.Error(err))
				}
			case err, ok := <-errs:
				if !ok {
					break read
				}
				a.log.Warn("stream read error, reconnecting", applogger.Error(err))
				break read
			}
		}
		if err := a.priceStream.Reconnect(ctx); err != nil {
			a.log.Warn("stream reconnect failed", applogger.Error(err))
		}
	}
}

// runSchedules drives the nightly zone recompute and the weekly
// watchlist ranking off a minute tick.
func (a *App) runSchedules(ctx context.Context) {
	recomputeAt := a.cfg.Scan.RecomputeAt
	if recomputeAt == "" {
		recomputeAt = "17:30"
	}
	rankDay := weekday(a.cfg.Scan.RankWeekday)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	var lastRecompute, lastRank string

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			day := now.Format("2006-01-02")
			if now.Format("15:04") != recomputeAt {
				continue
			}
			if day != lastRecompute && util.IsTradingDay(now) {
				lastRecompute = day
				res := a.recomputer.RecomputeBatch(ctx, a.cfg.Scan.Symbols, now)
				a.log.Info("nightly recompute finished",
					applogger.Int("succeeded", res.Succeeded),
					applogger.Int("failed", res.Failed),
					applogger.Duration("elapsed", res.Elapsed),
				)
			}
			if day != lastRank && now.Weekday() == rankDay {
				lastRank = day
				entries, err := a.ranker.Rank(ctx, now)
				if err != nil {
					a.log.Error("watchlist ranking failed", applogger.Error(err))
					continue
				}
				a.log.Info("watchlist ranked", applogger.Int("entries", len(entries)))
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.priceStream != nil {
		if err := a.priceStream.Close(); err != nil {
			a.log.Warn("stream close error", applogger.Error(err))
		}
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	a.pipeline.Stop()

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.log.Warn("publisher close error", applogger.Error(err))
		}
	}
	if a.sigStore != nil {
		if err := a.sigStore.Close(); err != nil {
			a.log.Warn("signal store close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

func weekday(name string) time.Weekday {
	switch strings.ToLower(name) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
