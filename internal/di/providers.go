package di

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"SwingScan/internal/domain/repository"
	"SwingScan/internal/domain/service"
	"SwingScan/internal/handler/api"
	mid "SwingScan/internal/middleware"
	internalrepo "SwingScan/internal/repository"
	icache "SwingScan/internal/service/cache"
	"SwingScan/internal/service/stream"
	"SwingScan/internal/services/confluence"
	"SwingScan/internal/services/indicators"
	"SwingScan/internal/services/patterns"
	regimesvc "SwingScan/internal/services/regime"
	"SwingScan/internal/services/seeds"
	"SwingScan/internal/services/zones"
	"SwingScan/internal/usecase"
	pkgch "SwingScan/pkg/clickhouse"
	"SwingScan/pkg/config"
	pkgkafka "SwingScan/pkg/kafka"
	"SwingScan/pkg/logger"
	"SwingScan/pkg/metrics"
	"SwingScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	level := cfg.Logger.Level
	if level == "" {
		level = "info"
	}
	format := cfg.Logger.Format
	if format == "" {
		format = "json"
	}
	output := cfg.Logger.Output
	if output == "" {
		output = "stdout"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: output})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient creates a ClickHouse client and prepares the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema(cfg.ClickHouse.Database)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideBarSource creates the ClickHouse bar reader.
func ProvideBarSource(chClient *pkgch.Client, l *logger.Logger) repository.BarSource {
	store := internalrepo.NewCHBarStore(chClient)
	store.SetLogger(l)
	return store
}

// ProvideSignalStore creates the ClickHouse signal audit writer.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config) repository.SignalStore {
	return internalrepo.NewCHSignalStore(chClient, cfg.ClickHouse.Database+".signals")
}

// ProvideEarningsCalendar creates the earnings blackout lookup.
func ProvideEarningsCalendar(chClient *pkgch.Client, cfg *config.Config) repository.EarningsCalendar {
	return internalrepo.NewCHEarningsCalendar(chClient, cfg.ClickHouse.Database+".earnings_dates")
}

// ProvideRedisClient creates the Redis client shared by the watchlist
// store and the zone snapshot backend.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideWatchlistStore creates the Redis-backed watchlist store.
func ProvideWatchlistStore(cli *redis.Client) repository.WatchlistStore {
	return internalrepo.NewRedisWatchlistStore(cli)
}

// ProvideZoneCache creates the zone snapshot cache with Redis
// persistence so a restart does not lose the overnight maps.
func ProvideZoneCache(cli *redis.Client) repository.ZoneCache {
	return icache.NewZoneStore(icache.NewRedisCacheFromClient(cli), 48*time.Hour)
}

// ProvideIndicatorCalculator creates the indicator calculator.
func ProvideIndicatorCalculator() *indicators.Calculator {
	return indicators.NewCalculator()
}

// ProvideSeedFinder creates the seed finder.
func ProvideSeedFinder() service.SeedFinder {
	return seeds.NewFinder()
}

// ProvideZoneBuilder creates the zone builder.
func ProvideZoneBuilder() service.ZoneBuilder {
	return zones.NewBuilder()
}

// ProvideConfluenceScorer creates the confluence scorer.
func ProvideConfluenceScorer() service.ConfluenceScorer {
	return confluence.NewScorer()
}

// ProvidePatternDetector creates the candlestick detector.
func ProvidePatternDetector() service.PatternDetector {
	return patterns.NewDetector()
}

// ProvideRegimeAnalyzer creates the index regime analyzer.
func ProvideRegimeAnalyzer(
	bars repository.BarSource,
	calc *indicators.Calculator,
	l *logger.Logger,
	cfg *config.Config,
) service.RegimeAnalyzer {
	return regimesvc.NewAnalyzer(
		bars, calc, l,
		cfg.Scan.IndexSymbols[0], cfg.Scan.IndexSymbols[1],
		cfg.Scan.RegimeTTL,
	)
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.SignalPublisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.SignalsTopic)
}

// ProvideKafkaConsumer creates a Kafka consumer for the observations
// topic. Returns nil when the topic is not configured; the WebSocket
// stream is then the only observation source.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Kafka.ObservationsTopic == "" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideDeduper creates the per-symbol signal cooldown.
func ProvideDeduper(cfg *config.Config) *usecase.Deduper {
	return usecase.NewDeduper(cfg.Scan.Cooldown)
}

// ProvideSignalEvaluator creates the hourly trigger evaluator.
func ProvideSignalEvaluator(
	cache repository.ZoneCache,
	regime service.RegimeAnalyzer,
	scorer service.ConfluenceScorer,
	detector service.PatternDetector,
	earnings repository.EarningsCalendar,
	watchlist repository.WatchlistStore,
	publisher repository.SignalPublisher,
	store repository.SignalStore,
	dedup *usecase.Deduper,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.SignalEvaluator {
	return usecase.NewSignalEvaluator(cache, regime, scorer, detector, earnings, watchlist, publisher, store, dedup, m, l)
}

// ProvideZoneRecomputer creates the nightly zone map builder.
func ProvideZoneRecomputer(
	bars repository.BarSource,
	calc *indicators.Calculator,
	finder service.SeedFinder,
	builder service.ZoneBuilder,
	cache repository.ZoneCache,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.ZoneRecomputer {
	return usecase.NewZoneRecomputer(bars, calc, finder, builder, cache, m, l, cfg.Scan.Workers)
}

// ProvideWatchlistRanker creates the weekly watchlist ranker.
func ProvideWatchlistRanker(
	cache repository.ZoneCache,
	regime service.RegimeAnalyzer,
	scorer service.ConfluenceScorer,
	store repository.WatchlistStore,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *usecase.WatchlistRanker {
	return usecase.NewWatchlistRanker(cache, regime, scorer, store, m, l, cfg.Scan.WatchlistSize)
}

// ProvideObservationPipeline creates the stream-to-evaluator pipeline.
func ProvideObservationPipeline(
	evaluator *usecase.SignalEvaluator,
	bars repository.BarSource,
	m repository.Metrics,
	l *logger.Logger,
	cfg *config.Config,
) *mid.ObservationPipeline {
	return mid.NewObservationPipeline(evaluator, bars, m, l,
		mid.WithBarLookback(cfg.Scan.IntradayLookback),
		mid.WithMaxPerMinute(cfg.Scan.MaxPerMinute),
		mid.WithWorkers(cfg.Scan.Workers),
	)
}

// ProvideObservationsHandler registers the handler for the observations topic.
func ProvideObservationsHandler(
	pipeline *mid.ObservationPipeline,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.KafkaObservationsHandler {
	return usecase.NewKafkaObservationsHandler(cfg.Kafka.ObservationsTopic, pipeline, m)
}

// ProvideObservationStream creates the WebSocket price stream, or nil
// when no stream endpoint is configured.
func ProvideObservationStream(cfg *config.Config, l *logger.Logger) repository.ObservationStream {
	if cfg.Stream.WebSocketURL == "" {
		return nil
	}
	return stream.New(
		cfg.Stream.Token,
		cfg.Stream.WebSocketURL,
		cfg.Scan.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		l,
	)
}

// ProvideScannerHandler creates the HTTP handler.
func ProvideScannerHandler(
	l *logger.Logger,
	cache repository.ZoneCache,
	bars repository.BarSource,
	regime service.RegimeAnalyzer,
	evaluator *usecase.SignalEvaluator,
	recomputer *usecase.ZoneRecomputer,
	watchlist repository.WatchlistStore,
	cfg *config.Config,
) *api.ScannerHandler {
	return api.NewScannerHandler(l, cache, bars, regime, evaluator, recomputer, watchlist,
		cfg.Scan.Symbols, cfg.Scan.IntradayLookback)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	pipeline *mid.ObservationPipeline,
	priceStream repository.ObservationStream,
	consumer *pkgkafka.Consumer,
	oh *usecase.KafkaObservationsHandler,
	recomputer *usecase.ZoneRecomputer,
	ranker *usecase.WatchlistRanker,
	handler *api.ScannerHandler,
	publisher repository.SignalPublisher,
	sigStore repository.SignalStore,
	chClient *pkgch.Client,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	return server.New(cfg, l, pipeline, priceStream, consumer, oh, recomputer, ranker, handler, publisher, sigStore, chClient)
}
