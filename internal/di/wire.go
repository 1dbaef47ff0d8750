//go:build wireinject
// +build wireinject

package di

import (
	"SwingScan/pkg/config"
	"SwingScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,

		// Repositories
		ProvideBarSource,
		ProvideSignalStore,
		ProvideEarningsCalendar,
		ProvideWatchlistStore,
		ProvideZoneCache,
		ProvideSignalPublisher,
		ProvideObservationStream,

		// Core engine
		ProvideIndicatorCalculator,
		ProvideSeedFinder,
		ProvideZoneBuilder,
		ProvideConfluenceScorer,
		ProvidePatternDetector,
		ProvideRegimeAnalyzer,

		// Use cases
		ProvideDeduper,
		ProvideSignalEvaluator,
		ProvideZoneRecomputer,
		ProvideWatchlistRanker,
		ProvideObservationPipeline,
		ProvideObservationsHandler,

		// Delivery
		ProvideScannerHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
