package repository

import (
	"context"
	"time"

	"SwingScan/internal/domain/models"
)

// BarSource provides historical bars. Fetching and persistence of raw
// OHLCV data live outside the core; the scan pipeline only reads.
type BarSource interface {
	DailyBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error)
	IntradayBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error)
	IndexBars(ctx context.Context, indexSymbol string, lookback int) ([]models.Bar, error)
}

// EarningsCalendar answers blackout queries. The window (T-3 to T+2
// trading days around a known earnings date) is applied behind this
// interface; data acquisition is external.
type EarningsCalendar interface {
	InBlackout(ctx context.Context, symbol string, date time.Time) (bool, error)
}

// WatchlistStore persists the weekly watchlist between the ranking run
// and the hourly evaluators.
type WatchlistStore interface {
	Load(ctx context.Context) ([]models.Candidate, error)
	Save(ctx context.Context, entries []models.Candidate) error
	Symbols(ctx context.Context) (map[string]bool, error)
}

// SignalPublisher hands emitted signals to the external alert
// dispatcher. Message formatting and delivery are not core concerns.
type SignalPublisher interface {
	Publish(ctx context.Context, sig *models.Signal) error
	Close() error
}

// SignalStore keeps an audit trail of emitted signals.
type SignalStore interface {
	Store(ctx context.Context, sig *models.Signal) error
	Close() error
}

// ZoneCache is the single-writer/multi-reader zone snapshot resource.
// Publish replaces the symbol's snapshot wholesale; Get never observes
// a partial rewrite.
type ZoneCache interface {
	Get(symbol string) (*models.ZoneSnapshot, bool)
	Publish(snap *models.ZoneSnapshot)
	Symbols() []string
}

// ObservationStream delivers live intraday observations.
type ObservationStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Observation, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records operational counters for the scan pipeline.
type Metrics interface {
	RecordScan(stage string, seconds float64)
	RecordSignal(symbol string, side, quality string)
	RecordSuppression(reason string)
	RecordZoneCount(symbol string, n int)
	RecordError(kind string)
}
