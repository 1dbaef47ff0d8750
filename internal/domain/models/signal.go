package models

import "time"

// Side is the direction of a candidate signal.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Quality is the tier of an emitted signal.
type Quality string

const (
	QualityHigh   Quality = "high"
	QualityMedium Quality = "medium"
)

// ConfluenceResult is the scored breakdown for one (zone, side) pair.
// Ephemeral: computed on demand and carried only inside the Signal it
// supports.
type ConfluenceResult struct {
	ZoneID     string
	Side       Side
	Base       float64 // zone structural strength, 0-6
	Index      float64 // reference index alignment, 0-2
	Alignment  float64 // stock-vs-index trend alignment, 0 or 2
	Total      float64 // clamped to [0, 10]
	Suppressed bool    // both reference indices contradict the signal direction
}

// Pattern is a qualifying candlestick pattern on the latest intraday bar.
type Pattern struct {
	Name           string
	Side           Side
	Price          float64
	RelativeVolume float64
}

// Targets carries the next opposing zone mid and a stop level just past
// the triggering zone's far edge.
type Targets struct {
	NextZone float64
	Stop     float64
}

// Signal is an actionable entry opportunity. Immutable once emitted;
// consumed by the external alert dispatcher.
type Signal struct {
	ID             string
	Symbol         string
	Timestamp      time.Time
	Side           Side
	Quality        Quality
	Price          float64
	ZoneID         string
	Confluence     ConfluenceResult
	FromWatchlist  bool
	Pattern        Pattern
	RelativeVolume float64
	Targets        *Targets
}

// Candidate is one ranked watchlist entry from the weekly batch.
type Candidate struct {
	Symbol      string
	ZoneID      string
	ZoneKind    ZoneKind
	ZoneMid     float64
	Price       float64
	Confluence  float64
	DistanceATR float64
	ScannedAt   time.Time
}
