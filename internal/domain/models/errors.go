package models

import "errors"

// Per-symbol failure taxonomy. All of these are recoverable: the caller
// skips the symbol for the cycle, never the whole batch.
var (
	// ErrInsufficientHistory means too few bars to compute the full
	// indicator set (200 daily bars required for SMA200).
	ErrInsufficientHistory = errors.New("insufficient bar history")

	// ErrNoSeedsFound means the price series was too degenerate to
	// derive a single structural level.
	ErrNoSeedsFound = errors.New("no zone seeds found")

	// ErrStaleZoneMap means the cached zone snapshot is older than one
	// trading day. The evaluator refuses to emit until a fresh recompute.
	ErrStaleZoneMap = errors.New("zone map is stale")

	// ErrNoZoneMap means no snapshot has been published for the symbol.
	ErrNoZoneMap = errors.New("no zone map published")
)
