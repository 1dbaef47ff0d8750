package models

import "time"

// SeedKind identifies the structural feature a seed was derived from.
type SeedKind string

const (
	SeedEMA20       SeedKind = "ema20"
	SeedSwingHigh   SeedKind = "swing_high"
	SeedSwingLow    SeedKind = "swing_low"
	SeedGapEdge     SeedKind = "gap_edge"
	SeedGapFilled   SeedKind = "gap_filled"
	SeedHVN         SeedKind = "hvn"
	SeedSMA50       SeedKind = "sma50"
	SeedSMA100      SeedKind = "sma100"
	SeedSMA200      SeedKind = "sma200"
	SeedRoundNumber SeedKind = "round_number"
)

// Seed is a single structurally significant price level before band
// expansion. Seeds are generated fresh each recompute cycle and consumed
// immediately by the zone builder.
type Seed struct {
	Symbol     string
	Kind       SeedKind
	Price      float64
	BaseWeight float64
}

// ZoneKind classifies a zone relative to the current price.
type ZoneKind string

const (
	ZoneSupport    ZoneKind = "support"
	ZoneResistance ZoneKind = "resistance"
)

// Zone is a merged price band representing one support/resistance
// cluster. Invariant: Low < Mid < High, and no two zones of the same
// symbol overlap after merging.
type Zone struct {
	ID         string
	Symbol     string
	Kind       ZoneKind
	Low        float64
	Mid        float64
	High       float64
	Components []SeedKind
	Strength   float64 // structural strength, clamped to [0, 6]
	TouchScore float64
	CreatedAt  time.Time

	// DistanceATR is filled by proximity queries: 0 when price is inside
	// the band, otherwise the gap to the nearest edge in ATR units.
	DistanceATR float64
}

// Contains reports whether price falls inside the zone band (inclusive).
func (z Zone) Contains(price float64) bool {
	return price >= z.Low && price <= z.High
}

// HasComponent reports whether kind contributed to the zone.
func (z Zone) HasComponent(kind SeedKind) bool {
	for _, c := range z.Components {
		if c == kind {
			return true
		}
	}
	return false
}

// ZoneSnapshot is the complete zone map for one symbol as of one trading
// day. Snapshots are published by replacement: readers see either the
// prior day's complete map or the new one, never a partial rewrite.
type ZoneSnapshot struct {
	Symbol     string
	AsOf       time.Time
	Price      float64
	Zones      []Zone
	Indicators IndicatorSet
}
