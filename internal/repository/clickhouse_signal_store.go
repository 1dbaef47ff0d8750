package repository

import (
	"context"
	"database/sql"
	"fmt"

	"SwingScan/internal/domain/models"
	pkgch "SwingScan/pkg/clickhouse"
)

// CHSignalStore keeps the audit trail of emitted signals.
type CHSignalStore struct {
	db    *sql.DB
	table string
}

func NewCHSignalStore(ch *pkgch.Client, table string) *CHSignalStore {
	if table == "" {
		table = "signals"
	}
	return &CHSignalStore{db: ch.DB(), table: table}
}

func (s *CHSignalStore) Store(ctx context.Context, sig *models.Signal) error {
	if sig == nil {
		return fmt.Errorf("signal is nil")
	}
	q := fmt.Sprintf(`INSERT INTO %s
        (id, ts, symbol, side, quality, price, zone_id, confluence, pattern, relative_volume, from_watchlist)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)

	fromWatchlist := uint8(0)
	if sig.FromWatchlist {
		fromWatchlist = 1
	}
	_, err := s.db.ExecContext(ctx, q,
		sig.ID,
		sig.Timestamp,
		sig.Symbol,
		string(sig.Side),
		string(sig.Quality),
		sig.Price,
		sig.ZoneID,
		sig.Confluence.Total,
		sig.Pattern.Name,
		sig.RelativeVolume,
		fromWatchlist,
	)
	if err != nil {
		return fmt.Errorf("store signal: %w", err)
	}
	return nil
}

func (s *CHSignalStore) Close() error { return nil }
