package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"SwingScan/internal/domain/models"
	domrepo "SwingScan/internal/domain/repository"
	pkgch "SwingScan/pkg/clickhouse"
	applogger "SwingScan/pkg/logger"
)

// CHBarStore reads OHLCV history from ClickHouse. Ingestion is a
// separate concern; the scan pipeline only queries.
type CHBarStore struct {
	db *sql.DB
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client) *CHBarStore {
	return &CHBarStore{db: ch.DB()}
}

// SetLogger injects a structured logger.
func (s *CHBarStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHBarStore) DailyBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return s.queryBars(ctx, domrepo.TF1d, symbol, lookback)
}

func (s *CHBarStore) IntradayBars(ctx context.Context, symbol string, lookback int) ([]models.Bar, error) {
	return s.queryBars(ctx, domrepo.TF1h, symbol, lookback)
}

// IndexBars reads daily history for a reference index. Indices live in
// the same table as equities.
func (s *CHBarStore) IndexBars(ctx context.Context, indexSymbol string, lookback int) ([]models.Bar, error) {
	return s.queryBars(ctx, domrepo.TF1d, indexSymbol, lookback)
}

// tableFor maps a timeframe onto its bar table.
func tableFor(tf domrepo.Timeframe) string {
	return "bars_" + string(tf)
}

// queryBars fetches the newest lookback rows and returns them oldest
// first, the order the indicator math expects.
func (s *CHBarStore) queryBars(ctx context.Context, tf domrepo.Timeframe, symbol string, lookback int) ([]models.Bar, error) {
	start := time.Now()
	table := tableFor(tf)
	const qtpl = `
        SELECT ts, symbol, open, high, low, close, volume
        FROM %s
        WHERE symbol = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, table)
	rows, err := s.db.QueryContext(ctx, q, symbol, lookback)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse bars query error",
				applogger.String("table", table),
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	out := make([]models.Bar, 0, lookback)
	for rows.Next() {
		var b models.Bar
		if err := rows.Scan(&b.Timestamp, &b.Symbol, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	// reverse DESC query order to oldest-first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	if s.l != nil {
		s.l.Debug("clickhouse bars ok",
			applogger.String("table", table),
			applogger.String("symbol", symbol),
			applogger.Int("rows", len(out)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}

// Schema returns idempotent DDL for the tables this store reads and the
// signal audit table. Applied at startup via the client.
func Schema(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.bars_1d (
            ts DateTime,
            symbol LowCardinality(String),
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            volume Int64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.bars_1h (
            ts DateTime,
            symbol LowCardinality(String),
            open Float64,
            high Float64,
            low Float64,
            close Float64,
            volume Int64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, ts)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.earnings_dates (
            symbol LowCardinality(String),
            report_date Date
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, report_date)`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.signals (
            id String,
            ts DateTime,
            symbol LowCardinality(String),
            side LowCardinality(String),
            quality LowCardinality(String),
            price Float64,
            zone_id String,
            confluence Float64,
            pattern LowCardinality(String),
            relative_volume Float64,
            from_watchlist UInt8
        ) ENGINE = MergeTree
        ORDER BY (symbol, ts)`, database),
	}
}
