package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	pkgch "SwingScan/pkg/clickhouse"
	"SwingScan/pkg/util"
)

const (
	// Blackout spans three trading days before a report through two
	// trading days after.
	blackoutBefore = 3
	blackoutAfter  = 2
)

// CHEarningsCalendar answers blackout queries from the earnings_dates
// table. Report dates are loaded by an external ingest job.
type CHEarningsCalendar struct {
	db    *sql.DB
	table string
}

func NewCHEarningsCalendar(ch *pkgch.Client, table string) *CHEarningsCalendar {
	if table == "" {
		table = "earnings_dates"
	}
	return &CHEarningsCalendar{db: ch.DB(), table: table}
}

// InBlackout reports whether date falls inside the blackout window of
// any known report for the symbol. Symbols with no known report are
// never in blackout.
func (c *CHEarningsCalendar) InBlackout(ctx context.Context, symbol string, date time.Time) (bool, error) {
	// fetch reports near the query date; the window can never span more
	// than two calendar weeks
	q := fmt.Sprintf(`
        SELECT report_date
        FROM %s
        WHERE symbol = ? AND report_date >= ? AND report_date <= ?
    `, c.table)
	rows, err := c.db.QueryContext(ctx, q, symbol, date.AddDate(0, 0, -14), date.AddDate(0, 0, 14))
	if err != nil {
		return false, fmt.Errorf("query earnings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var report time.Time
		if err := rows.Scan(&report); err != nil {
			return false, fmt.Errorf("scan earnings: %w", err)
		}
		if inWindow(report, date) {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("rows: %w", err)
	}
	return false, nil
}

func inWindow(report, date time.Time) bool {
	from := util.AddTradingDays(report, -blackoutBefore)
	to := util.AddTradingDays(report, blackoutAfter)
	d := dateOnly(date)
	return !d.Before(dateOnly(from)) && !d.After(dateOnly(to))
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
