package util

import (
	"strconv"
	"time"
)

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
	if t, ok := ParseTime(s); ok {
		return t
	}
	return def
}

// IsTradingDay reports whether t falls on a weekday. Exchange holidays
// are not modeled; the bar source simply has no bars on those days.
func IsTradingDay(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// PreviousTradingDay returns the last weekday strictly before t.
func PreviousTradingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, -1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// NextTradingDay returns the first weekday strictly after t.
func NextTradingDay(t time.Time) time.Time {
	d := t.AddDate(0, 0, 1)
	for !IsTradingDay(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// AddTradingDays walks n weekdays from t. Negative n walks backward.
func AddTradingDays(t time.Time, n int) time.Time {
	for n > 0 {
		t = NextTradingDay(t)
		n--
	}
	for n < 0 {
		t = PreviousTradingDay(t)
		n++
	}
	return t
}

// TradingDaysBetween counts weekdays strictly after from, up to and
// including to. Returns 0 when they share a calendar day and a negative
// count when to precedes from.
func TradingDaysBetween(from, to time.Time) int {
	if to.Before(from) {
		return -TradingDaysBetween(to, from)
	}
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	from = time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	to = time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)

	n := 0
	for d := from.AddDate(0, 0, 1); !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			n++
		}
	}
	return n
}
