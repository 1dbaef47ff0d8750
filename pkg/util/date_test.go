package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestPreviousTradingDaySkipsWeekend(t *testing.T) {
	monday := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)
	got := PreviousTradingDay(monday)
	if got.Weekday() != time.Friday || got.Day() != 13 {
		t.Fatalf("got %v, want Friday the 13th", got)
	}
}

func TestNextTradingDaySkipsWeekend(t *testing.T) {
	friday := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	got := NextTradingDay(friday)
	if got.Weekday() != time.Monday || got.Day() != 16 {
		t.Fatalf("got %v, want Monday the 16th", got)
	}
}

func TestAddTradingDays(t *testing.T) {
	wednesday := time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC)
	if got := AddTradingDays(wednesday, 3); got.Day() != 23 {
		t.Errorf("forward 3 = %v, want Monday the 23rd", got)
	}
	if got := AddTradingDays(wednesday, -3); got.Day() != 13 {
		t.Errorf("back 3 = %v, want Friday the 13th", got)
	}
}

func TestTradingDaysBetween(t *testing.T) {
	friday := time.Date(2025, 6, 13, 16, 0, 0, 0, time.UTC)
	monday := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

	if got := TradingDaysBetween(friday, monday); got != 1 {
		t.Errorf("Friday to Monday = %d, want 1", got)
	}
	if got := TradingDaysBetween(friday, friday); got != 0 {
		t.Errorf("same day = %d, want 0", got)
	}
	if got := TradingDaysBetween(monday, friday); got != -1 {
		t.Errorf("reversed = %d, want -1", got)
	}
}
