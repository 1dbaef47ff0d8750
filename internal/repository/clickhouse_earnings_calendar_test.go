package repository

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEarningsBlackoutWindow(t *testing.T) {
	// report on Wednesday 2025-06-18: window runs Friday 06-13 through
	// Friday 06-20 in trading days
	report := day(2025, time.June, 18)

	cases := []struct {
		date time.Time
		want bool
	}{
		{day(2025, time.June, 12), false}, // Thursday, four sessions before
		{day(2025, time.June, 13), true},  // Friday, three sessions before
		{day(2025, time.June, 16), true},  // Monday
		{day(2025, time.June, 18), true},  // report day
		{day(2025, time.June, 20), true},  // two sessions after
		{day(2025, time.June, 23), false}, // Monday, three sessions after
	}
	for _, tc := range cases {
		if got := inWindow(report, tc.date); got != tc.want {
			t.Errorf("inWindow(report, %s) = %v, want %v", tc.date.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestEarningsBlackoutIgnoresClockTime(t *testing.T) {
	report := day(2025, time.June, 18)
	late := time.Date(2025, time.June, 20, 23, 30, 0, 0, time.UTC)
	if !inWindow(report, late) {
		t.Error("end-of-day timestamp on the last blackout session rejected")
	}
}
