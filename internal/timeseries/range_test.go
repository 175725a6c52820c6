package timeseries

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTokenNormalizesCaseAndWhitespace(t *testing.T) {
	cases := []struct {
		in   string
		def  Token
		want Token
	}{
		{"7d", Range30D, Range7D},
		{"30D", Range7D, Range30D},
		{" 1Y ", Range7D, Range1Y},
		{"ALL", Range7D, RangeAll},
		{"", Range30D, Range30D},
		{"14d", Range7D, Range7D},
		{"garbage", Range30D, Range30D},
	}
	for _, tc := range cases {
		if got := ParseToken(tc.in, tc.def); got != tc.want {
			t.Fatalf("ParseToken(%q, %q) = %q, want %q", tc.in, tc.def, got, tc.want)
		}
	}
}

func TestResolveWindowLengths(t *testing.T) {
	today := date(2026, time.March, 15)

	cases := []struct {
		tok  Token
		days int
	}{
		{Range7D, 7},
		{Range30D, 30},
	}
	for _, tc := range cases {
		start, end := Resolve(tc.tok, today)
		if got := len(Days(start, end)); got != tc.days {
			t.Fatalf("%s window has %d days, want %d", tc.tok, got, tc.days)
		}
		if !end.Equal(today) {
			t.Fatalf("%s window ends %s, want today %s", tc.tok, end, today)
		}
	}
}

func TestResolveOneYearSpansLeapAndCommonYears(t *testing.T) {
	// 2024-02-29 inside the window: 367 calendar days inclusive
	start, end := Resolve(Range1Y, date(2024, time.June, 1))
	if got := len(Days(start, end)); got != 367 {
		t.Fatalf("leap-spanning 1y window has %d days, want 367", got)
	}

	start, end = Resolve(Range1Y, date(2026, time.June, 1))
	if got := len(Days(start, end)); got != 366 {
		t.Fatalf("common 1y window has %d days, want 366", got)
	}
}

func TestResolveAllStartsAtEpochFloor(t *testing.T) {
	today := date(2026, time.January, 2)
	start, end := Resolve(RangeAll, today)
	if start.Format(DayFormat) != "2000-01-01" {
		t.Fatalf("all range starts %s, want 2000-01-01", start.Format(DayFormat))
	}
	if !end.Equal(today) {
		t.Fatalf("all range ends %s, want %s", end, today)
	}
}

func TestResolveAllKeepsTodayEastOfUTC(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	today := time.Date(2026, time.March, 15, 0, 30, 0, 0, loc)

	start, end := Resolve(RangeAll, today)
	days := Days(start, end)
	if days[0] != "2000-01-01" {
		t.Fatalf("all range starts %s, want 2000-01-01", days[0])
	}
	if got := days[len(days)-1]; got != "2026-03-15" {
		t.Fatalf("all range last day = %s, want local today 2026-03-15", got)
	}
}

func TestResolveDropsTimeOfDay(t *testing.T) {
	today := time.Date(2026, time.March, 15, 23, 45, 12, 0, time.UTC)
	start, end := Resolve(Range7D, today)
	if end.Hour() != 0 || start.Hour() != 0 {
		t.Fatalf("resolved bounds keep time of day: %s .. %s", start, end)
	}
	if end.Format(DayFormat) != "2026-03-15" {
		t.Fatalf("end day = %s, want 2026-03-15", end.Format(DayFormat))
	}
}
