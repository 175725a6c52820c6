// Package timeseries holds the range resolution and dense daily bucket
// helpers shared by every aggregation endpoint.
package timeseries

import (
	"strings"
	"time"
)

type Token string

const (
	Range7D  Token = "7d"
	Range30D Token = "30d"
	Range1Y  Token = "1y"
	RangeAll Token = "all"
)

// epochFloorIn bounds the "all" range. Nothing in the product predates it.
// The floor carries today's location so the window always closes on the
// local today, east of UTC included.
func epochFloorIn(loc *time.Location) time.Time {
	return time.Date(2000, time.January, 1, 0, 0, 0, 0, loc)
}

const DayFormat = "2006-01-02"

// ParseToken normalizes a client-supplied range token. Unknown or empty
// tokens fall back to def rather than erroring; each endpoint declares its
// own default.
func ParseToken(s string, def Token) Token {
	switch Token(strings.ToLower(strings.TrimSpace(s))) {
	case Range7D:
		return Range7D
	case Range30D:
		return Range30D
	case Range1Y:
		return Range1Y
	case RangeAll:
		return RangeAll
	default:
		return def
	}
}

// Resolve maps a token to an inclusive [start, end] calendar window anchored
// at today. Both bounds are date-only in today's location.
func Resolve(tok Token, today time.Time) (start, end time.Time) {
	end = Midnight(today)
	switch tok {
	case Range7D:
		start = end.AddDate(0, 0, -6)
	case Range30D:
		start = end.AddDate(0, 0, -29)
	case Range1Y:
		start = end.AddDate(-1, 0, 0)
	case RangeAll:
		start = epochFloorIn(end.Location())
	default:
		start = end.AddDate(0, 0, -6)
	}
	return start, end
}

// Midnight truncates t to its calendar day, preserving the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
