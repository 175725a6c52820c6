package timeseries

import "time"

// Days returns every calendar day in [start, end] inclusive as YYYY-MM-DD
// strings, ascending. Sparse storage overlays onto this skeleton so charts
// never see gaps.
func Days(start, end time.Time) []string {
	start, end = Midnight(start), Midnight(end)
	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DayFormat))
	}
	return days
}

// Series is a dense day-keyed bucket map. Every day in the window gets one
// zero-valued T up front; fetchers then overlay real rows by day string.
type Series[T any] struct {
	days []string
	rows map[string]*T
}

func NewSeries[T any](start, end time.Time) *Series[T] {
	days := Days(start, end)
	rows := make(map[string]*T, len(days))
	for _, d := range days {
		rows[d] = new(T)
	}
	return &Series[T]{days: days, rows: rows}
}

// At returns the bucket for day, or nil if day is outside the window. Rows
// outside the window are dropped, not appended.
func (s *Series[T]) At(day string) *T {
	return s.rows[day]
}

func (s *Series[T]) Len() int { return len(s.days) }

// Ascending visits every bucket in calendar order.
func (s *Series[T]) Ascending(fn func(day string, row *T)) {
	for _, d := range s.days {
		fn(d, s.rows[d])
	}
}

// Descending visits every bucket newest first, the order list endpoints use.
func (s *Series[T]) Descending(fn func(day string, row *T)) {
	for i := len(s.days) - 1; i >= 0; i-- {
		fn(s.days[i], s.rows[s.days[i]])
	}
}
