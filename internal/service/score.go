package service

import (
	"context"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
)

// ScoreSource yields the opaque daily wellness score. The batch form is the
// primary contract so an implementation can resolve a whole window in one
// round trip instead of one call per day.
type ScoreSource interface {
	ScoreForRange(ctx context.Context, userID int, start, end time.Time) (map[string]float64, error)
}

// ScoreForDay is the single-day convenience wrapper over a ScoreSource.
// Returns nil when no score exists for that day; absence means "not yet
// computed", not zero.
func ScoreForDay(ctx context.Context, src ScoreSource, userID int, day time.Time) (*float64, error) {
	scores, err := src.ScoreForRange(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}
	if v, ok := scores[day.Format(timeseries.DayFormat)]; ok {
		return &v, nil
	}
	return nil, nil
}

// dbScoreSource reads the daily_scores view, which fronts the scoring
// computation owned by the database.
type dbScoreSource struct{ db *gorm.DB }

func NewScoreSource(db *gorm.DB) ScoreSource { return &dbScoreSource{db: db} }

func (s *dbScoreSource) ScoreForRange(ctx context.Context, userID int, start, end time.Time) (map[string]float64, error) {
	rows := []struct {
		Day   string
		Score float64
	}{}
	err := s.db.WithContext(ctx).
		Raw(`SELECT day, score FROM daily_scores WHERE user_id = ? AND day BETWEEN ? AND ?`,
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "query daily scores")
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[normalizeDay(r.Day)] = r.Score
	}
	return out, nil
}

// normalizeDay trims a DATE column that scanned with a time component.
func normalizeDay(day string) string {
	if len(day) > len(timeseries.DayFormat) {
		return day[:len(timeseries.DayFormat)]
	}
	return day
}
