package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
)

// Per-day aggregate rows as the fetch queries return them.

type ReadinessDaily struct {
	Day    string
	AvgHRV float64
	AvgRHR float64
	Steps  int
}

type NutrientsDaily struct {
	Day      string
	ProteinG float64
	CarbG    float64
	Calories float64
}

// MetricsStore is the aggregation read path. Each method is one independent
// range-bounded fetch keyed by user and day; callers overlay the results
// onto a dense bucket series. Faked in tests.
type MetricsStore interface {
	ReadinessByDay(ctx context.Context, userID int, start, end time.Time) ([]ReadinessDaily, error)
	NutrientsByDay(ctx context.Context, userID int, start, end time.Time) ([]NutrientsDaily, error)
	SleepHoursByDay(ctx context.Context, userID int, start, end time.Time) (map[string]float64, error)
	WorkoutMinutesByDay(ctx context.Context, userID int, start, end time.Time) (map[string]int, error)
	RecentEvents(ctx context.Context, userID, limit int) ([]model.Event, error)
}

type gormMetricsStore struct{ db *gorm.DB }

func NewMetricsStore(db *gorm.DB) MetricsStore { return &gormMetricsStore{db: db} }

func (s *gormMetricsStore) ReadinessByDay(ctx context.Context, userID int, start, end time.Time) ([]ReadinessDaily, error) {
	rows := []struct {
		Day    string
		AvgHRV float64 `gorm:"column:avg_hrv"`
		AvgRHR float64 `gorm:"column:avg_rhr"`
		Steps  int
	}{}
	err := s.db.WithContext(ctx).
		Raw(`SELECT day, avg_hrv, avg_rhr, steps FROM daily_readiness
		     WHERE user_id = ? AND day BETWEEN ? AND ?`,
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "query daily readiness")
	}
	out := make([]ReadinessDaily, 0, len(rows))
	for _, r := range rows {
		out = append(out, ReadinessDaily{Day: normalizeDay(r.Day), AvgHRV: r.AvgHRV, AvgRHR: r.AvgRHR, Steps: r.Steps})
	}
	return out, nil
}

func (s *gormMetricsStore) NutrientsByDay(ctx context.Context, userID int, start, end time.Time) ([]NutrientsDaily, error) {
	rows := []struct {
		Day      string
		ProteinG float64 `gorm:"column:protein_g"`
		CarbG    float64 `gorm:"column:carb_g"`
		Calories float64
	}{}
	err := s.db.WithContext(ctx).
		Raw(`SELECT day, protein_g, carb_g, calories FROM daily_nutrients
		     WHERE user_id = ? AND day BETWEEN ? AND ?`,
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "query daily nutrients")
	}
	out := make([]NutrientsDaily, 0, len(rows))
	for _, r := range rows {
		out = append(out, NutrientsDaily{Day: normalizeDay(r.Day), ProteinG: r.ProteinG, CarbG: r.CarbG, Calories: r.Calories})
	}
	return out, nil
}

func (s *gormMetricsStore) SleepHoursByDay(ctx context.Context, userID int, start, end time.Time) (map[string]float64, error) {
	rows := []struct {
		Day   string
		Hours float64
	}{}
	err := s.db.WithContext(ctx).Model(&model.SleepSession{}).
		Select("day, SUM(hours) AS hours").
		Where("user_id = ? AND day BETWEEN ? AND ?",
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Group("day").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "query sleep hours")
	}
	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[normalizeDay(r.Day)] = r.Hours
	}
	return out, nil
}

func (s *gormMetricsStore) WorkoutMinutesByDay(ctx context.Context, userID int, start, end time.Time) (map[string]int, error) {
	rows := []struct {
		Day     string
		Minutes int
	}{}
	err := s.db.WithContext(ctx).Model(&model.Workout{}).
		Select("DATE(started_at) AS day, SUM(duration_min) AS minutes").
		Where("user_id = ? AND started_at >= ? AND started_at < ?",
			userID, start, end.AddDate(0, 0, 1)).
		Group("DATE(started_at)").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "query workout minutes")
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[normalizeDay(r.Day)] = r.Minutes
	}
	return out, nil
}

// RecentEvents merges the newest rows across event types into one timeline.
func (s *gormMetricsStore) RecentEvents(ctx context.Context, userID, limit int) ([]model.Event, error) {
	var events []model.Event

	var meals []model.Meal
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("ate_at DESC").Limit(limit).Find(&meals).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "recent meals")
	}
	for _, m := range meals {
		events = append(events, model.Event{
			Kind: "meal", OccurredAt: m.AteAt.UTC().Format(time.RFC3339),
			Label: m.MealType,
		})
	}

	var workouts []model.Workout
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("started_at DESC").Limit(limit).Find(&workouts).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "recent workouts")
	}
	for _, w := range workouts {
		events = append(events, model.Event{
			Kind: "workout", OccurredAt: w.StartedAt.UTC().Format(time.RFC3339),
			Label: fmt.Sprintf("%s %dmin", w.WorkoutType, w.DurationMin),
		})
	}

	var sleeps []model.SleepSession
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("day DESC").Limit(limit).Find(&sleeps).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "recent sleep")
	}
	for _, ss := range sleeps {
		events = append(events, model.Event{
			Kind: "sleep", OccurredAt: normalizeDay(ss.Day) + "T00:00:00Z",
			Label: fmt.Sprintf("%.1fh", ss.Hours),
		})
	}

	var readings []model.WearableReading
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("day DESC").Limit(limit).Find(&readings).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "recent wearables")
	}
	for _, r := range readings {
		events = append(events, model.Event{
			Kind: "wearable", OccurredAt: normalizeDay(r.Day) + "T00:00:00Z",
			Label: fmt.Sprintf("%d steps", r.Steps),
		})
	}

	sort.Slice(events, func(i, j int) bool { return events[i].OccurredAt > events[j].OccurredAt })
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
