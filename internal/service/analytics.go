package service

import (
	"context"
	"math"
	"time"

	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"
)

// Per-endpoint range defaults. Every aggregation endpoint states its own
// fallback instead of each handler picking one silently.
const (
	defaultReadinessRange    = timeseries.Range30D
	defaultNutrientsRange    = timeseries.Range7D
	defaultGoalProgressRange = timeseries.Range30D
)

const (
	trendsDefaultDays = 14
	trendsMaxDays     = 90
	dashboardEvents   = 6
)

type goalReader interface {
	ListActive(ctx context.Context, userID int) ([]model.Goal, error)
}

// AnalyticsService merges independent per-family fetches into dense daily
// series. It holds no state across requests.
type AnalyticsService struct {
	store  MetricsStore
	scores ScoreSource
	goals  goalReader
}

func NewAnalyticsService(store MetricsStore, scores ScoreSource, goals goalReader) *AnalyticsService {
	return &AnalyticsService{store: store, scores: scores, goals: goals}
}

// dayMetrics is one bucket. The has* flags separate "logged zero" from
// "never logged"; nutrients report 0 when absent while goal progress
// reports null.
type dayMetrics struct {
	steps      int
	sleepHours float64
	workoutMin int
	proteinG   float64
	carbG      float64
	avgHRV     float64
	avgRHR     float64
	score      *float64

	hasReadiness bool
	hasSleep     bool
	hasWorkout   bool
	hasNutrients bool
}

func (s *AnalyticsService) Readiness(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.ReadinessRow, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, defaultReadinessRange), today)
	series := timeseries.NewSeries[dayMetrics](start, end)

	if err := s.overlayReadiness(ctx, userID, start, end, series); err != nil {
		return nil, err
	}
	if err := s.overlaySleep(ctx, userID, start, end, series); err != nil {
		return nil, err
	}
	if err := s.overlayWorkouts(ctx, userID, start, end, series); err != nil {
		return nil, err
	}

	rows := make([]model.ReadinessRow, 0, series.Len())
	series.Descending(func(day string, m *dayMetrics) {
		rows = append(rows, model.ReadinessRow{
			Day:        day,
			AvgHRV:     round1(m.avgHRV),
			AvgRHR:     round1(m.avgRHR),
			Steps:      m.steps,
			SleepHours: round1(m.sleepHours),
			WorkoutMin: m.workoutMin,
		})
	})
	return rows, nil
}

func (s *AnalyticsService) NutrientsSummary(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.NutrientsRow, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, defaultNutrientsRange), today)
	series := timeseries.NewSeries[dayMetrics](start, end)

	if err := s.overlayNutrients(ctx, userID, start, end, series); err != nil {
		return nil, err
	}

	rows := make([]model.NutrientsRow, 0, series.Len())
	series.Descending(func(day string, m *dayMetrics) {
		rows = append(rows, model.NutrientsRow{Day: day, ProteinG: m.proteinG, CarbG: m.carbG})
	})
	return rows, nil
}

// GoalProgress lists each active goal against the day's actual, descending
// by day then ascending by goal_type. Days with no logged data report a
// null actual, not zero.
func (s *AnalyticsService) GoalProgress(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.GoalProgressRow, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, defaultGoalProgressRange), today)

	goals, err := s.goals.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		return []model.GoalProgressRow{}, nil
	}

	series := timeseries.NewSeries[dayMetrics](start, end)
	if err := s.overlayAll(ctx, userID, start, end, series); err != nil {
		return nil, err
	}

	rows := make([]model.GoalProgressRow, 0, series.Len()*len(goals))
	series.Descending(func(day string, m *dayMetrics) {
		for _, g := range goals {
			rows = append(rows, model.GoalProgressRow{
				Day:         day,
				GoalType:    g.GoalType,
				TargetValue: g.TargetValue,
				ActualValue: m.actualFor(g.GoalType),
			})
		}
	})
	return rows, nil
}

// Trends returns a dense ascending series of n days ending today, n clamped
// to [1, trendsMaxDays] with trendsDefaultDays for zero.
func (s *AnalyticsService) Trends(ctx context.Context, userID, days int, today time.Time) (int, []model.TrendRow, error) {
	if days == 0 {
		days = trendsDefaultDays
	}
	if days < 1 {
		days = 1
	}
	if days > trendsMaxDays {
		days = trendsMaxDays
	}

	end := timeseries.Midnight(today)
	start := end.AddDate(0, 0, -(days - 1))
	series := timeseries.NewSeries[dayMetrics](start, end)

	if err := s.overlayAll(ctx, userID, start, end, series); err != nil {
		return 0, nil, err
	}
	if err := s.overlayScores(ctx, userID, start, end, series); err != nil {
		return 0, nil, err
	}

	rows := make([]model.TrendRow, 0, series.Len())
	series.Ascending(func(day string, m *dayMetrics) {
		rows = append(rows, model.TrendRow{
			Day:        day,
			Steps:      m.steps,
			SleepHours: round1(m.sleepHours),
			WorkoutMin: m.workoutMin,
			ProteinG:   m.proteinG,
			CarbG:      m.carbG,
			Score:      m.score,
		})
	})
	return days, rows, nil
}

// Dashboard assembles the composite landing payload: 7-day score trend,
// latest readiness snapshot, goal-vs-current per tracked type, and the
// newest events across all families.
func (s *AnalyticsService) Dashboard(ctx context.Context, userID int, today time.Time) (*model.Dashboard, error) {
	_, trend, err := s.Trends(ctx, userID, 7, today)
	if err != nil {
		return nil, err
	}

	readiness, err := s.Readiness(ctx, userID, string(timeseries.Range30D), today)
	if err != nil {
		return nil, err
	}
	var snapshot *model.ReadinessRow
	for i := range readiness {
		r := readiness[i]
		if r.AvgHRV != 0 || r.AvgRHR != 0 || r.Steps != 0 || r.SleepHours != 0 || r.WorkoutMin != 0 {
			snapshot = &r
			break
		}
	}

	goals, err := s.goalStatuses(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	events, err := s.store.RecentEvents(ctx, userID, dashboardEvents)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.Event{}
	}

	return &model.Dashboard{
		ScoreTrend: trend,
		Readiness:  snapshot,
		Goals:      goals,
		Events:     events,
	}, nil
}

func (s *AnalyticsService) goalStatuses(ctx context.Context, userID int, today time.Time) ([]model.GoalStatus, error) {
	day := timeseries.Midnight(today)
	series := timeseries.NewSeries[dayMetrics](day, day)
	if err := s.overlayAll(ctx, userID, day, day, series); err != nil {
		return nil, err
	}
	m := series.At(day.Format(timeseries.DayFormat))

	active, err := s.goals.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]float64, len(active))
	for _, g := range active {
		targets[g.GoalType] = g.TargetValue
	}

	statuses := make([]model.GoalStatus, 0, len(model.GoalTypes))
	for _, gt := range model.GoalTypes {
		st := model.GoalStatus{GoalType: gt, Current: m.currentFor(gt)}
		if target, ok := targets[gt]; ok {
			t := target
			st.Target = &t
			pct := round1(st.Current / target * 100)
			st.Percent = &pct
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// --- overlays: one independent fetch per metric family ---

func (s *AnalyticsService) overlayReadiness(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	rows, err := s.store.ReadinessByDay(ctx, userID, start, end)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if m := series.At(r.Day); m != nil {
			m.avgHRV, m.avgRHR, m.steps = r.AvgHRV, r.AvgRHR, r.Steps
			m.hasReadiness = true
		}
	}
	return nil
}

func (s *AnalyticsService) overlayNutrients(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	rows, err := s.store.NutrientsByDay(ctx, userID, start, end)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if m := series.At(r.Day); m != nil {
			m.proteinG, m.carbG = r.ProteinG, r.CarbG
			m.hasNutrients = true
		}
	}
	return nil
}

func (s *AnalyticsService) overlaySleep(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	hours, err := s.store.SleepHoursByDay(ctx, userID, start, end)
	if err != nil {
		return err
	}
	for day, h := range hours {
		if m := series.At(day); m != nil {
			m.sleepHours = h
			m.hasSleep = true
		}
	}
	return nil
}

func (s *AnalyticsService) overlayWorkouts(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	minutes, err := s.store.WorkoutMinutesByDay(ctx, userID, start, end)
	if err != nil {
		return err
	}
	for day, min := range minutes {
		if m := series.At(day); m != nil {
			m.workoutMin = min
			m.hasWorkout = true
		}
	}
	return nil
}

func (s *AnalyticsService) overlayScores(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	scores, err := s.scores.ScoreForRange(ctx, userID, start, end)
	if err != nil {
		return err
	}
	for day, sc := range scores {
		if m := series.At(day); m != nil {
			v := round1(sc)
			m.score = &v
		}
	}
	return nil
}

func (s *AnalyticsService) overlayAll(ctx context.Context, userID int, start, end time.Time, series *timeseries.Series[dayMetrics]) error {
	if err := s.overlayReadiness(ctx, userID, start, end, series); err != nil {
		return err
	}
	if err := s.overlayNutrients(ctx, userID, start, end, series); err != nil {
		return err
	}
	if err := s.overlaySleep(ctx, userID, start, end, series); err != nil {
		return err
	}
	return s.overlayWorkouts(ctx, userID, start, end, series)
}

func (m *dayMetrics) actualFor(goalType string) *float64 {
	var v float64
	switch goalType {
	case "steps":
		if !m.hasReadiness {
			return nil
		}
		v = float64(m.steps)
	case "sleep_hours":
		if !m.hasSleep {
			return nil
		}
		v = round1(m.sleepHours)
	case "workout_min":
		if !m.hasWorkout {
			return nil
		}
		v = float64(m.workoutMin)
	case "protein_g":
		if !m.hasNutrients {
			return nil
		}
		v = m.proteinG
	case "carb_g":
		if !m.hasNutrients {
			return nil
		}
		v = m.carbG
	default:
		return nil
	}
	return &v
}

func (m *dayMetrics) currentFor(goalType string) float64 {
	switch goalType {
	case "steps":
		return float64(m.steps)
	case "sleep_hours":
		return round1(m.sleepHours)
	case "workout_min":
		return float64(m.workoutMin)
	case "protein_g":
		return m.proteinG
	case "carb_g":
		return m.carbG
	default:
		return 0
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
