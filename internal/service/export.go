package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/timeseries"

	"github.com/xuri/excelize/v2"
)

// ExportService writes a user's logged data to an xlsx workbook, one sheet
// per data family.
type ExportService struct {
	meals     *MealService
	workouts  *WorkoutService
	sleep     *SleepService
	wearables *WearableService
}

func NewExportService(meals *MealService, workouts *WorkoutService, sleep *SleepService, wearables *WearableService) *ExportService {
	return &ExportService{meals: meals, workouts: workouts, sleep: sleep, wearables: wearables}
}

func (s *ExportService) Workbook(ctx context.Context, userID int, rangeToken string, today time.Time) ([]byte, error) {
	tok := string(timeseries.ParseToken(rangeToken, timeseries.RangeAll))

	f := excelize.NewFile()
	defer f.Close()

	meals, err := s.meals.List(ctx, userID, tok, today)
	if err != nil {
		return nil, err
	}
	f.SetSheetName("Sheet1", "Meals")
	writeRow(f, "Meals", 1, "day", "meal_type", "items", "calories", "protein_g", "carb_g")
	for i, m := range meals {
		var cal, protein, carb float64
		for _, it := range m.Items {
			cal += it.Calories
			protein += it.ProteinG
			carb += it.CarbG
		}
		writeRow(f, "Meals", i+2,
			m.AteAt.Format(timeseries.DayFormat), m.MealType, len(m.Items), cal, protein, carb)
	}

	workouts, err := s.workouts.List(ctx, userID, tok, today)
	if err != nil {
		return nil, err
	}
	f.NewSheet("Workouts")
	writeRow(f, "Workouts", 1, "day", "workout_type", "duration_min", "activities")
	for i, w := range workouts {
		writeRow(f, "Workouts", i+2,
			w.StartedAt.Format(timeseries.DayFormat), w.WorkoutType, w.DurationMin, len(w.Activities))
	}

	sessions, err := s.sleep.List(ctx, userID, tok, today)
	if err != nil {
		return nil, err
	}
	f.NewSheet("Sleep")
	writeRow(f, "Sleep", 1, "day", "hours", "quality")
	for i, ss := range sessions {
		writeRow(f, "Sleep", i+2, normalizeDay(ss.Day), ss.Hours, ss.Quality)
	}

	readings, err := s.wearables.List(ctx, userID, tok, today)
	if err != nil {
		return nil, err
	}
	f.NewSheet("Wearables")
	writeRow(f, "Wearables", 1, "day", "hrv_ms", "resting_hr", "steps", "source")
	for i, r := range readings {
		writeRow(f, "Wearables", i+2, normalizeDay(r.Day), r.HRVMs, r.RestingHR, r.Steps, r.Source)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "write workbook")
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...interface{}) {
	cell := fmt.Sprintf("A%d", row)
	f.SetSheetRow(sheet, cell, &values)
}
