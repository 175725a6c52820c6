package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WearableService struct{ db *gorm.DB }

func NewWearableService(db *gorm.DB) *WearableService { return &WearableService{db: db} }

// Upsert writes one reading per (user, day); a second submission for the
// same day replaces the first.
func (s *WearableService) Upsert(ctx context.Context, userID int, req model.WearableRequest) (*model.WearableReading, error) {
	if _, err := time.Parse(timeseries.DayFormat, req.Day); err != nil {
		return nil, apperr.E(apperr.Validation, "bad day date")
	}
	if req.Steps < 0 || req.RestingHR < 0 || req.HRVMs < 0 {
		return nil, apperr.E(apperr.Validation, "metrics must be non-negative")
	}

	r := model.WearableReading{
		UserID: userID, Day: req.Day,
		HRVMs: req.HRVMs, RestingHR: req.RestingHR, Steps: req.Steps, Source: req.Source,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoUpdates: clause.AssignmentColumns([]string{"hrv_ms", "resting_hr", "steps", "source"}),
	}).Create(&r).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "upsert wearable reading")
	}
	return &r, nil
}

func (s *WearableService) List(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.WearableReading, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, timeseries.Range30D), today)

	var readings []model.WearableReading
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND day BETWEEN ? AND ?",
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Order("day DESC").
		Find(&readings).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list wearable readings")
	}
	if readings == nil {
		readings = []model.WearableReading{}
	}
	return readings, nil
}

// ImportCSV ingests "day,hrv_ms,resting_hr,steps" rows, header optional.
// The whole file commits or nothing does.
func (s *WearableService) ImportCSV(ctx context.Context, userID int, source string, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	var readings []model.WearableReading
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, apperr.Wrap(apperr.Validation, err, "malformed csv at line %d", line+1)
		}
		line++
		if line == 1 && rec[0] == "day" {
			continue
		}
		if _, err := time.Parse(timeseries.DayFormat, rec[0]); err != nil {
			return 0, apperr.E(apperr.Validation, "bad day at line "+strconv.Itoa(line))
		}
		hrv, err1 := strconv.ParseFloat(rec[1], 64)
		rhr, err2 := strconv.Atoi(rec[2])
		steps, err3 := strconv.Atoi(rec[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return 0, apperr.E(apperr.Validation, "bad metric at line "+strconv.Itoa(line))
		}
		readings = append(readings, model.WearableReading{
			UserID: userID, Day: rec[0], HRVMs: hrv, RestingHR: rhr, Steps: steps, Source: source,
		})
	}
	if len(readings) == 0 {
		return 0, apperr.E(apperr.Validation, "empty csv")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, reading := range readings {
			r := reading
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
				DoUpdates: clause.AssignmentColumns([]string{"hrv_ms", "resting_hr", "steps", "source"}),
			}).Create(&r).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, apperr.Wrap(apperr.Upstream, err, "import wearable csv")
	}
	return len(readings), nil
}
