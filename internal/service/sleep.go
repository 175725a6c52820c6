package service

import (
	"context"
	"errors"
	"math"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
)

type SleepService struct{ db *gorm.DB }

func NewSleepService(db *gorm.DB) *SleepService { return &SleepService{db: db} }

func (s *SleepService) Create(ctx context.Context, userID int, req model.SleepRequest) (*model.SleepSession, error) {
	if _, err := time.Parse(timeseries.DayFormat, req.Day); err != nil {
		return nil, apperr.E(apperr.Validation, "bad day date")
	}

	sess := model.SleepSession{UserID: userID, Day: req.Day, Hours: req.Hours, Quality: req.Quality}
	if req.StartAt != "" && req.EndAt != "" {
		startAt, err1 := time.Parse(time.RFC3339, req.StartAt)
		endAt, err2 := time.Parse(time.RFC3339, req.EndAt)
		if err1 != nil || err2 != nil {
			return nil, apperr.E(apperr.Validation, "bad start_at/end_at timestamp")
		}
		if !endAt.After(startAt) {
			return nil, apperr.E(apperr.Validation, "end_at must be after start_at")
		}
		sess.StartAt, sess.EndAt = startAt, endAt
		if sess.Hours == 0 {
			sess.Hours = math.Round(endAt.Sub(startAt).Hours()*10) / 10
		}
	}
	if sess.Hours <= 0 || sess.Hours > 24 {
		return nil, apperr.E(apperr.Validation, "hours out of range")
	}
	if sess.Quality < 0 || sess.Quality > 10 {
		return nil, apperr.E(apperr.Validation, "quality out of range")
	}

	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "insert sleep session")
	}
	return &sess, nil
}

func (s *SleepService) List(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.SleepSession, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, timeseries.Range30D), today)

	var sessions []model.SleepSession
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND day BETWEEN ? AND ?",
			userID, start.Format(timeseries.DayFormat), end.Format(timeseries.DayFormat)).
		Order("day DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list sleep sessions")
	}
	if sessions == nil {
		sessions = []model.SleepSession{}
	}
	return sessions, nil
}

func (s *SleepService) Delete(ctx context.Context, userID, sessionID int) error {
	var sess model.SleepSession
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sess, sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.NotFound, "sleep session not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "get sleep session")
	}
	if err := s.db.WithContext(ctx).Delete(&sess).Error; err != nil {
		return apperr.Wrap(apperr.Upstream, err, "delete sleep session")
	}
	return nil
}
