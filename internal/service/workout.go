package service

import (
	"context"
	"errors"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
)

type WorkoutService struct{ db *gorm.DB }

func NewWorkoutService(db *gorm.DB) *WorkoutService { return &WorkoutService{db: db} }

// Create validates that per-activity minutes add up to the declared total
// before anything touches storage, then writes workout plus activities in
// one transaction.
func (s *WorkoutService) Create(ctx context.Context, userID int, req model.WorkoutRequest) (*model.Workout, error) {
	startedAt, err := parseEventTime(req.StartedAt)
	if err != nil {
		return nil, apperr.E(apperr.Validation, "bad started_at date")
	}
	if len(req.Activities) == 0 {
		return nil, apperr.E(apperr.Validation, "workout needs at least one activity")
	}
	if req.DurationMin <= 0 {
		return nil, apperr.E(apperr.Validation, "duration_min must be positive")
	}
	sum := 0
	for _, a := range req.Activities {
		if a.Minutes <= 0 {
			return nil, apperr.E(apperr.Validation, "activity minutes must be positive")
		}
		sum += a.Minutes
	}
	if sum != req.DurationMin {
		return nil, apperr.E(apperr.Validation, "activity minutes do not sum to duration_min")
	}

	w := model.Workout{
		UserID: userID, WorkoutType: req.WorkoutType,
		StartedAt: startedAt, DurationMin: req.DurationMin, Note: req.Note,
	}
	for _, a := range req.Activities {
		w.Activities = append(w.Activities, model.WorkoutActivity{
			Name: a.Name, Minutes: a.Minutes, Intensity: a.Intensity,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&w).Error
	}); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "insert workout")
	}
	return &w, nil
}

func (s *WorkoutService) List(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.Workout, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, timeseries.Range30D), today)

	var workouts []model.Workout
	err := s.db.WithContext(ctx).Preload("Activities").
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, start, end.AddDate(0, 0, 1)).
		Order("started_at DESC").
		Find(&workouts).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list workouts")
	}
	if workouts == nil {
		workouts = []model.Workout{}
	}
	return workouts, nil
}

func (s *WorkoutService) Get(ctx context.Context, userID, workoutID int) (*model.Workout, error) {
	var w model.Workout
	err := s.db.WithContext(ctx).Preload("Activities").
		Where("user_id = ?", userID).First(&w, workoutID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "workout not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "get workout")
	}
	return &w, nil
}

func (s *WorkoutService) Delete(ctx context.Context, userID, workoutID int) error {
	if _, err := s.Get(ctx, userID, workoutID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("workout_id = ?", workoutID).Delete(&model.WorkoutActivity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Workout{}, workoutID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "delete workout")
	}
	return nil
}
