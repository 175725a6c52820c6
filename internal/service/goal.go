package service

import (
	"context"
	"errors"
	"slices"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/timeseries"

	"gorm.io/gorm"
)

type GoalService struct{ db *gorm.DB }

func NewGoalService(db *gorm.DB) *GoalService { return &GoalService{db: db} }

// Set activates a goal for the given type, deactivating any previous active
// goal of the same type in the same transaction so at most one stays active.
func (s *GoalService) Set(ctx context.Context, userID int, req model.GoalRequest) (*model.Goal, error) {
	if !slices.Contains(model.GoalTypes, req.GoalType) {
		return nil, apperr.E(apperr.Validation, "unknown goal_type")
	}
	if req.TargetValue <= 0 {
		return nil, apperr.E(apperr.Validation, "target_value must be positive")
	}
	startDate := req.StartDate
	if startDate == "" {
		startDate = time.Now().UTC().Format(timeseries.DayFormat)
	}
	if _, err := time.Parse(timeseries.DayFormat, startDate); err != nil {
		return nil, apperr.E(apperr.Validation, "bad start_date")
	}

	g := model.Goal{
		UserID: userID, GoalType: req.GoalType,
		TargetValue: req.TargetValue, Active: true, StartDate: startDate,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Goal{}).
			Where("user_id = ? AND goal_type = ? AND active", userID, req.GoalType).
			Update("active", false).Error; err != nil {
			return err
		}
		return tx.Create(&g).Error
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "set goal")
	}
	return &g, nil
}

func (s *GoalService) ListActive(ctx context.Context, userID int) ([]model.Goal, error) {
	var goals []model.Goal
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND active", userID).
		Order("goal_type ASC").
		Find(&goals).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list goals")
	}
	if goals == nil {
		goals = []model.Goal{}
	}
	return goals, nil
}

func (s *GoalService) UpdateTarget(ctx context.Context, userID, goalID int, target float64) (*model.Goal, error) {
	if target <= 0 {
		return nil, apperr.E(apperr.Validation, "target_value must be positive")
	}
	var g model.Goal
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&g, goalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "goal not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "get goal")
	}
	if err := s.db.WithContext(ctx).Model(&g).Update("target_value", target).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "update goal")
	}
	return &g, nil
}

func (s *GoalService) Deactivate(ctx context.Context, userID, goalID int) error {
	res := s.db.WithContext(ctx).Model(&model.Goal{}).
		Where("id = ? AND user_id = ?", goalID, userID).
		Update("active", false)
	if res.Error != nil {
		return apperr.Wrap(apperr.Upstream, res.Error, "deactivate goal")
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "goal not found")
	}
	return nil
}
