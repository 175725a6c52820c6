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

type MealService struct{ db *gorm.DB }

func NewMealService(db *gorm.DB) *MealService { return &MealService{db: db} }

// Create inserts the meal and its line items in one transaction; a failed
// item insert leaves nothing behind.
func (s *MealService) Create(ctx context.Context, userID int, req model.MealRequest) (*model.Meal, error) {
	ateAt, err := parseEventTime(req.AteAt)
	if err != nil {
		return nil, apperr.E(apperr.Validation, "bad ate_at date")
	}
	if len(req.Items) == 0 {
		return nil, apperr.E(apperr.Validation, "meal needs at least one item")
	}

	meal := model.Meal{UserID: userID, MealType: req.MealType, AteAt: ateAt, Note: req.Note}
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			return nil, apperr.E(apperr.Validation, "item quantity must be positive")
		}
		meal.Items = append(meal.Items, model.MealItem{
			FoodID: it.FoodID, Name: it.Name, Quantity: it.Quantity,
			Calories: it.Calories, ProteinG: it.ProteinG, CarbG: it.CarbG,
		})
	}

	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&meal).Error
	}); err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "insert meal")
	}
	return &meal, nil
}

func (s *MealService) List(ctx context.Context, userID int, rangeToken string, today time.Time) ([]model.Meal, error) {
	start, end := timeseries.Resolve(timeseries.ParseToken(rangeToken, timeseries.Range30D), today)

	var meals []model.Meal
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND ate_at >= ? AND ate_at < ?", userID, start, end.AddDate(0, 0, 1)).
		Order("ate_at DESC").
		Find(&meals).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list meals")
	}
	if meals == nil {
		meals = []model.Meal{}
	}
	return meals, nil
}

func (s *MealService) Get(ctx context.Context, userID, mealID int) (*model.Meal, error) {
	var meal model.Meal
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).First(&meal, mealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "meal not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "get meal")
	}
	return &meal, nil
}

// Update replaces the meal header and its items atomically.
func (s *MealService) Update(ctx context.Context, userID, mealID int, req model.MealRequest) (*model.Meal, error) {
	if _, err := s.Get(ctx, userID, mealID); err != nil {
		return nil, err
	}
	ateAt, err := parseEventTime(req.AteAt)
	if err != nil {
		return nil, apperr.E(apperr.Validation, "bad ate_at date")
	}
	if len(req.Items) == 0 {
		return nil, apperr.E(apperr.Validation, "meal needs at least one item")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Meal{}).Where("id = ?", mealID).
			Updates(map[string]interface{}{
				"meal_type": req.MealType, "ate_at": ateAt, "note": req.Note,
			}).Error; err != nil {
			return err
		}
		if err := tx.Where("meal_id = ?", mealID).Delete(&model.MealItem{}).Error; err != nil {
			return err
		}
		for _, it := range req.Items {
			item := model.MealItem{
				MealID: mealID, FoodID: it.FoodID, Name: it.Name, Quantity: it.Quantity,
				Calories: it.Calories, ProteinG: it.ProteinG, CarbG: it.CarbG,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "update meal")
	}
	return s.Get(ctx, userID, mealID)
}

// Delete removes the meal and its line items together.
func (s *MealService) Delete(ctx context.Context, userID, mealID int) error {
	if _, err := s.Get(ctx, userID, mealID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id = ?", mealID).Delete(&model.MealItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Meal{}, mealID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "delete meal")
	}
	return nil
}

// parseEventTime accepts either a full timestamp or a bare day.
func parseEventTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(timeseries.DayFormat, s)
}
