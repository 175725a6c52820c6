package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"

	"gorm.io/gorm"
)

// AdminService handles user account management. All callers must already be
// role-gated.
type AdminService struct{ db *gorm.DB }

func NewAdminService(db *gorm.DB) *AdminService { return &AdminService{db: db} }

// ListUsers searches by email or name. Plain LIKE on two columns; the
// original's MATCH-plus-LIKE union duplicated rows for no gain.
func (s *AdminService) ListUsers(ctx context.Context, search string, limit int) ([]model.User, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	q := s.db.WithContext(ctx).Model(&model.User{}).Order("id ASC").Limit(limit)
	if search = strings.TrimSpace(search); search != "" {
		pattern := "%" + search + "%"
		q = q.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}
	var users []model.User
	if err := q.Find(&users).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "list users")
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

type UserUpdate struct {
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Timezone *string `json:"timezone"`
}

func (s *AdminService) UpdateUser(ctx context.Context, userID int, upd UserUpdate) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "get user")
	}

	fields := map[string]interface{}{}
	if upd.Name != nil {
		fields["name"] = *upd.Name
	}
	if upd.Role != nil {
		if !slices.Contains([]string{model.RoleMember, model.RolePremium, model.RoleAdmin}, *upd.Role) {
			return nil, apperr.E(apperr.Validation, "unknown role")
		}
		fields["role"] = *upd.Role
	}
	if upd.Timezone != nil {
		fields["timezone"] = *upd.Timezone
	}
	if len(fields) == 0 {
		return &u, nil
	}
	if err := s.db.WithContext(ctx).Model(&u).Updates(fields).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "update user")
	}
	return &u, nil
}

// DeleteUser removes the account and every row it owns, atomically.
func (s *AdminService) DeleteUser(ctx context.Context, userID int) error {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "get user")
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meal_id IN (?)",
			tx.Model(&model.Meal{}).Select("id").Where("user_id = ?", userID),
		).Delete(&model.MealItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("workout_id IN (?)",
			tx.Model(&model.Workout{}).Select("id").Where("user_id = ?", userID),
		).Delete(&model.WorkoutActivity{}).Error; err != nil {
			return err
		}
		for _, m := range []interface{}{
			&model.Meal{}, &model.Workout{}, &model.SleepSession{},
			&model.WearableReading{}, &model.Goal{},
		} {
			if err := tx.Where("user_id = ?", userID).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.User{}, userID).Error
	})
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "delete user")
	}
	return nil
}
