package service

import (
	"context"
	"errors"
	"strings"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"

	"gorm.io/gorm"
)

// CatalogService manages the admin-owned food catalog and its member-facing
// search.
type CatalogService struct{ db *gorm.DB }

func NewCatalogService(db *gorm.DB) *CatalogService { return &CatalogService{db: db} }

// Search uses the fulltext index first and falls back to LIKE only when the
// fulltext match finds nothing, so the two strategies never union into
// duplicate rows. On non-MySQL dialects only the LIKE path exists.
func (s *CatalogService) Search(ctx context.Context, query string, limit int) ([]model.Food, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 || limit > 50 {
		limit = 25
	}
	if query == "" {
		var foods []model.Food
		if err := s.db.WithContext(ctx).Order("name ASC").Limit(limit).Find(&foods).Error; err != nil {
			return nil, apperr.Wrap(apperr.Upstream, err, "list foods")
		}
		return foods, nil
	}

	if s.db.Dialector.Name() == "mysql" {
		var foods []model.Food
		err := s.db.WithContext(ctx).
			Raw(`SELECT * FROM foods WHERE MATCH(name, brand) AGAINST(? IN NATURAL LANGUAGE MODE) LIMIT ?`,
				query, limit).
			Scan(&foods).Error
		if err != nil {
			return nil, apperr.Wrap(apperr.Upstream, err, "fulltext food search")
		}
		if len(foods) > 0 {
			return foods, nil
		}
	}

	var foods []model.Food
	pattern := "%" + query + "%"
	err := s.db.WithContext(ctx).
		Where("name LIKE ? OR brand LIKE ?", pattern, pattern).
		Order("name ASC").Limit(limit).
		Find(&foods).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "food search")
	}
	if foods == nil {
		foods = []model.Food{}
	}
	return foods, nil
}

func (s *CatalogService) Create(ctx context.Context, f model.Food) (*model.Food, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.E(apperr.Validation, "food name required")
	}
	f.ID = 0
	if err := s.db.WithContext(ctx).Create(&f).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "create food")
	}
	return &f, nil
}

func (s *CatalogService) Update(ctx context.Context, id int, f model.Food) (*model.Food, error) {
	if strings.TrimSpace(f.Name) == "" {
		return nil, apperr.E(apperr.Validation, "food name required")
	}
	var existing model.Food
	err := s.db.WithContext(ctx).First(&existing, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "food not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "get food")
	}
	f.ID = id
	if err := s.db.WithContext(ctx).Save(&f).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "update food")
	}
	return &f, nil
}

func (s *CatalogService) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.Food{}, id)
	if res.Error != nil {
		return apperr.Wrap(apperr.Upstream, res.Error, "delete food")
	}
	if res.RowsAffected == 0 {
		return apperr.E(apperr.NotFound, "food not found")
	}
	return nil
}
