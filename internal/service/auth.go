package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct{ db *gorm.DB }

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{db: db} }

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "check email")
	}
	if count > 0 {
		return nil, apperr.E(apperr.Conflict, "email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "hash password")
	}

	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, apperr.E(apperr.Validation, "unknown timezone")
	}

	u := model.User{
		Email: email, PasswordHash: string(hash),
		Name: req.Name, Role: model.RoleMember, Timezone: tz,
	}
	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "create user")
	}
	return &u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.Unauthorized, "bad credentials")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "lookup user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.E(apperr.Unauthorized, "bad credentials")
	}
	return &u, nil
}

func (s *AuthService) Get(ctx context.Context, userID int) (*model.User, error) {
	var u model.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.E(apperr.NotFound, "user not found")
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.Upstream, err, "lookup user")
	}
	return &u, nil
}
