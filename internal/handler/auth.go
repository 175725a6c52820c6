package handler

import (
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/config"
	"longevityhub/internal/logger"
	"longevityhub/internal/middleware"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *service.AuthService
	cfg  config.AuthConfig
}

func NewAuthHandler(auth *service.AuthService, cfg config.AuthConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	u, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("user registered", "uid", u.ID, "email", u.Email)
	if err := h.setSessionCookie(c, u); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"user": u})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	u, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		logger.Warn("login failed", "email", req.Email)
		fail(c, err)
		return
	}
	logger.Info("login ok", "uid", u.ID)
	if err := h.setSessionCookie(c, u); err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"user": u})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.CookieSecure, true)
	ok(c, nil)
}

func (h *AuthHandler) Me(c *gin.Context) {
	u, err := h.auth.Get(c.Request.Context(), session(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"user": u})
}

// setSessionCookie issues the session token; a signing failure fails the
// whole request, never a success response without a cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, u *model.User) error {
	ttl := time.Duration(h.cfg.TokenDays) * 24 * time.Hour
	token, err := middleware.IssueToken([]byte(h.cfg.Secret), u, ttl)
	if err != nil {
		return apperr.Wrap(apperr.Upstream, err, "issue session token")
	}
	c.SetCookie(h.cfg.CookieName, token, int(ttl.Seconds()), "/", "", h.cfg.CookieSecure, true)
	return nil
}
