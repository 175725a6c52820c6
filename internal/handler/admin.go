package handler

import (
	"strconv"

	"longevityhub/internal/apperr"
	"longevityhub/internal/logger"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	admin   *service.AdminService
	catalog *service.CatalogService
}

func NewAdminHandler(admin *service.AdminService, catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{admin: admin, catalog: catalog}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	users, err := h.admin.ListUsers(c.Request.Context(), c.Query("search"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": users})
}

func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var upd service.UserUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	u, err := h.admin.UpdateUser(c.Request.Context(), id, upd)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("admin updated user", "admin", session(c).UserID, "uid", id)
	ok(c, gin.H{"user": u})
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if id == session(c).UserID {
		fail(c, apperr.E(apperr.Validation, "cannot delete own account"))
		return
	}
	if err := h.admin.DeleteUser(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	logger.Info("admin deleted user", "admin", session(c).UserID, "uid", id)
	ok(c, nil)
}

func (h *AdminHandler) CreateFood(c *gin.Context) {
	var f model.Food
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	created, err := h.catalog.Create(c.Request.Context(), f)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"food": created})
}

func (h *AdminHandler) UpdateFood(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var f model.Food
	if err := c.ShouldBindJSON(&f); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	updated, err := h.catalog.Update(c.Request.Context(), id, f)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"food": updated})
}

func (h *AdminHandler) DeleteFood(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
