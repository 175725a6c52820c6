package handler

import (
	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type GoalHandler struct{ goals *service.GoalService }

func NewGoalHandler(goals *service.GoalService) *GoalHandler { return &GoalHandler{goals: goals} }

func (h *GoalHandler) List(c *gin.Context) {
	goals, err := h.goals.ListActive(c.Request.Context(), session(c).UserID)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": goals})
}

func (h *GoalHandler) Set(c *gin.Context) {
	var req model.GoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	g, err := h.goals.Set(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"goal": g})
}

func (h *GoalHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		TargetValue float64 `json:"target_value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	g, err := h.goals.UpdateTarget(c.Request.Context(), session(c).UserID, id, req.TargetValue)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"goal": g})
}

func (h *GoalHandler) Deactivate(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.goals.Deactivate(c.Request.Context(), session(c).UserID, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
