package handler

import (
	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct{ workouts *service.WorkoutService }

func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) Create(c *gin.Context) {
	var req model.WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	w, err := h.workouts.Create(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"workout": w})
}

func (h *WorkoutHandler) List(c *gin.Context) {
	sess := session(c)
	workouts, err := h.workouts.List(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": workouts})
}

func (h *WorkoutHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	w, err := h.workouts.Get(c.Request.Context(), session(c).UserID, id)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"workout": w})
}

func (h *WorkoutHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.workouts.Delete(c.Request.Context(), session(c).UserID, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
