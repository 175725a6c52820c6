package handler

import (
	"longevityhub/internal/apperr"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type SleepHandler struct{ sleep *service.SleepService }

func NewSleepHandler(sleep *service.SleepService) *SleepHandler { return &SleepHandler{sleep: sleep} }

func (h *SleepHandler) Create(c *gin.Context) {
	var req model.SleepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	sess, err := h.sleep.Create(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"sleep": sess})
}

func (h *SleepHandler) List(c *gin.Context) {
	sess := session(c)
	sessions, err := h.sleep.List(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": sessions})
}

func (h *SleepHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.sleep.Delete(c.Request.Context(), session(c).UserID, id); err != nil {
		fail(c, err)
		return
	}
	ok(c, nil)
}
