package handler

import (
	"longevityhub/internal/apperr"
	"longevityhub/internal/logger"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type WearableHandler struct{ wearables *service.WearableService }

func NewWearableHandler(wearables *service.WearableService) *WearableHandler {
	return &WearableHandler{wearables: wearables}
}

func (h *WearableHandler) Upsert(c *gin.Context) {
	var req model.WearableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	r, err := h.wearables.Upsert(c.Request.Context(), session(c).UserID, req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"reading": r})
}

func (h *WearableHandler) List(c *gin.Context) {
	sess := session(c)
	readings, err := h.wearables.List(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": readings})
}

// ImportCSV accepts a multipart "file" of day,hrv_ms,resting_hr,steps rows.
func (h *WearableHandler) ImportCSV(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, apperr.E(apperr.Validation, "file required"))
		return
	}
	f, err := file.Open()
	if err != nil {
		fail(c, apperr.Wrap(apperr.Validation, err, "open upload"))
		return
	}
	defer f.Close()

	source := c.PostForm("source")
	if source == "" {
		source = "csv"
	}

	n, err := h.wearables.ImportCSV(c.Request.Context(), session(c).UserID, source, f)
	if err != nil {
		fail(c, err)
		return
	}
	logger.Info("wearable csv imported", "uid", session(c).UserID, "rows", n, "file", file.Filename)
	ok(c, gin.H{"imported": n})
}
