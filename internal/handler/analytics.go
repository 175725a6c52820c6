package handler

import (
	"strconv"

	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	export    *service.ExportService
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, export *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, export: export}
}

func (h *AnalyticsHandler) Readiness(c *gin.Context) {
	sess := session(c)
	rows, err := h.analytics.Readiness(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": rows})
}

func (h *AnalyticsHandler) NutrientsSummary(c *gin.Context) {
	sess := session(c)
	rows, err := h.analytics.NutrientsSummary(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": rows})
}

func (h *AnalyticsHandler) GoalProgress(c *gin.Context) {
	sess := session(c)
	rows, err := h.analytics.GoalProgress(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"rows": rows})
}

func (h *AnalyticsHandler) Trends(c *gin.Context) {
	sess := session(c)
	// non-numeric days falls back to the default, same policy as range tokens
	days, _ := strconv.Atoi(c.Query("days"))
	rangeDays, rows, err := h.analytics.Trends(c.Request.Context(), sess.UserID, days, todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"range_days": rangeDays, "rows": rows})
}

func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	sess := session(c)
	dash, err := h.analytics.Dashboard(c.Request.Context(), sess.UserID, todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, gin.H{"dashboard": dash})
}

func (h *AnalyticsHandler) Export(c *gin.Context) {
	sess := session(c)
	data, err := h.export.Workbook(c.Request.Context(), sess.UserID, c.Query("range"), todayFor(sess))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="longevityhub-export.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
