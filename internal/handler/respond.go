package handler

import (
	"net/http"
	"time"

	"longevityhub/internal/apperr"
	"longevityhub/internal/logger"
	"longevityhub/internal/middleware"
	"longevityhub/internal/model"

	"github.com/gin-gonic/gin"
)

// ok wraps payload fields into the standard success envelope.
func ok(c *gin.Context, fields gin.H) {
	body := gin.H{"ok": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// fail converts any error into the standard failure envelope. Internal
// details stay in the log; the client sees the error kind or the validation
// message.
func fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	msg := string(kind)
	if kind == apperr.Validation || kind == apperr.Conflict || kind == apperr.NotFound {
		msg = err.Error()
	}
	if kind == apperr.Upstream || kind == apperr.Internal {
		logger.Error("request failed",
			"path", c.FullPath(), "request_id", c.GetString("request_id"), "err", err)
	}
	c.JSON(apperr.Status(kind), gin.H{"ok": false, "error": msg})
}

// todayFor anchors "today" in the session's timezone; a bad or empty tz
// falls back to UTC.
func todayFor(sess model.Session) time.Time {
	loc, err := time.LoadLocation(sess.Timezone)
	if err != nil || sess.Timezone == "" {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

func session(c *gin.Context) model.Session {
	return middleware.GetSession(c)
}
