package handler

import (
	"longevityhub/internal/apperr"
	"longevityhub/internal/logger"
	"longevityhub/internal/model"
	"longevityhub/internal/service"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct{ chat *service.ChatService }

func NewChatHandler(chat *service.ChatService) *ChatHandler { return &ChatHandler{chat: chat} }

func (h *ChatHandler) Ask(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperr.E(apperr.Validation, "invalid request"))
		return
	}
	sess := session(c)
	reply, err := h.chat.Ask(c.Request.Context(), sess.UserID, req.Question, todayFor(sess))
	if err != nil {
		logger.Warn("chat failed", "uid", sess.UserID, "err", err)
		fail(c, err)
		return
	}
	ok(c, gin.H{"reply": reply})
}
