package handlers

import (
	"net/http"

	"mindwell/services/chat"
	"mindwell/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ChatHandler exposes the chat session lifecycle surface: realtime tokens
// (the lazy-activation trigger), manual end, and the on-demand sweep.
type ChatHandler struct {
	Lifecycle chat.LifecycleService
	Logger    *zap.Logger
}

func NewChatHandler(lifecycle chat.LifecycleService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{Lifecycle: lifecycle, Logger: logger}
}

// RealtimeToken serves a channel capability token. A pending session past
// its scheduled instant goes active before the token is returned.
func (h *ChatHandler) RealtimeToken(c *gin.Context) {
	sessionID := c.Param("sessionID")
	var input struct {
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	token, session, err := h.Lifecycle.RealtimeToken(c.Request.Context(), sessionID, input.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token, "session": session})
}

// EndSession ends an active session on user action.
func (h *ChatHandler) EndSession(c *gin.Context) {
	sessionID := c.Param("sessionID")

	if err := h.Lifecycle.ManualEnd(c.Request.Context(), sessionID); err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

// Reconcile triggers the overdue-session sweep on demand.
func (h *ChatHandler) Reconcile(c *gin.Context) {
	activated, err := h.Lifecycle.CheckAndActivateOverdueSessions(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activated": activated})
}
