package handler

import (
	"edlink/internal/middleware"
	"edlink/internal/response"
	"edlink/internal/service"

	"github.com/gin-gonic/gin"
)

type PresenceHandler struct {
	chat *service.ChatService
}

func NewPresenceHandler(chat *service.ChatService) *PresenceHandler {
	return &PresenceHandler{chat: chat}
}

// Ping records a heartbeat and returns the caller's presence snapshot.
func (h *PresenceHandler) Ping(c *gin.Context) {
	caller, _ := middleware.GetIdentity(c)
	subjectID, err := subjectIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	if err := h.chat.RecordHeartbeat(ctx, caller, subjectID); err != nil {
		writeError(c, err)
		return
	}
	snap, err := h.chat.GetPresenceSnapshot(ctx, caller, subjectID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, snap)
}
