package handler

import (
	"strconv"

	"edlink/internal/broker"
	"edlink/internal/domain"
	"edlink/internal/logger"
	"edlink/internal/middleware"
	"edlink/internal/response"
	"edlink/internal/service"
	"edlink/internal/ws"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chat   *service.ChatService
	events broker.Publisher
}

func NewChatHandler(chat *service.ChatService, events broker.Publisher) *ChatHandler {
	return &ChatHandler{chat: chat, events: events}
}

// GetMessages returns the subject's history, or only messages after after_id.
func (h *ChatHandler) GetMessages(c *gin.Context) {
	caller, _ := middleware.GetIdentity(c)
	subjectID, err := subjectIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var afterID *uint
	if s := c.Query("after_id"); s != "" {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid after_id")
			return
		}
		id := uint(v)
		afterID = &id
	}
	msgs, err := h.chat.GetMessages(c.Request.Context(), caller, subjectID, afterID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, msgs)
}

// SendMessage stores a message and pushes it to live subscribers.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	caller, _ := middleware.GetIdentity(c)
	subjectID, err := subjectIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "content is required")
		return
	}
	ctx := c.Request.Context()
	msg, err := h.chat.SendMessage(ctx, caller, subjectID, req.Content)
	if err != nil {
		writeError(c, err)
		return
	}

	pushed := msg
	pushed.Own = false
	if err := h.events.Publish(ctx, domain.SubjectTopic(subjectID), &ws.Event{
		Type:      domain.EventMessageCreated,
		SubjectID: subjectID,
		Data:      pushed,
	}); err != nil {
		log := logger.Ctx(ctx)
		log.Warn().Err(err).Uint(logger.FieldSubjectID, subjectID).Msg("publish message failed")
	}
	response.Created(c, "message sent", msg)
}

// GetParticipants lists the teacher and enrolled students with online flags.
func (h *ChatHandler) GetParticipants(c *gin.Context) {
	caller, _ := middleware.GetIdentity(c)
	subjectID, err := subjectIDParam(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	view, err := h.chat.GetParticipants(c.Request.Context(), caller, subjectID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, view)
}
