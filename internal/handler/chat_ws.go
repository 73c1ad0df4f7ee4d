package handler

import (
	"context"
	"errors"
	"time"

	"edlink/config"
	"edlink/internal/auth"
	"edlink/internal/broker"
	"edlink/internal/domain"
	"edlink/internal/logger"
	"edlink/internal/response"
	"edlink/internal/service"
	"edlink/internal/ws"

	"github.com/gin-gonic/gin"
)

const gatewayOpTimeout = 10 * time.Second

// ChatGateway serves GET /ws/chat. It authenticates the handshake, keeps
// per-connection topic subscriptions and turns push frames into service calls.
type ChatGateway struct {
	chat     *service.ChatService
	resolver *auth.Resolver
	hub      *ws.Hub
	events   broker.Publisher
	cfg      config.WebSocketConfig
}

func NewChatGateway(chat *service.ChatService, resolver *auth.Resolver, hub *ws.Hub, events broker.Publisher, cfg config.WebSocketConfig) *ChatGateway {
	return &ChatGateway{chat: chat, resolver: resolver, hub: hub, events: events, cfg: cfg}
}

// Upgrade rejects the handshake with 401 unless a valid credential is given
// in the Authorization header or, for browsers, the token query parameter.
func (g *ChatGateway) Upgrade(c *gin.Context) {
	token, ok := auth.BearerToken(c.GetHeader("Authorization"))
	if !ok {
		token = c.Query("token")
	}
	caller, err := g.resolver.Resolve(token)
	if err != nil {
		response.Unauthorized(c, "invalid or missing credential")
		return
	}

	conn, err := ws.Upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	client := ws.NewClient(g.hub, caller.UserID, caller.Role.String(), g.cfg.SendBuffer)
	log := logger.Ctx(c.Request.Context()).With().
		Str(logger.FieldConnID, client.ID).
		Uint(logger.FieldUserID, caller.UserID).
		Logger()
	// Store calls must finish even if the socket drops mid-operation.
	base := logger.WithLogger(context.WithoutCancel(c.Request.Context()), log)
	client.SetFilter(g.deliveryFilter(base, client, caller))

	log.Info().Msg("websocket connected")
	ws.NewConn(client, conn, g.cfg, log).Run(func(raw []byte) {
		g.handleFrame(base, client, caller, raw)
	})
	log.Info().Msg("websocket disconnected")
}

// deliveryFilter re-checks access before each event reaches the client.
// Losing access ends the subscription; lookup failures only skip the event.
func (g *ChatGateway) deliveryFilter(base context.Context, client *ws.Client, caller domain.Identity) ws.Filter {
	return func(topic string) ws.Verdict {
		subjectID, ok := domain.ParseSubjectTopic(topic)
		if !ok {
			return ws.Skip
		}
		ctx, cancel := context.WithTimeout(base, gatewayOpTimeout)
		defer cancel()
		err := g.chat.Authorize(ctx, caller, subjectID)
		switch {
		case err == nil:
			return ws.Deliver
		case errors.Is(err, domain.ErrAccessDenied), errors.Is(err, domain.ErrNotFound):
			log := logger.Ctx(ctx)
			log.Info().Err(err).Uint(logger.FieldSubjectID, subjectID).Msg("subscription revoked")
			g.reply(client, &ws.Event{Type: domain.EventUnsubscribed, SubjectID: subjectID})
			return ws.Revoke
		default:
			log := logger.Ctx(ctx)
			log.Warn().Err(err).Uint(logger.FieldSubjectID, subjectID).Msg("delivery check failed")
			return ws.Skip
		}
	}
}

func (g *ChatGateway) handleFrame(base context.Context, client *ws.Client, caller domain.Identity, raw []byte) {
	frame, err := ws.DecodeFrame(raw)
	if err != nil {
		g.reply(client, ws.ErrorEvent(0, domain.CodeBadRequest, err.Error()))
		return
	}
	ctx, cancel := context.WithTimeout(base, gatewayOpTimeout)
	defer cancel()

	switch frame.Type {
	case domain.OpPing:
		g.reply(client, &ws.Event{Type: domain.EventPong})
	case domain.OpSubscribe:
		g.subscribe(ctx, client, caller, frame.SubjectID)
	case domain.OpUnsubscribe:
		g.hub.Unsubscribe(client, domain.SubjectTopic(frame.SubjectID))
		g.reply(client, &ws.Event{Type: domain.EventUnsubscribed, SubjectID: frame.SubjectID})
	case domain.OpSendMessage:
		g.sendMessage(ctx, client, caller, frame)
	case domain.OpUpdatePresence:
		g.updatePresence(ctx, client, caller, frame.SubjectID)
	}
}

func (g *ChatGateway) subscribe(ctx context.Context, client *ws.Client, caller domain.Identity, subjectID uint) {
	if err := g.chat.Authorize(ctx, caller, subjectID); err != nil {
		g.replyError(ctx, client, subjectID, err)
		return
	}
	g.hub.Subscribe(client, domain.SubjectTopic(subjectID))
	g.reply(client, &ws.Event{Type: domain.EventSubscribed, SubjectID: subjectID})
}

func (g *ChatGateway) sendMessage(ctx context.Context, client *ws.Client, caller domain.Identity, frame *ws.Frame) {
	msg, err := g.chat.BroadcastMessage(ctx, caller, frame.SubjectID, frame.Content)
	if err != nil {
		g.pushFailed(ctx, client, frame, err)
		return
	}
	g.publish(ctx, frame.SubjectID, &ws.Event{
		Type:      domain.EventMessageCreated,
		SubjectID: frame.SubjectID,
		Data:      msg,
	})
}

func (g *ChatGateway) updatePresence(ctx context.Context, client *ws.Client, caller domain.Identity, subjectID uint) {
	frame := &ws.Frame{Type: domain.OpUpdatePresence, SubjectID: subjectID}
	if err := g.chat.RecordHeartbeat(ctx, caller, subjectID); err != nil {
		g.pushFailed(ctx, client, frame, err)
		return
	}
	snap, err := g.chat.GetPresenceSnapshot(ctx, caller, subjectID)
	if err != nil {
		g.pushFailed(ctx, client, frame, err)
		return
	}
	g.publish(ctx, subjectID, &ws.Event{
		Type:      domain.EventPresenceChanged,
		SubjectID: subjectID,
		Data:      snap,
	})
}

// pushFailed drops access-denied pushes without a reply and ends any
// subscription to that subject; other failures go back to the originating
// connection only.
func (g *ChatGateway) pushFailed(ctx context.Context, client *ws.Client, frame *ws.Frame, err error) {
	if errors.Is(err, domain.ErrAccessDenied) {
		g.hub.Unsubscribe(client, domain.SubjectTopic(frame.SubjectID))
		log := logger.Ctx(ctx)
		log.Debug().Err(err).Str("op", frame.Type).Uint(logger.FieldSubjectID, frame.SubjectID).Msg("push dropped")
		return
	}
	g.replyError(ctx, client, frame.SubjectID, err)
}

func (g *ChatGateway) replyError(ctx context.Context, client *ws.Client, subjectID uint, err error) {
	code := domain.Code(err)
	msg := err.Error()
	switch code {
	case domain.CodeInternal:
		log := logger.Ctx(ctx)
		log.Error().Err(err).Uint(logger.FieldSubjectID, subjectID).Msg("push failed")
		msg = "internal server error"
	case domain.CodeAccessDenied:
		msg = domain.ErrAccessDenied.Error()
	case domain.CodeInvalidContent:
		msg = domain.ErrInvalidContent.Error()
	}
	g.reply(client, ws.ErrorEvent(subjectID, code, msg))
}

func (g *ChatGateway) publish(ctx context.Context, subjectID uint, ev *ws.Event) {
	if err := g.events.Publish(ctx, domain.SubjectTopic(subjectID), ev); err != nil {
		log := logger.Ctx(ctx)
		log.Warn().Err(err).Uint(logger.FieldSubjectID, subjectID).Msg("publish failed")
	}
}

func (g *ChatGateway) reply(client *ws.Client, ev *ws.Event) {
	data, err := ws.Encode(ev)
	if err != nil {
		log := logger.L()
		log.Error().Err(err).Str("type", ev.Type).Msg("encode reply")
		return
	}
	client.Enqueue(data)
}
