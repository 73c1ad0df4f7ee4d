package router

import (
	"edlink/config"
	"edlink/internal/auth"
	"edlink/internal/broker"
	"edlink/internal/handler"
	"edlink/internal/logger"
	"edlink/internal/middleware"
	"edlink/internal/repository"
	"edlink/internal/service"
	"edlink/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the process-wide collaborators built by main.
type Deps struct {
	DB      *gorm.DB
	Hub     *ws.Hub
	Events  broker.Publisher
	Limiter *middleware.InMemoryRateLimiter
	Log     zerolog.Logger
	// Options applied to the chat service, e.g. a test clock.
	ChatOptions []service.Option
}

func Setup(cfg *config.Config, d Deps) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.GinMiddleware(d.Log))
	if d.Limiter != nil {
		r.Use(middleware.RateLimit(d.Limiter))
	}

	// Repositories
	userRepo := repository.NewUserRepository(d.DB)
	subjectRepo := repository.NewSubjectRepository(d.DB)
	enrollmentRepo := repository.NewEnrollmentRepository(d.DB)
	messageRepo := repository.NewMessageRepository(d.DB)
	presenceRepo := repository.NewPresenceRepository(d.DB)

	// Services
	resolver := auth.NewResolver(&cfg.JWT)
	chatSvc := service.NewChatService(userRepo, subjectRepo, enrollmentRepo, messageRepo, presenceRepo, d.ChatOptions...)

	// Handlers
	chatHandler := handler.NewChatHandler(chatSvc, d.Events)
	presenceHandler := handler.NewPresenceHandler(chatSvc)
	healthHandler := handler.NewHealthHandler(d.DB)
	gateway := handler.NewChatGateway(chatSvc, resolver, d.Hub, d.Events, cfg.WebSocket)

	r.GET("/healthz", healthHandler.Health)
	r.GET("/ws/chat", gateway.Upgrade)

	chat := r.Group("/api/chat")
	chat.Use(middleware.AuthRequired(resolver))
	{
		chat.GET("/subjects/:subject_id/messages", chatHandler.GetMessages)
		chat.POST("/subjects/:subject_id/messages", chatHandler.SendMessage)
		chat.GET("/subjects/:subject_id/participants", chatHandler.GetParticipants)
		chat.POST("/subjects/:subject_id/presence/ping", presenceHandler.Ping)
	}
	return r
}
