package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"ai-code-reviewer/internal/ai"
	appsvc "ai-code-reviewer/internal/app"
	"ai-code-reviewer/internal/bootstrap"
	rabbitmqClient "ai-code-reviewer/internal/platform/rabbitmq"
	"ai-code-reviewer/internal/repository"
	"ai-code-reviewer/internal/session"
	"ai-code-reviewer/internal/transport/http/handler"
	"ai-code-reviewer/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(app.Config.App.AllowedOrigins))

	healthHandler := handler.NewHealthHandler(app)
	router.StaticFile("/", "web/index.html")
	router.GET("/health", healthHandler.Check)
	router.GET("/health/detailed", healthHandler.Detailed)

	var kv session.KV = session.NewStubKV()
	if app.Redis != nil {
		kv = session.NewRedisKV(app.Redis)
	}
	sessionStore := session.NewStore(kv, time.Duration(app.Config.Redis.SessionTTLSeconds)*time.Second)

	completer := ai.NewOpenAICompatibleClient().Bind(ai.ChatConfig{
		BaseURL: app.Config.LLM.BaseURL,
		APIKey:  app.Config.LLM.APIKey,
		Model:   app.Config.LLM.Model,
	})

	var publisher appsvc.RecordPublisher
	if app.MQConn != nil {
		publisher = rabbitmqClient.NewRecordPublisher(app.MQConn, app.Config.RabbitMQ.ReviewArchiveQueue)
	}

	reviewService := appsvc.NewReviewService(sessionStore, completer, publisher, ai.CompleteOptions{
		MaxTokens:   app.Config.LLM.MaxTokens,
		Temperature: app.Config.LLM.Temperature,
		TopP:        app.Config.LLM.TopP,
	})
	chatHandler := handler.NewChatHandler(reviewService, app.Config.Review.MaxCodeLength)

	api := router.Group("/api")
	api.Use(middleware.RateLimit(app.Limiter))

	authCfg := middleware.AuthConfig{
		AccessToken:     app.Config.Auth.AccessToken,
		AccessTokenHash: app.Config.Auth.AccessTokenHash,
		JWTSecret:       app.Config.Auth.JWTSecret,
	}
	if authCfg.JWTSecret != "" {
		authHandler := handler.NewAuthHandler(
			app.Config.Auth.AccessToken,
			app.Config.Auth.AccessTokenHash,
			app.Config.Auth.JWTSecret,
			time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		)
		api.POST("/auth/token", authHandler.IssueToken)
	}

	chatGroup := api.Group("/chat")
	if authCfg.Enabled() {
		chatGroup.Use(middleware.RequireToken(authCfg))
	}
	chatGroup.POST("/session", chatHandler.CreateSession)
	chatGroup.POST("/review", chatHandler.Review)
	chatGroup.GET("/session/:id", chatHandler.GetSession)
	chatGroup.DELETE("/session/:id", chatHandler.DeleteSession)

	if app.MySQL != nil {
		archiveHandler := handler.NewArchiveHandler(repository.NewReviewRecordRepository(app.MySQL))
		chatGroup.GET("/review/history/:id", archiveHandler.History)
	}

	return router
}
