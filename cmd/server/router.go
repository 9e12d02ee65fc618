package main

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/kidwise/api/internal/config"
	"github.com/kidwise/api/internal/content"
	"github.com/kidwise/api/internal/eventbus"
	"github.com/kidwise/api/internal/handlers"
	"github.com/kidwise/api/internal/middleware"
	"github.com/kidwise/api/internal/repository"
	"github.com/kidwise/api/internal/usage"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// deps are the collaborators the HTTP layer is wired against.
type deps struct {
	Users     repository.UserRepository
	Children  repository.ChildRepository
	Questions repository.QuestionRepository
	Plans     repository.PlanRepository

	Generator content.Generator
	Usage     *usage.Service
	Events    *eventbus.Publisher
	Breaker   *middleware.CircuitBreaker

	// Nil when Redis is unavailable.
	Revocations middleware.TokenRevocations
	Revoker     handlers.TokenRevoker

	DBPing    handlers.HealthCheck
	RedisPing handlers.HealthCheck
}

func newRouter(cfg *config.Config, d deps, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("kidwise-api"))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(cfg.ClientOrigins))

	p := ginprometheus.NewPrometheus("kidwise")
	p.Use(router)

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	health := handlers.NewHealthHandler(version)
	health.Register("database", d.DBPing)
	health.Register("redis", d.RedisPing)
	health.Register("nats", func(context.Context) error {
		if !d.Events.Connected() {
			return errors.New("not connected")
		}
		return nil
	})
	health.Register("ai_circuit", func(context.Context) error {
		if state := d.Breaker.State(); state == middleware.CircuitOpen {
			return errors.New("circuit " + state.String())
		}
		return nil
	})
	router.GET("/health", health.Health)
	router.GET("/health/deep", health.DeepHealth)

	authHandler := handlers.NewAuthHandler(d.Users, d.Revoker, handlers.AuthSettings{
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
		SecureCookie: cfg.IsProduction(),
	}, logger)
	childHandler := handlers.NewChildHandler(d.Children, logger)
	questionHandler := handlers.NewQuestionHandler(d.Generator, d.Questions, d.Children, d.Usage, d.Events, logger)
	planHandler := handlers.NewPlanHandler(d.Generator, d.Plans, d.Usage, d.Events, logger)
	usageHandler := handlers.NewUsageHandler(d.Usage, logger)

	requireAuth := middleware.Auth(cfg.JWTSecret, d.Revocations, logger)
	aiGuard := middleware.CircuitBreakerMiddleware(d.Breaker)
	rateLimit := middleware.RateLimitMiddleware(middleware.NewWindowLimiter(cfg.RateLimitMax, cfg.RateLimitWindow))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		auth.Use(rateLimit)
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", requireAuth, authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		protected := api.Group("")
		protected.Use(requireAuth, rateLimit)

		children := protected.Group("/children")
		{
			children.GET("", childHandler.List)
			children.POST("", childHandler.Create)
			children.PUT("/:id", childHandler.Update)
			children.DELETE("/:id", childHandler.Delete)
		}

		question := protected.Group("/question")
		{
			question.POST("/ask", aiGuard, questionHandler.Ask)
			question.GET("/history", questionHandler.History)
			question.GET("/:id", questionHandler.Get)
			question.POST("/:id/follow-up", aiGuard, questionHandler.FollowUp)
			question.POST("/:id/feedback", questionHandler.Feedback)
		}

		plans := protected.Group("/plans")
		{
			plans.POST("/generate", aiGuard, planHandler.Generate)
			plans.GET("/templates", planHandler.ListTemplates)
			plans.GET("/templates/:id", planHandler.GetTemplate)
			plans.DELETE("/templates/:id", planHandler.DeleteTemplate)
		}

		protected.GET("/usage", usageHandler.Summary)
	}

	return router
}
