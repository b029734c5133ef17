// Package api wires the gin engine: middleware chain, routes and handlers.
package api

import (
	"time"

	"jobtrack/internal/api/middleware"
	v1 "jobtrack/internal/api/v1"
	"jobtrack/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health       *v1.HealthHandler
	Users        *v1.UserHandler
	Companies    *v1.CompanyHandler
	Applications *v1.ApplicationHandler
	Dashboard    *v1.DashboardHandler
}

type RateLimit struct {
	Enabled  bool
	Client   redis.Scripter
	Requests int
	Window   time.Duration
}

type Deps struct {
	Handlers  Handlers
	Tokens    middleware.TokenParser
	Revoked   middleware.RevocationChecker
	RateLimit RateLimit
	Logger    logger.Logger
}

func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(deps.Logger),
		middleware.AccessLog(deps.Logger),
		middleware.Metrics(),
		middleware.ErrorHandler(deps.Logger),
	)

	router.GET("/health", deps.Handlers.Health.Health)
	router.GET("/ready", deps.Handlers.Health.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limit := func(c *gin.Context) { c.Next() }
	if deps.RateLimit.Enabled {
		limit = middleware.NewRateLimiter(deps.RateLimit.Client, deps.RateLimit.Requests, deps.RateLimit.Window, deps.Logger).Handler()
	}
	authenticate := middleware.Authenticate(deps.Tokens, deps.Revoked, deps.Logger)

	api := router.Group("/api")

	// public routes are limited per client IP
	public := api.Group("/users", limit)
	{
		public.POST("/register", deps.Handlers.Users.Register)
		public.POST("/login", deps.Handlers.Users.Login)
	}

	// everything else is limited per user
	protected := api.Group("", authenticate, limit)
	registerProtectedRoutes(protected, deps.Handlers)

	return router
}

func registerProtectedRoutes(r *gin.RouterGroup, h Handlers) {
	users := r.Group("/users")
	{
		users.POST("/logout", h.Users.Logout)
		users.GET("/me", h.Users.Me)
		users.DELETE("/me", h.Users.DeleteAccount)
	}

	companies := r.Group("/companies")
	{
		companies.POST("", h.Companies.Create)
		companies.GET("", h.Companies.List)
		companies.DELETE("/:id", h.Companies.Delete)
	}

	applications := r.Group("/applications")
	{
		applications.POST("", h.Applications.Create)
		applications.GET("", h.Applications.List)
		applications.GET("/export", h.Applications.Export)
		applications.GET("/:id", h.Applications.Get)
		applications.PUT("/:id", h.Applications.Update)
		applications.PATCH("/:id", h.Applications.Update)
		applications.DELETE("/:id", h.Applications.Delete)
		applications.GET("/:id/history", h.Applications.History)
	}

	r.GET("/dashboard", h.Dashboard.Get)
}
