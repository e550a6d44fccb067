package app

import (
	"scorm_rte/internal/config"
	"scorm_rte/internal/middleware"
	"scorm_rte/pkg/monitoring"
	"scorm_rte/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需令牌)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/rte/sessions", c.rte.CreateSession)
	}

	// 2. 会话路由，令牌必须属于路径中的会话
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	sessions := router.Group("/api/rte/sessions/:id")
	sessions.Use(middleware.SessionAuthMiddleware(cfg), security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	{
		sessions.POST("/call", c.rte.Call)
		sessions.POST("/lifecycle/:event", c.rte.Lifecycle)
		sessions.DELETE("", c.rte.CloseSession)
		sessions.GET("/sync-logs", c.rte.ListSyncLogs)
	}
}
