package http

import (
	"time"

	"smarttasker/internal/config"
	"smarttasker/internal/http/handlers"
	"smarttasker/internal/http/middleware"
	"smarttasker/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, cfg *config.Config, version string) {
	hub := ws.NewHub()
	h := handlers.NewHandler(db, hub)
	healthHandler := handlers.NewHealthHandler(db, version)

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	registerAPIRoutes(v1, h, cfg.WriteRateLimit, cfg.WriteRateWindow)

	// Legacy /api routes (the original client hits these)
	api := r.Group("/api")
	api.Use(middleware.RedisRateLimit(cfg.APIRateLimit, cfg.APIRateWindow))
	api.GET("/health", healthHandler.Health)
	registerAPIRoutes(api, h, cfg.WriteRateLimit, cfg.WriteRateWindow)

	// WebSocket live task sync
	r.GET("/ws", h.WS(hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, writeRateLimit int, writeRateWindow time.Duration) {
	// Auth
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	// User profile
	api.GET("/me", middleware.JWT(), h.Me)

	// Per-user limiter on task mutations (not per IP)
	writeRL := middleware.WriteRateLimit(writeRateLimit, writeRateWindow)

	// Tasks
	api.GET("/tasks", middleware.JWT(), h.ListTasks)
	api.POST("/tasks", middleware.JWT(), writeRL, h.CreateTask)
	api.PUT("/tasks/reorder", middleware.JWT(), writeRL, h.ReorderTasks)
	api.PUT("/tasks/:id", middleware.JWT(), writeRL, h.UpdateTask)
	api.DELETE("/tasks/:id", middleware.JWT(), writeRL, h.DeleteTask)

	// AI breakdown (offline keyword templates); с taskId пишет в aiSuggestions
	api.POST("/ai/breakdown", middleware.JWT(), writeRL, h.AIBreakdown)
}
