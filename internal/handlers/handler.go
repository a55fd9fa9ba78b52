package handlers

import (
	"net/http"

	"heating_monitor/internal/logger"
	"heating_monitor/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  http.Handler
	upgrader websocket.Upgrader
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log, upgrader: newUpgrader(nil)}
}

// WithAllowedOrigins restricts which browser origins may open /ws.
func (h *Handler) WithAllowedOrigins(origins []string) *Handler {
	h.upgrader = newUpgrader(origins)
	return h
}

// WithMetrics exposes m on GET /metrics.
func (h *Handler) WithMetrics(m http.Handler) *Handler {
	h.metrics = m
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)
	if h.metrics != nil {
		router.GET("/metrics", gin.WrapH(h.metrics))
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// Live snapshot feed, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

// Reads are public; anything that changes state or hits the controller needs a token.
func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/config", h.getConfig)
		api.GET("/snapshot", h.getSnapshot)
		api.GET("/history", h.getHistory)
		api.GET("/logs", h.getLogs)
	}

	protected := api.Group("", h.userIdMiddleware)
	{
		// Body example: {"base_url":"http://192.168.1.20:8080","poll_interval_seconds":60,"use_mock":false,"variables":{...}}
		protected.PUT("/config", h.putConfig)
		protected.DELETE("/logs", h.clearLogs)
		protected.POST("/refresh", h.refresh)
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
