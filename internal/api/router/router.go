package router

import (
	"plot-query-service/internal/api/handler"
	"plot-query-service/internal/api/middleware"
	"plot-query-service/internal/common/config"
	"plot-query-service/internal/common/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// New builds the engine. Health endpoints and /metrics are exempt from rate limiting.
// Forwarded client addresses are only honored from cfg.TrustedProxies.
func New(h *handler.PlotHandler, cfg config.HTTPConfig, log logger.Logger) *gin.Engine {
	r := gin.New()
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.Warn("invalid http.trusted_proxies, trusting none", map[string]interface{}{"error": err})
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(log))

	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMinute, cfg.RateLimitBurst))
	{
		api.GET("/plots", h.List)
	}

	return r
}
