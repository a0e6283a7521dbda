package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanqian/farmsight/internal/domain/auth"
	"github.com/yanqian/farmsight/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler, authSvc auth.Service, gatherer prometheus.Gatherer) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	logger := handler.logger
	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(logger),
		rateLimitMiddleware(cfg.HTTP.RateLimit, logger),
	)

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := router.Group("/api/v1")
	{
		api.POST("/auth/signup", handler.Signup)
		api.POST("/auth/login", handler.Login)
		api.POST("/auth/refresh", handler.Refresh)
		api.GET("/catalog", handler.Catalog)
	}

	secured := api.Group("")
	secured.Use(authMiddleware(authSvc))
	{
		secured.GET("/auth/me", handler.Me)
		secured.GET("/farms", handler.ListFarms)
		secured.POST("/farms", handler.CreateFarm)
		secured.GET("/farms/:id", handler.GetFarm)
		secured.DELETE("/farms/:id", handler.DeleteFarm)
		secured.GET("/farms/:id/insights", handler.Insights)
		secured.GET("/farms/:id/heatmap/:index", handler.Heatmap)
		secured.GET("/farms/:id/charts/:metric", handler.Chart)
		secured.GET("/farms/:id/dashboard", handler.Dashboard)
		secured.POST("/farms/:id/exports", handler.Export)
		secured.GET("/farms/:id/exports/:exportId/:name", handler.DownloadExport)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        withRetry(router, cfg.HTTP.Retry, logger),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("http request", "method", c.Request.Method, "path", c.Request.URL.Path, "status", c.Writer.Status(), "latency_ms", latency.Milliseconds())
	}
}
