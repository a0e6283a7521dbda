package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/farmsight/internal/domain/auth"
	"github.com/yanqian/farmsight/internal/domain/catalog"
	"github.com/yanqian/farmsight/internal/domain/farm"
	"github.com/yanqian/farmsight/internal/domain/insight"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	authSvc    auth.Service
	farmSvc    farm.Service
	insightSvc insight.Service
	logger     *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(authSvc auth.Service, farmSvc farm.Service, insightSvc insight.Service, logger *slog.Logger) *Handler {
	return &Handler{
		authSvc:    authSvc,
		farmSvc:    farmSvc,
		insightSvc: insightSvc,
		logger:     logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Catalog lists every metric the dashboard can show.
func (h *Handler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"spectral": catalog.Spectral.Metrics(),
		"sensor":   catalog.Sensors.Metrics(),
	})
}

func (h *Handler) ownerID(c *gin.Context) (int64, bool) {
	claims, ok := getClaims(c)
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusUnauthorized, "unauthorized", "missing token", nil))
		return 0, false
	}
	return claims.UserID, true
}
