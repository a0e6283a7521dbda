package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Insights runs the farm analysis and returns every series.
func (h *Handler) Insights(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	report, err := h.insightSvc.Analyze(c.Request.Context(), ownerID, farmID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// Heatmap returns the GeoJSON intensity grid for one spectral index.
func (h *Handler) Heatmap(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	heatmap, err := h.insightSvc.Heatmap(c.Request.Context(), ownerID, farmID, c.Param("index"))
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, heatmap)
}

// Chart renders one metric as a PNG.
func (h *Handler) Chart(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.insightSvc.RenderChart(c.Request.Context(), ownerID, farmID, c.Param("metric"), &buf); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Dashboard renders every chart on one HTML page.
func (h *Handler) Dashboard(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.insightSvc.RenderDashboard(c.Request.Context(), ownerID, farmID, &buf); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Export uploads the rendered charts and dashboard to object storage.
func (h *Handler) Export(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	result, err := h.insightSvc.Export(c.Request.Context(), ownerID, farmID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, result)
}

// DownloadExport streams one stored export artifact back to its owner.
func (h *Handler) DownloadExport(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	name := c.Param("name")
	obj, body, err := h.insightSvc.OpenExport(c.Request.Context(), ownerID, farmID, c.Param("exportId"), name)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	defer body.Close()
	headers := map[string]string{"Content-Disposition": fmt.Sprintf("inline; filename=%q", name)}
	if obj.ETag != "" {
		headers["ETag"] = fmt.Sprintf("%q", obj.ETag)
	}
	c.DataFromReader(http.StatusOK, obj.Size, obj.MimeType, body, headers)
}
