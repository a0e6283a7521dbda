package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yanqian/farmsight/internal/domain/farm"
)

// ListFarms returns the caller's farms in creation order.
func (h *Handler) ListFarms(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	farms, err := h.farmSvc.List(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	if farms == nil {
		farms = []farm.Farm{}
	}
	c.JSON(http.StatusOK, gin.H{"items": farms})
}

// CreateFarm registers a new farm for the caller.
func (h *Handler) CreateFarm(c *gin.Context) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return
	}
	var req farm.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	created, err := h.farmSvc.Create(c.Request.Context(), ownerID, req)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetFarm returns one farm.
func (h *Handler) GetFarm(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	found, err := h.farmSvc.Get(c.Request.Context(), ownerID, farmID)
	if err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.JSON(http.StatusOK, found)
}

// DeleteFarm removes one farm.
func (h *Handler) DeleteFarm(c *gin.Context) {
	ownerID, farmID, ok := h.farmScope(c)
	if !ok {
		return
	}
	if err := h.farmSvc.Delete(c.Request.Context(), ownerID, farmID); err != nil {
		abortWithError(c, fromDomainError(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// farmScope resolves the caller and the :id path parameter.
func (h *Handler) farmScope(c *gin.Context) (int64, string, bool) {
	ownerID, ok := h.ownerID(c)
	if !ok {
		return 0, "", false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid farm id", err))
		return 0, "", false
	}
	return ownerID, id.String(), true
}
