package handler

import (
	"net/http"

	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/aman-churiwal/property-marketplace/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type FavoriteHandler struct {
	service *service.FavoriteService
	logger  *zap.Logger
}

func NewFavoriteHandler(service *service.FavoriteService, logger *zap.Logger) *FavoriteHandler {
	return &FavoriteHandler{service: service, logger: logger}
}

func (h *FavoriteHandler) List(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	favorites, err := h.service.List(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch favorites")
		return
	}

	c.JSON(http.StatusOK, favorites)
}

func (h *FavoriteHandler) Add(c *gin.Context) {
	var req struct {
		PropertyID string `json:"propertyId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if err := h.service.Add(c.Request.Context(), principal.ID, req.PropertyID); err != nil {
		respondError(c, h.logger, err, "Failed to add favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *FavoriteHandler) Remove(c *gin.Context) {
	propertyID := c.Query("propertyId")
	if propertyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Property ID is required"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	if err := h.service.Remove(c.Request.Context(), principal.ID, propertyID); err != nil {
		respondError(c, h.logger, err, "Failed to remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
