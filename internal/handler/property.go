package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/aman-churiwal/property-marketplace/internal/service"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxListLimit = 100

type PropertyHandler struct {
	service *service.PropertyService
	logger  *zap.Logger
}

func NewPropertyHandler(service *service.PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{service: service, logger: logger}
}

func (h *PropertyHandler) List(c *gin.Context) {
	filter := repository.PropertyFilter{
		City:     c.Query("city"),
		Featured: c.Query("featured") == "true",
	}

	if raw := c.Query("propertyType"); raw != "" {
		t := models.PropertyType(strings.ToUpper(raw))
		if !t.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property type"})
			return
		}
		filter.PropertyType = t
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = min(limit, maxListLimit)
	}

	properties, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch properties")
		return
	}

	c.JSON(http.StatusOK, properties)
}

func (h *PropertyHandler) Get(c *gin.Context) {
	property, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch property")
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Create(c *gin.Context) {
	var req validation.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	property, err := h.service.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create property")
		return
	}

	c.JSON(http.StatusCreated, property)
}

func (h *PropertyHandler) Update(c *gin.Context) {
	var req validation.PropertyInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	property, err := h.service.Update(c.Request.Context(), principal.ID, c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to update property")
		return
	}

	c.JSON(http.StatusOK, property)
}

func (h *PropertyHandler) Delete(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if err := h.service.Delete(c.Request.Context(), principal.ID, c.Param("id")); err != nil {
		respondError(c, h.logger, err, "Failed to delete property")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
