package handler

import (
	"net/http"

	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/aman-churiwal/property-marketplace/internal/service"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	service *service.BookingService
	logger  *zap.Logger
}

func NewBookingHandler(service *service.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

func (h *BookingHandler) List(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	bookings, err := h.service.List(c.Request.Context(), principal.ID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req validation.BookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	principal := middleware.CurrentPrincipal(c)
	booking, err := h.service.Create(c.Request.Context(), principal.ID, &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to create booking")
		return
	}

	c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	booking, err := h.service.Cancel(c.Request.Context(), principal.ID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "Failed to cancel booking")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": gin.H{"id": booking.ID, "status": booking.Status},
	})
}
