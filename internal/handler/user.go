package handler

import (
	"net/http"

	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/aman-churiwal/property-marketplace/internal/service"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	service *service.UserService
	logger  *zap.Logger
}

func NewUserHandler(service *service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{service: service, logger: logger}
}

func (h *UserHandler) CreateProfile(c *gin.Context) {
	user, err := h.service.EnsureUser(c.Request.Context(), middleware.CurrentPrincipal(c))
	if err != nil {
		respondError(c, h.logger, err, "Failed to create profile")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// CompleteOnboarding accepts either a JSON body or a submitted form.
func (h *UserHandler) CompleteOnboarding(c *gin.Context) {
	var req validation.OnboardingInput
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.service.CompleteOnboarding(c.Request.Context(), middleware.CurrentPrincipal(c), &req)
	if err != nil {
		respondError(c, h.logger, err, "Failed to complete onboarding")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *UserHandler) HostStatus(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	isHost, err := h.service.HostStatus(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "Failed to fetch host status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isHost": isHost})
}
