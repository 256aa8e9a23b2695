package handler

import (
	"errors"
	"net/http"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/aman-churiwal/property-marketplace/internal/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto status codes. Unknown errors are logged and
// reported as 500 without leaking details.
func respondError(c *gin.Context, logger *zap.Logger, err error, fallback string) {
	var verr *apperr.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   verr.Errors[0],
			"details": verr.Errors,
		})
	case errors.Is(err, apperr.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, apperr.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	default:
		logger.Error(fallback,
			zap.Error(err),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
