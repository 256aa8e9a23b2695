package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    apperr.Validation([]string{"Invalid latitude", "Invalid longitude"}),
			status: http.StatusBadRequest,
			body:   `{"error":"Invalid latitude","details":["Invalid latitude","Invalid longitude"]}`,
		},
		{
			name:   "not found",
			err:    fmt.Errorf("loading booking: %w", apperr.ErrNotFound),
			status: http.StatusNotFound,
			body:   `{"error":"Not found"}`,
		},
		{
			name:   "forbidden",
			err:    apperr.ErrForbidden,
			status: http.StatusForbidden,
			body:   `{"error":"Forbidden"}`,
		},
		{
			name:   "unauthorized",
			err:    apperr.ErrUnauthorized,
			status: http.StatusUnauthorized,
			body:   `{"error":"Unauthorized"}`,
		},
		{
			name:   "internal",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			body:   `{"error":"Failed to fetch properties"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/api/properties", nil)

			respondError(c, zap.NewNop(), tt.err, "Failed to fetch properties")

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestRespondErrorLogsUnexpectedErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	logger := zap.New(core)

	for _, err := range []error{errors.New("boom"), apperr.ErrNotFound} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
		respondError(c, logger, err, "Failed to create booking")
	}

	assert.Equal(t, 1, logs.FilterMessage("Failed to create booking").Len())
}
