package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jparise/gh-discover/internal/discovery"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Uptime    string    `json:"uptime"`
	Version   string    `json:"version,omitempty"`
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	version string
	started time.Time
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Version:   h.version,
	})
}

// SearchHandler handles discovery requests
type SearchHandler struct {
	discoverer Discoverer
	timeout    time.Duration
}

// Search handles GET /search
//
// Degraded results are still a 200: the page carries an error message and
// no items.
func (h *SearchHandler) Search(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "page must be an integer",
			Details: err.Error(),
		})
		return
	}
	perPage, err := intQuery(c, "per_page", discovery.DefaultPerPage)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "per_page must be an integer",
			Details: err.Error(),
		})
		return
	}

	intent, err := discovery.NewIntent(
		c.Query("filter"),
		c.Query("language"),
		max(page, 1),
		min(max(perPage, 1), discovery.MaxPerPage),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid search parameters",
			Details: err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	c.JSON(http.StatusOK, h.discoverer.Discover(ctx, intent))
}

// intQuery reads an integer query parameter, returning fallback when the
// parameter is absent or empty.
func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	value := c.Query(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, value)
	}
	return n, nil
}
