// Package server exposes discovery over HTTP.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jparise/gh-discover/internal/discovery"
)

// Discoverer answers discovery requests.
type Discoverer interface {
	Discover(ctx context.Context, intent discovery.Intent) discovery.Page
}

// Options configures the router.
type Options struct {
	AllowedOrigins []string
	// RequestTimeout bounds the whole pipeline for one request.
	RequestTimeout time.Duration
	Logger         *slog.Logger
	Version        string
}

// NewRouter builds the gin engine serving the discovery API.
func NewRouter(d Discoverer, opts Options) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	router := gin.New()
	router.Use(requestLogger(logger))
	router.Use(recovery())
	router.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	health := &HealthHandler{version: opts.Version, started: time.Now()}
	search := &SearchHandler{discoverer: d, timeout: opts.RequestTimeout}

	router.GET("/health", health.Health)
	router.GET("/search", search.Search)

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}
