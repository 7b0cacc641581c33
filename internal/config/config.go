// Package config loads runtime configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/jparise/gh-discover/internal/timeparse"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	GitHub    GitHubConfig
	Discovery DiscoveryConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// GitHubConfig holds upstream API configuration
type GitHubConfig struct {
	Token      string
	APIURL     string
	Timeout    time.Duration
	MaxRetries int
}

// DiscoveryConfig holds the quality thresholds and limits of the pipeline
type DiscoveryConfig struct {
	MinStars     int
	PushedWithin time.Duration
	PushedSince  time.Time
	MaxResolved  int
	Jobs         int
	Exclude      []string
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  slog.Level
	Format string
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	return FromEnv()
}

// FromEnv builds a Config from the process environment alone.
func FromEnv() (*Config, error) {
	var p parser

	config := &Config{
		Server: ServerConfig{
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			Port:           getEnv("SERVER_PORT", "8080"),
			ReadTimeout:    p.seconds("SERVER_READ_TIMEOUT", 30),
			WriteTimeout:   p.seconds("SERVER_WRITE_TIMEOUT", 60),
			IdleTimeout:    p.seconds("SERVER_IDLE_TIMEOUT", 120),
			RequestTimeout: p.seconds("REQUEST_TIMEOUT", 45),
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", ",", []string{"*"}),
		},
		GitHub: GitHubConfig{
			Token:      getEnv("GITHUB_TOKEN", ""),
			APIURL:     getEnv("GITHUB_API_URL", ""),
			Timeout:    p.seconds("GITHUB_TIMEOUT", 15),
			MaxRetries: p.integer("GITHUB_MAX_RETRIES", 2),
		},
		Discovery: DiscoveryConfig{
			MinStars:     p.integer("DISCOVERY_MIN_STARS", 100),
			PushedWithin: p.window("DISCOVERY_PUSHED_WITHIN", 365*24*time.Hour),
			PushedSince:  p.date("DISCOVERY_PUSHED_SINCE"),
			MaxResolved:  p.integer("DISCOVERY_MAX_RESOLVED", 200),
			Jobs:         p.integer("DISCOVERY_JOBS", 10),
			Exclude:      getEnvAsSlice("DISCOVERY_EXCLUDE", ",", nil),
		},
		Log: LogConfig{
			Level:  p.level("LOG_LEVEL", slog.LevelInfo),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
	}

	if err := errors.Join(p.errs...); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be a port number, got %q", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	for _, origin := range c.Server.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			errs = append(errs, fmt.Errorf("CORS_ALLOWED_ORIGINS entries must be * or http(s) origins, got %q", origin))
		}
	}
	if c.GitHub.APIURL != "" {
		if u, err := url.Parse(c.GitHub.APIURL); err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("GITHUB_API_URL must be an absolute URL, got %q", c.GitHub.APIURL))
		}
	}
	if c.GitHub.Timeout <= 0 {
		errs = append(errs, errors.New("GITHUB_TIMEOUT must be positive"))
	}
	if c.GitHub.MaxRetries < 0 {
		errs = append(errs, errors.New("GITHUB_MAX_RETRIES must not be negative"))
	}
	if c.Discovery.MinStars < 0 {
		errs = append(errs, errors.New("DISCOVERY_MIN_STARS must not be negative"))
	}
	if c.Discovery.MaxResolved < 1 {
		errs = append(errs, errors.New("DISCOVERY_MAX_RESOLVED must be at least 1"))
	}
	if c.Discovery.Jobs < 1 {
		errs = append(errs, errors.New("DISCOVERY_JOBS must be at least 1"))
	}
	for _, pattern := range c.Discovery.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("DISCOVERY_EXCLUDE has an invalid pattern %q", pattern))
		}
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// NewLogger builds the structured logger described by the configuration.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.Log.Level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// parser collects conversion errors so every bad variable is reported at
// once rather than one per run.
type parser struct {
	errs []error
}

func (p *parser) integer(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be an integer, got %q", key, value))
		return fallback
	}
	return n
}

// seconds reads a duration given either in whole seconds or in Go syntax.
func (p *parser) seconds(key string, fallback int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback) * time.Second
	}
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be seconds or a duration, got %q", key, value))
		return time.Duration(fallback) * time.Second
	}
	return d
}

// window reads a recency window such as 365d, 26w or 1y. Go durations are
// accepted too.
func (p *parser) window(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	if d, err := timeparse.ParseWindow(value); err == nil {
		return d
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s must be a window like 365d or 26w, got %q", key, value))
		return fallback
	}
	return d
}

func (p *parser) date(key string) time.Time {
	value := os.Getenv(key)
	if value == "" {
		return time.Time{}
	}
	t, err := timeparse.ParseDate(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
	}
	return t
}

func (p *parser) level(key string, fallback slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s must be debug, info, warn or error, got %q", key, value))
		return fallback
	}
	return level
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value.
// Elements are trimmed and empty elements dropped.
func getEnvAsSlice(key, separator string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	var values []string
	for _, v := range strings.Split(value, separator) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
