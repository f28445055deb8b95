// Package health provides health check endpoints
package health

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/pkg/database"
)

// ConsumerHealth reports whether the Kafka consumer is in a usable state.
type ConsumerHealth interface {
	Health() bool
}

// Checker performs health checks on service dependencies
type Checker struct {
	db        database.DB
	consumer  ConsumerHealth
	version   string
	startTime time.Time
	ready     atomic.Bool
}

// NewChecker creates a new health checker
func NewChecker(db database.DB, consumer ConsumerHealth, version string) *Checker {
	return &Checker{
		db:        db,
		consumer:  consumer,
		version:   version,
		startTime: time.Now(),
	}
}

// SetReady marks the service as ready to receive traffic
func (h *Checker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status  string                 `json:"status"`
	Version string                 `json:"version"`
	Uptime  string                 `json:"uptime"`
	Checks  map[string]CheckResult `json:"checks"`
}

// CheckResult represents the result of a single health check
type CheckResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// RegisterRoutes registers health check routes
func (h *Checker) RegisterRoutes(e *echo.Echo) {
	e.GET("/api/v1/health", h.Health)
	e.GET("/api/v1/health/live", h.Live)
	e.GET("/api/v1/health/ready", h.Ready)
}

// Health returns detailed health status of all dependencies
func (h *Checker) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	status := HealthStatus{
		Status:  "healthy",
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
		Checks:  make(map[string]CheckResult),
	}

	dbCheck := h.checkDatabase(ctx)
	status.Checks["database"] = dbCheck
	if dbCheck.Status != "healthy" {
		status.Status = "unhealthy"
	}

	consumerCheck := h.checkConsumer()
	status.Checks["kafka_consumer"] = consumerCheck
	if consumerCheck.Status != "healthy" {
		status.Status = "unhealthy"
	}

	code := http.StatusOK
	if status.Status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, status)
}

// Live returns liveness status (process is running)
func (h *Checker) Live(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}

// Ready returns readiness status (service can accept traffic)
func (h *Checker) Ready(c echo.Context) error {
	if !h.ready.Load() {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "not ready",
			"message": "database unavailable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Checker) checkDatabase(ctx context.Context) CheckResult {
	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return CheckResult{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: time.Since(start).String(),
		}
	}
	return CheckResult{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}

func (h *Checker) checkConsumer() CheckResult {
	if h.consumer == nil {
		return CheckResult{Status: "healthy", Message: "consumer disabled"}
	}
	if !h.consumer.Health() {
		return CheckResult{Status: "unhealthy", Message: "consumer not running"}
	}
	return CheckResult{Status: "healthy"}
}
