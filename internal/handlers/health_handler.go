package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency checked by the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Health handles GET /health, a liveness check.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"message": "OKR tracker API is running",
	})
}

// Ready returns GET /ready, which answers 200 only when every named
// dependency responds.
func Ready(logger *slog.Logger, deps map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		checks := make(map[string]string, len(deps))
		for name, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", slog.String("dependency", name), slog.String("error", err.Error()))
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		label := "ready"
		if status != http.StatusOK {
			label = "not ready"
		}
		c.JSON(status, gin.H{"status": label, "checks": checks})
	}
}
