package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/middleware"
	"okr-tracker-api/internal/okr"
	"okr-tracker-api/internal/realtime"
	"okr-tracker-api/internal/service"
	"okr-tracker-api/internal/store"

	"github.com/gin-gonic/gin"
)

// Handler serves the HTTP API on top of the service.
type Handler struct {
	svc    *service.Service
	hub    *realtime.Hub
	logger *slog.Logger
}

func New(svc *service.Service, hub *realtime.Hub, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if hub == nil {
		hub = realtime.NewHub(logger)
	}
	return &Handler{svc: svc, hub: hub, logger: logger}
}

// StatusUpdateRequest is the body of both status endpoints.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// actor reads the caller set by the JWT middleware.
func actor(c *gin.Context) (service.Actor, bool) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return service.Actor{}, false
	}
	return service.ActorFromClaims(claims), true
}

// respondError maps service errors to status codes. Unexpected errors are
// logged and reported with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var verr *okr.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to do this"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	default:
		_ = c.Error(err)
		h.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// queryInt parses an optional integer query parameter; missing means 0.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name, "field": name})
		return 0, false
	}
	return n, true
}
