package routes

import (
	"log/slog"
	"net/http"

	"okr-tracker-api/internal/auth"
	"okr-tracker-api/internal/handlers"
	"okr-tracker-api/internal/metrics"
	"okr-tracker-api/internal/middleware"
	"okr-tracker-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the collaborators the router needs.
type Deps struct {
	Handler            *handlers.Handler
	Sessions           *auth.Sessions
	Logger             *slog.Logger
	CORSAllowedOrigins []string
	// Ready lists the dependencies checked by /ready.
	Ready map[string]handlers.Pinger
}

func SetupRoutes(deps Deps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), metrics.GinMiddleware())
	ginRouter.Use(cors(deps.CORSAllowedOrigins))

	ginRouter.GET("/health", handlers.Health)
	ginRouter.GET("/ready", handlers.Ready(deps.Logger, deps.Ready))
	ginRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := deps.Handler

	// Public routes (no authentication required)
	api := ginRouter.Group("/api")
	api.POST("/login", h.Login)

	// Protected routes (authentication required)
	protected := api.Group("")
	protected.Use(middleware.JWTAuth(deps.Sessions))
	{
		protected.POST("/logout", h.Logout)
		protected.GET("/me", h.Me)

		protected.GET("/objectives", h.ListObjectives)
		protected.GET("/objectives/corporate", h.CorporateObjectives)
		protected.POST("/objectives", h.CreateObjective)
		protected.PATCH("/objectives/:id/status", h.UpdateObjectiveStatus)
		protected.DELETE("/objectives/:id", h.DeleteObjective)
		protected.GET("/objectives/:id/tasks", h.ListTasks)
		protected.POST("/objectives/:id/tasks", h.CreateTask)

		protected.PATCH("/tasks/:id/status", h.UpdateTaskStatus)
		protected.DELETE("/tasks/:id", h.DeleteTask)

		protected.GET("/progress", h.Progress)
		protected.GET("/years", h.Years)

		protected.POST("/assistant", h.Ask)
		protected.GET("/assistant/messages", h.AssistantMessages)
	}

	// Manager routes
	managers := protected.Group("")
	managers.Use(middleware.RequireRole(models.RoleManager))
	{
		managers.GET("/team", h.Team)
		managers.GET("/team/:id", h.TeamMember)
		managers.GET("/employees", h.ListEmployees)
		managers.POST("/employees", h.CreateEmployee)
		managers.GET("/areas", h.ListAreas)
		managers.POST("/areas", h.CreateArea)
		managers.POST("/import", h.Import)
	}

	ginRouter.GET("/ws", middleware.JWTAuth(deps.Sessions), h.WebSocket)

	return ginRouter
}

func cors(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if originAllowed(allowed, origin) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Vary", "Origin")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" {
		return false
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
