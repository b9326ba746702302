package handlers

import (
	"net/http"

	"okr-tracker-api/internal/ident"
	"okr-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListObjectives handles GET /api/objectives?employeeId&year&type
func (h *Handler) ListObjectives(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	views, err := h.svc.Objectives(c.Request.Context(), a, service.ObjectiveFilter{
		EmployeeID: ident.ID(ident.Normalize(c.Query("employeeId"))),
		Year:       year,
		Type:       c.Query("type"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objectives": views, "count": len(views)})
}

// CorporateObjectives handles GET /api/objectives/corporate
func (h *Handler) CorporateObjectives(c *gin.Context) {
	views, err := h.svc.CorporateObjectives(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"objectives": views, "count": len(views)})
}

// CreateObjective handles POST /api/objectives
func (h *Handler) CreateObjective(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.ObjectiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	o, err := h.svc.CreateObjective(c.Request.Context(), a, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// UpdateObjectiveStatus handles PATCH /api/objectives/:id/status
func (h *Handler) UpdateObjectiveStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.svc.UpdateObjectiveStatus(c.Request.Context(), a, c.Param("id"), req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Objective updated"})
}

// DeleteObjective handles DELETE /api/objectives/:id. Unknown ids succeed.
func (h *Handler) DeleteObjective(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteObjective(c.Request.Context(), a, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Objective deleted"})
}

// ListTasks handles GET /api/objectives/:id/tasks
func (h *Handler) ListTasks(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	tasks, err := h.svc.Tasks(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "count": len(tasks)})
}

// CreateTask handles POST /api/objectives/:id/tasks
func (h *Handler) CreateTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	t, err := h.svc.CreateTask(c.Request.Context(), a, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}
