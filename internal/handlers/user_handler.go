package handlers

import (
	"net/http"

	"okr-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

// ListEmployees handles GET /api/employees
func (h *Handler) ListEmployees(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	employees, err := h.svc.Employees(c.Request.Context(), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"employees": employees, "count": len(employees)})
}

// CreateEmployee handles POST /api/employees
func (h *Handler) CreateEmployee(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.EmployeeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	e, err := h.svc.CreateEmployee(c.Request.Context(), a, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// ListAreas handles GET /api/areas
func (h *Handler) ListAreas(c *gin.Context) {
	areas, err := h.svc.Areas(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"areas": areas, "count": len(areas)})
}

// CreateArea handles POST /api/areas
func (h *Handler) CreateArea(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req service.AreaInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	area, err := h.svc.CreateArea(c.Request.Context(), a, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, area)
}
