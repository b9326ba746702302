package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
func (h *Handler) UpdateTaskStatus(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if err := h.svc.UpdateTaskStatus(c.Request.Context(), a, c.Param("id"), req.Status); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task updated"})
}

// DeleteTask handles DELETE /api/tasks/:id. Unknown ids succeed.
func (h *Handler) DeleteTask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteTask(c.Request.Context(), a, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted"})
}
