package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Progress handles GET /api/progress?year, the caller's own dashboard
func (h *Handler) Progress(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	dash, err := h.svc.Dashboard(c.Request.Context(), a, 0, year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dash)
}

// Years handles GET /api/years
func (h *Handler) Years(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	years, err := h.svc.Years(c.Request.Context(), a, 0)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"years": years})
}

// Team handles GET /api/team?year&area
func (h *Handler) Team(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	members, err := h.svc.Team(c.Request.Context(), a, year, c.Query("area"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members, "count": len(members)})
}

// TeamMember handles GET /api/team/:id?year
func (h *Handler) TeamMember(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	year, ok := queryInt(c, "year")
	if !ok {
		return
	}
	detail, err := h.svc.EmployeeDetail(c.Request.Context(), a, c.Param("id"), year)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
