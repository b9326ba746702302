package handlers

import (
	"net/http"

	"okr-tracker-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login checks the credentials and returns a session token
// POST /api/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request. Email and password are required.",
		})
		return
	}

	res, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":    res.Token,
		"employee": res.Employee,
		"message":  "Login successful",
	})
}

// Logout revokes the caller's token
// POST /api/logout
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authorized"})
		return
	}
	h.svc.Logout(claims)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Me returns the caller's account
// GET /api/me
func (h *Handler) Me(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	me, err := h.svc.Me(c.Request.Context(), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, me)
}
