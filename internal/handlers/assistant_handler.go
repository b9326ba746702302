package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AskRequest struct {
	Prompt string `json:"prompt"`
}

// Ask handles POST /api/assistant. Assistant failures come back as the
// answer text with status 200.
func (h *Handler) Ask(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	answer, err := h.svc.Ask(c.Request.Context(), a, req.Prompt)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

// AssistantMessages handles GET /api/assistant/messages
func (h *Handler) AssistantMessages(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	msgs, err := h.svc.Conversation(c.Request.Context(), a)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}
