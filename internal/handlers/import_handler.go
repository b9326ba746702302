package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"okr-tracker-api/internal/service"

	"github.com/gin-gonic/gin"
)

const maxWorkbookSize = 20 << 20

// Import handles POST /api/import. The workbook is either the "file" field
// of a multipart form or the raw request body.
func (h *Handler) Import(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}

	var body io.Reader = http.MaxBytesReader(c.Writer, c.Request.Body, maxWorkbookSize)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read upload"})
			return
		}
		defer f.Close()
		body = f
	}

	report, err := h.svc.Import(c.Request.Context(), a, body)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, report)
	case errors.Is(err, service.ErrForbidden):
		h.respondError(c, err)
	case report == nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read workbook: " + err.Error()})
	default:
		h.respondError(c, err)
	}
}
