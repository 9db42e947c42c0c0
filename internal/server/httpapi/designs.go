package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/server/command"
	"github.com/pagesmith/pagesmith/internal/server/handlers"
)

type publishDesignRequest struct {
	EditorID string `json:"editor_id"`
}

func (s *Server) publishDesign(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "design version id must be a positive integer"})
		return
	}

	var req publishDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd := handlers.PublishDesign{DesignVersionID: id, EditorID: req.EditorID}

	result, err := command.Dispatch[handlers.PublishDesignResult](c.Request.Context(), s.dispatcher, cmd)
	if err != nil {
		s.dispatchError(c, err)
		return
	}

	code := statusCode(result.Status)
	if result.Status != handlers.StatusOK {
		c.JSON(code, gin.H{"status": result.Status, "field_errors": result.FieldErrors})
		return
	}

	c.JSON(code, gin.H{
		"status":      result.Status,
		"template_id": result.TemplateID,
		"regenerated": result.Regenerated,
		"failed":      result.Failed,
	})
}

func (s *Server) lookupRedirect(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}

	r, err := s.redirects.Lookup(c.Request.Context(), path)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no redirect for path"})
			return
		}
		s.dispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"old_path": r.OldPath, "new_path": r.NewPath})
}
