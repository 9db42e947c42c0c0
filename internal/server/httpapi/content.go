package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/server/command"
	"github.com/pagesmith/pagesmith/internal/server/handlers"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

// saveContentRequest is the JSON body of POST /api/content/:number.
type saveContentRequest struct {
	Title        string     `json:"title"`
	Body         string     `json:"body"`
	HeaderScript string     `json:"header_script"`
	FooterScript string     `json:"footer_script"`
	BannerImage  string     `json:"banner_image"`
	ContentType  string     `json:"content_type"`
	Category     string     `json:"category"`
	Introduction string     `json:"introduction"`
	PublishedAt  *time.Time `json:"published_at"`
	EditorID     string     `json:"editor_id"`
}

type versionResponse struct {
	ID            string     `json:"id"`
	ContentNumber int64      `json:"content_number"`
	VersionNumber int        `json:"version_number"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Category      string     `json:"category"`
	Introduction  string     `json:"introduction"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
	EditorID      string     `json:"editor_id"`
	URLPath       string     `json:"url_path"`
}

func toVersionResponse(v *models.ContentVersion) versionResponse {
	return versionResponse{
		ID:            v.ID,
		ContentNumber: v.ContentNumber,
		VersionNumber: v.VersionNumber,
		Title:         v.Title,
		Body:          v.Body,
		Category:      v.Category,
		Introduction:  v.Introduction,
		PublishedAt:   v.PublishedAt,
		UpdatedAt:     v.UpdatedAt,
		EditorID:      v.EditorID,
		URLPath:       v.URLPath,
	}
}

func (s *Server) saveContent(c *gin.Context) {
	number, ok := contentNumberParam(c)
	if !ok {
		return
	}

	var req saveContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cmd := handlers.SaveContent{
		ContentNumber: number,
		Title:         req.Title,
		Body:          req.Body,
		HeaderScript:  req.HeaderScript,
		FooterScript:  req.FooterScript,
		BannerImage:   req.BannerImage,
		ContentType:   req.ContentType,
		Category:      req.Category,
		Introduction:  req.Introduction,
		PublishedAt:   req.PublishedAt,
		EditorID:      req.EditorID,
	}

	result, err := command.Dispatch[handlers.SaveContentResult](c.Request.Context(), s.dispatcher, cmd)
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
		"version":     toVersionResponse(result.Version),
		"cdn_results": result.CdnResults,
	})
}

func (s *Server) latestVersion(c *gin.Context) {
	number, ok := contentNumberParam(c)
	if !ok {
		return
	}

	v, err := s.versions.Latest(c.Request.Context(), number)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "content not found"})
			return
		}
		s.dispatchError(c, err)
		return
	}
	c.JSON(http.StatusOK, toVersionResponse(v))
}

func (s *Server) versionHistory(c *gin.Context) {
	number, ok := contentNumberParam(c)
	if !ok {
		return
	}

	vs, err := s.versions.History(c.Request.Context(), number)
	if err != nil {
		s.dispatchError(c, err)
		return
	}

	out := make([]versionResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, toVersionResponse(v))
	}
	c.JSON(http.StatusOK, gin.H{"versions": out})
}
