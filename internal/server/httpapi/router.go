// Package httpapi exposes the command dispatcher and the read-side stores
// over an HTTP JSON API.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagesmith/pagesmith/internal/common"
	"github.com/pagesmith/pagesmith/internal/logging"
	"github.com/pagesmith/pagesmith/internal/server/command"
	"github.com/pagesmith/pagesmith/internal/server/handlers"
	"github.com/pagesmith/pagesmith/internal/server/models"
)

// versionReader is the read side of the version store used by the API.
type versionReader interface {
	Latest(ctx context.Context, contentNumber int64) (*models.ContentVersion, error)
	History(ctx context.Context, contentNumber int64) ([]*models.ContentVersion, error)
}

// redirectReader resolves stored path redirects.
type redirectReader interface {
	Lookup(ctx context.Context, path string) (*models.Redirect, error)
}

// Server wires the dispatcher and read-side collaborators into a gin
// router.
type Server struct {
	dispatcher *command.Dispatcher
	versions   versionReader
	redirects  redirectReader
	logger     logging.Logger
}

func NewServer(dispatcher *command.Dispatcher, versions versionReader, redirects redirectReader, logger logging.Logger) *Server {
	return &Server{
		dispatcher: dispatcher,
		versions:   versions,
		redirects:  redirects,
		logger:     logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLog())

	r.GET("/health", s.health)

	api := r.Group("/api")
	{
		api.POST("/content/:number", s.saveContent)
		api.GET("/content/:number", s.latestVersion)
		api.GET("/content/:number/history", s.versionHistory)
		api.POST("/designs/:id/publish", s.publishDesign)
		api.GET("/redirects", s.lookupRedirect)
	}
	return r
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// requestLog logs one line per request after it completes.
func (s *Server) requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

func contentNumberParam(c *gin.Context) (int64, bool) {
	n, err := strconv.ParseInt(c.Param("number"), 10, 64)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content number must be a positive integer"})
		return 0, false
	}
	return n, true
}

func statusCode(status handlers.ResultStatus) int {
	switch status {
	case handlers.StatusOK:
		return http.StatusOK
	case handlers.StatusInvalid:
		return http.StatusBadRequest
	case handlers.StatusNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// dispatchError maps the error channel of a command: rule violations are
// conflicts the client can act on, everything else is internal.
func (s *Server) dispatchError(c *gin.Context, err error) {
	var rule *common.BusinessRuleError
	if errors.As(err, &rule) {
		c.JSON(http.StatusConflict, gin.H{"rule": rule.Rule, "error": rule.Detail})
		return
	}
	s.logger.Error(c.Request.Context(), "command dispatch failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
