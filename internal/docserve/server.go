// Package docserve is a local document service for development and
// integration tests. It speaks the same contract the remote service does:
// whole-document fetch and conditional replace with ETag/If-Match markers.
package docserve

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/easel/internal/docclient"
	"github.com/mesh-intelligence/easel/pkg/types"
)

// Server wraps a gin engine over an in-memory document store.
type Server struct {
	store  *docclient.Memory
	engine *gin.Engine
}

// New builds a server with an empty store.
func New() *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		store:  docclient.NewMemory(),
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery())
	s.routes()
	return s
}

// Store exposes the backing memory client, for seeding.
func (s *Server) Store() *docclient.Memory { return s.store }

// Handler returns the HTTP handler, for httptest servers.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until the listener fails.
func (s *Server) Run(addr string) error {
	slog.Info("document service listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/documents/:id", s.getDocument)
	s.engine.PUT("/documents/:id", s.putDocument)
	s.engine.POST("/documents/:id", s.postDocument)
}

func (s *Server) getDocument(c *gin.Context) {
	id := c.Param("id")
	doc, marker, err := s.store.Fetch(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("ETag", string(marker))
	c.JSON(http.StatusOK, doc)
}

// putDocument replaces a document. The If-Match header carries the
// caller's marker; a stale one answers 409 with the current marker in
// ETag so the caller can report both sides of the conflict.
func (s *Server) putDocument(c *gin.Context) {
	id := c.Param("id")
	var doc types.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document body: " + err.Error()})
		return
	}
	marker := types.VersionMarker(c.GetHeader("If-Match"))

	newMarker, err := s.store.Replace(c.Request.Context(), id, &doc, marker)
	if err != nil {
		var conflict *types.ConflictError
		switch {
		case errors.As(err, &conflict):
			c.Header("ETag", string(conflict.Actual))
			c.JSON(http.StatusConflict, gin.H{"error": "version marker is stale"})
		case errors.Is(err, types.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "document not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.Header("ETag", string(newMarker))
	c.Status(http.StatusNoContent)
}

// postDocument creates a document, replacing any existing one outright.
// Bootstrap endpoint; the safety layers live client-side.
func (s *Server) postDocument(c *gin.Context) {
	id := c.Param("id")
	var doc types.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid document body: " + err.Error()})
		return
	}
	if err := s.store.Seed(id, &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("ETag", string(s.store.Marker(id)))
	c.Status(http.StatusCreated)
}
