// Package server is the HTTP boundary: file upload plus thin proxies to
// the connection store, the ontology index, and the mapping client. The
// sanitizer does the real work; every handler here stays a wrapper.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ontomirror/dbsan/internal/connections"
	"github.com/ontomirror/dbsan/internal/mapping"
	"github.com/ontomirror/dbsan/internal/ontology"
)

// Server bundles the collaborators the handlers need.
type Server struct {
	Connections *connections.Store
	Ontology    *ontology.Index
	Mapper      *mapping.Client
	Logger      logrus.FieldLogger
}

// New assembles a Server; nil logger falls back to the logrus standard
// logger.
func New(store *connections.Store, index *ontology.Index, mapper *mapping.Client, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{Connections: store, Ontology: index, Mapper: mapper, Logger: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "dbsan"})
	})

	api := r.Group("/api")
	s.registerUploadRoutes(api)
	s.registerConnectionRoutes(api)
	s.registerSearchRoutes(api)
	s.registerMappingRoutes(api)
	return r
}

func (s *Server) registerUploadRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", s.uploadHandler())
}

func (s *Server) registerConnectionRoutes(rg *gin.RouterGroup) {
	rg.GET("/connections", s.listConnectionsHandler())
	rg.POST("/connections", s.saveConnectionHandler())
	rg.DELETE("/connections/:name", s.deleteConnectionHandler())
	rg.POST("/connect", s.connectHandler())
}

func (s *Server) registerSearchRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", s.searchHandler())
}

func (s *Server) registerMappingRoutes(rg *gin.RouterGroup) {
	rg.POST("/map", s.mapHandler())
}
