package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ontomirror/dbsan/extractors"
	"github.com/ontomirror/dbsan/internal/connections"
	"github.com/ontomirror/dbsan/internal/mapping"
	"github.com/ontomirror/dbsan/internal/sanitize"
)

// maxUploadBytes bounds how much SQL a single upload may carry.
const maxUploadBytes = 64 << 20

func (s *Server) uploadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing multipart 'file' field"})
			return
		}
		f, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "read failed"})
			return
		}

		sanitized := sanitize.Sanitize(string(raw))
		tables := extractors.ParseTables(sanitized)

		s.Logger.WithField("file", fileHeader.Filename).
			WithField("tables", len(tables)).Info("upload sanitized")
		c.JSON(http.StatusOK, gin.H{
			"filename":  fileHeader.Filename,
			"tables":    tables,
			"sanitized": sanitized,
		})
	}
}

func (s *Server) listConnectionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := s.Connections.List()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func (s *Server) saveConnectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var d connections.Descriptor
		if err := c.ShouldBindJSON(&d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if err := s.Connections.Save(d); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "saved", "name": d.Name})
	}
}

func (s *Server) deleteConnectionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.Param("name")
		err := s.Connections.Delete(name)
		if errors.Is(err, connections.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "deleted", "name": name})
	}
}

type connectRequest struct {
	ConnectionName string `json:"connection_name"`
}

func (s *Server) connectHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req connectRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		desc, err := s.Connections.Get(req.ConnectionName)
		if errors.Is(err, connections.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "connection not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store error"})
			return
		}

		ex, err := extractors.Open(desc.Driver, desc.DSN)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer ex.Close()

		tables, err := ex.ListTables(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"connection": desc.Name, "tables": tables})
	}
}

func (s *Server) searchHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Query("q")
		if query == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})
			return
		}
		k, err := strconv.Atoi(c.DefaultQuery("k", "3"))
		if err != nil || k <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parameter 'k' must be a positive integer"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"query": query, "matches": s.Ontology.Search(query, k)})
	}
}

type mapRequest struct {
	Tables []mapping.TableShape `json:"tables"`
}

func (s *Server) mapHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req mapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		mappings, err := s.Mapper.MapBatch(c.Request.Context(), req.Tables)
		if err != nil {
			s.Logger.WithError(err).Error("batch mapping failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"mappings": mappings})
	}
}
