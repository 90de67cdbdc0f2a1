package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultPlotsRoot = "plots"

func (s *Server) plotsRoot() string {
	if s != nil && s.config != nil {
		if dir := strings.TrimSpace(s.config.Output.PlotsDir); dir != "" {
			return dir
		}
	}
	return defaultPlotsRoot
}

// registerStatic serves rendered chart files under /plots. Requests are
// confined to the configured plots directory.
func (s *Server) registerStatic() {
	if s == nil || s.router == nil {
		return
	}

	handler := func(c *gin.Context) {
		root := s.plotsRoot()
		rootAbs, err := filepath.Abs(root)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}

		rel := strings.TrimPrefix(c.Param("filepath"), "/")
		cleaned := filepath.Clean(rel)
		full := filepath.Join(root, cleaned)
		fullAbs, err := filepath.Abs(full)
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		rootPrefix := rootAbs + string(os.PathSeparator)
		if fullAbs != rootAbs && !strings.HasPrefix(fullAbs, rootPrefix) {
			c.Status(http.StatusForbidden)
			return
		}
		info, err := os.Stat(fullAbs)
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(fullAbs)
	}

	s.router.GET("/plots/*filepath", handler)
	s.router.HEAD("/plots/*filepath", handler)
}
