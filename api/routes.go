package api

import (
	"errors"
	"os"
	"strings"
)

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	apiKey := strings.TrimSpace(os.Getenv("MBPP_API_KEY"))
	if apiKey != "" {
		api.Use(apiKeyAuthMiddleware(apiKey))
	} else if strings.EqualFold(strings.TrimSpace(os.Getenv("MBPP_DISABLE_AUTH")), "true") {
		// Explicitly allow unauthenticated access.
	} else {
		return errors.New("api: missing auth configuration: set MBPP_API_KEY or set MBPP_DISABLE_AUTH=true")
	}

	api.GET("/health", s.handleHealth)

	api.GET("/datasets", s.handleListDatasets)
	api.GET("/datasets/:label/stats", s.handleDatasetStats)
	api.GET("/datasets/:label/records", s.handleListRecords)
	api.GET("/datasets/:label/records/:name", s.handleGetRecord)

	api.GET("/runs", s.handleListSplitRuns)
	api.GET("/runs/:id", s.handleGetSplitRun)

	api.GET("/snapshots/:label", s.handleListSnapshots)

	return nil
}
