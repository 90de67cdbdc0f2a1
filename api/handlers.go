package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mbpp-tools/internal/analyze"
	"github.com/stellarlinkco/mbpp-tools/internal/dataset"
	"github.com/stellarlinkco/mbpp-tools/internal/store"
)

const (
	promptCategory = "prompt"
	codeCategory   = "code"
	testsCategory  = "tests"
)

var categories = []string{promptCategory, codeCategory, testsCategory}

type datasetInfo struct {
	Label  string         `json:"label"`
	Root   string         `json:"root"`
	Counts map[string]int `json:"counts"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// datasetRoots maps the two dataset labels to their artifact directories.
func (s *Server) datasetRoots() map[string]string {
	roots := map[string]string{
		"sanitized": "sanitized",
		"original":  "original",
	}
	if s != nil && s.config != nil {
		if dir := strings.TrimSpace(s.config.Output.SanitizedDir); dir != "" {
			roots["sanitized"] = dir
		}
		if dir := strings.TrimSpace(s.config.Output.OriginalDir); dir != "" {
			roots["original"] = dir
		}
	}
	return roots
}

func (s *Server) datasetRoot(label string) (string, bool) {
	root, ok := s.datasetRoots()[label]
	return root, ok
}

func (s *Server) handleListDatasets(c *gin.Context) {
	roots := s.datasetRoots()
	labels := make([]string, 0, len(roots))
	for label := range roots {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]datasetInfo, 0, len(labels))
	for _, label := range labels {
		root := roots[label]
		counts := make(map[string]int, len(categories))
		for _, category := range categories {
			counts[category] = countArtifacts(filepath.Join(root, category))
		}
		out = append(out, datasetInfo{Label: label, Root: root, Counts: counts})
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleDatasetStats(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))
	root, ok := s.datasetRoot(label)
	if !ok {
		respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", label))
		return
	}
	if _, err := os.Stat(root); err != nil {
		respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q has no artifacts", label))
		return
	}

	c.JSON(http.StatusOK, analyze.Collect(label, root).Describe())
}

func (s *Server) handleListRecords(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))
	root, ok := s.datasetRoot(label)
	if !ok {
		respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", label))
		return
	}

	out := gin.H{"label": label}
	for _, category := range categories {
		out[category] = artifactNames(filepath.Join(root, category))
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) handleGetRecord(c *gin.Context) {
	label := strings.TrimSpace(c.Param("label"))
	root, ok := s.datasetRoot(label)
	if !ok {
		respondError(c, http.StatusNotFound, fmt.Errorf("dataset %q not found", label))
		return
	}

	name := strings.TrimSpace(c.Param("name"))
	if name == "" || name != dataset.SanitizeFilename(name) {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid record name %q", name))
		return
	}

	files := map[string]string{
		promptCategory: name + ".txt",
		codeCategory:   name + ".py",
		testsCategory:  name + ".py",
	}
	artifacts := gin.H{}
	for category, file := range files {
		raw, err := os.ReadFile(filepath.Join(root, category, file))
		if err != nil {
			continue
		}
		artifacts[category] = string(raw)
	}
	if len(artifacts) == 0 {
		respondError(c, http.StatusNotFound, fmt.Errorf("record %q not found", name))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"label":     label,
		"name":      name,
		"artifacts": artifacts,
	})
}

func (s *Server) handleListSplitRuns(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	since, err := parseTimeParam(c.Query("since"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	until, err := parseTimeParam(c.Query("until"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	filter := store.RunFilter{
		Dataset: strings.TrimSpace(c.Query("dataset")),
		Since:   since,
		Until:   until,
		Limit:   limit,
	}

	runs, err := s.store.ListSplitRuns(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, runs)
}

func (s *Server) handleGetSplitRun(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing run id"))
		return
	}

	run, err := s.store.GetSplitRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(c, http.StatusNotFound, fmt.Errorf("run %q not found", id))
			return
		}
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, run)
}

func (s *Server) handleListSnapshots(c *gin.Context) {
	if s == nil || s.store == nil {
		respondError(c, http.StatusInternalServerError, errors.New("server not initialized"))
		return
	}

	label := strings.TrimSpace(c.Param("label"))
	if label == "" {
		respondError(c, http.StatusBadRequest, errors.New("missing dataset label"))
		return
	}

	limit, err := parseLimitParam(c.Query("limit"), 20)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	filter := store.SnapshotFilter{
		RunID:   strings.TrimSpace(c.Query("run")),
		Dataset: label,
		Metric:  strings.TrimSpace(c.Query("metric")),
		Limit:   limit,
	}

	snaps, err := s.store.ListSnapshots(c.Request.Context(), filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, snaps)
}

func countArtifacts(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}

// artifactNames lists files in dir without their extensions, sorted.
func artifactNames(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		names = append(names, strings.TrimSuffix(name, filepath.Ext(name)))
	}
	sort.Strings(names)
	return names
}

func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		c.Status(status)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseLimitParam(raw string, fallback int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid limit %q", raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("limit must be > 0")
	}
	return v, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	layouts := []string{time.RFC3339, "2006-01-02"}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (expected RFC3339 or YYYY-MM-DD)", raw)
}
