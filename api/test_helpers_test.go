package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stellarlinkco/mbpp-tools/internal/config"
	"github.com/stellarlinkco/mbpp-tools/internal/store"
)

// newWorkspaceConfig returns a config whose output dirs live under a fresh
// temp dir and whose store is in-memory.
func newWorkspaceConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.SanitizedDir = filepath.Join(dir, "sanitized")
	cfg.Output.OriginalDir = filepath.Join(dir, "original")
	cfg.Output.PlotsDir = filepath.Join(dir, "plots")
	cfg.Storage = config.StorageConfig{Type: "memory"}
	return cfg
}

func writeTestArtifact(t *testing.T, root, category, name, content string) {
	t.Helper()

	dir := filepath.Join(root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	gin.SetMode(gin.TestMode)
	t.Setenv("MBPP_API_KEY", "")
	t.Setenv("MBPP_DISABLE_AUTH", "true")

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	s, err := NewServer(cfg, st)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

type fakeStore struct {
	SaveSplitRunFunc  func(ctx context.Context, run *store.SplitRunRecord) error
	SaveSnapshotsFunc func(ctx context.Context, snaps []*store.SnapshotRecord) error
	GetSplitRunFunc   func(ctx context.Context, id string) (*store.SplitRunRecord, error)
	ListSplitRunsFunc func(ctx context.Context, filter store.RunFilter) ([]*store.SplitRunRecord, error)
	ListSnapshotsFunc func(ctx context.Context, filter store.SnapshotFilter) ([]*store.SnapshotRecord, error)
	CloseFunc         func() error
}

func (s *fakeStore) SaveSplitRun(ctx context.Context, run *store.SplitRunRecord) error {
	if s.SaveSplitRunFunc != nil {
		return s.SaveSplitRunFunc(ctx, run)
	}
	return nil
}

func (s *fakeStore) SaveSnapshots(ctx context.Context, snaps []*store.SnapshotRecord) error {
	if s.SaveSnapshotsFunc != nil {
		return s.SaveSnapshotsFunc(ctx, snaps)
	}
	return nil
}

func (s *fakeStore) GetSplitRun(ctx context.Context, id string) (*store.SplitRunRecord, error) {
	if s.GetSplitRunFunc != nil {
		return s.GetSplitRunFunc(ctx, id)
	}
	return nil, nil
}

func (s *fakeStore) ListSplitRuns(ctx context.Context, filter store.RunFilter) ([]*store.SplitRunRecord, error) {
	if s.ListSplitRunsFunc != nil {
		return s.ListSplitRunsFunc(ctx, filter)
	}
	return nil, nil
}

func (s *fakeStore) ListSnapshots(ctx context.Context, filter store.SnapshotFilter) ([]*store.SnapshotRecord, error) {
	if s.ListSnapshotsFunc != nil {
		return s.ListSnapshotsFunc(ctx, filter)
	}
	return nil, nil
}

func (s *fakeStore) Close() error {
	if s.CloseFunc != nil {
		return s.CloseFunc()
	}
	return nil
}
