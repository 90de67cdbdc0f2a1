package store

import (
	"context"
	"time"
)

// RunWriter defines persistence for split runs and analysis snapshots.
type RunWriter interface {
	SaveSplitRun(ctx context.Context, run *SplitRunRecord) error
	SaveSnapshots(ctx context.Context, snaps []*SnapshotRecord) error
}

// RunReader defines read access to recorded runs and snapshots.
type RunReader interface {
	GetSplitRun(ctx context.Context, id string) (*SplitRunRecord, error)
	ListSplitRuns(ctx context.Context, filter RunFilter) ([]*SplitRunRecord, error)
	ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*SnapshotRecord, error)
}

// Store defines persistence for split runs and analysis snapshots.
type Store interface {
	RunWriter
	RunReader
	Close() error
}

// SplitRunRecord stores the summary of one dataset split.
type SplitRunRecord struct {
	ID            string
	Dataset       string
	InputPath     string
	TotalEntries  int
	PromptWritten int
	CodeWritten   int
	TestsWritten  int
	Skipped       int
	CreatedAt     time.Time
}

// SnapshotRecord stores the distribution summary of one metric for one dataset.
type SnapshotRecord struct {
	ID          string
	RunID       string
	Dataset     string
	Metric      string
	SampleCount int
	Min         int
	Max         int
	Median      float64
	Avg         float64
	CreatedAt   time.Time
}

// RunFilter filters split run listings.
type RunFilter struct {
	Dataset string
	Since   time.Time
	Until   time.Time
	Limit   int
}

// SnapshotFilter filters snapshot listings.
type SnapshotFilter struct {
	RunID   string
	Dataset string
	Metric  string
	Limit   int
}
