package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt      *sql.Stmt
	insertSnapshotStmt *sql.Stmt
	getRunStmt         *sql.Stmt
}

var (
	sqliteOpen              = sql.Open
	sqlitePrepareStatements = (*SQLiteStore).prepareStatements
)

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sqliteOpen("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := sqlitePrepareStatements(st); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS split_runs (
			id TEXT PRIMARY KEY,
			dataset TEXT NOT NULL,
			input_path TEXT NOT NULL,
			total_entries INTEGER NOT NULL,
			prompt_written INTEGER NOT NULL,
			code_written INTEGER NOT NULL,
			tests_written INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS analysis_snapshots (
			id TEXT PRIMARY KEY,
			run_id TEXT NOT NULL,
			dataset TEXT NOT NULL,
			metric TEXT NOT NULL,
			sample_count INTEGER NOT NULL,
			min_value INTEGER NOT NULL,
			max_value INTEGER NOT NULL,
			median REAL NOT NULL,
			avg REAL NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_split_runs_dataset ON split_runs(dataset)`,
		`CREATE INDEX IF NOT EXISTS idx_split_runs_created_at ON split_runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_run_id ON analysis_snapshots(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_dataset_metric ON analysis_snapshots(dataset, metric)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON analysis_snapshots(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO split_runs (
					id, dataset, input_path, total_entries, prompt_written, code_written, tests_written, skipped, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertSnapshotStmt,
			query: `
				INSERT INTO analysis_snapshots (
					id, run_id, dataset, metric, sample_count, min_value, max_value, median, avg, created_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert snapshot: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, dataset, input_path, total_entries, prompt_written, code_written, tests_written, skipped, created_at
				FROM split_runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertSnapshotStmt,
		s.getRunStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSplitRun persists a split run summary.
func (s *SQLiteStore) SaveSplitRun(ctx context.Context, run *SplitRunRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil split run")
	}

	id := strings.TrimSpace(run.ID)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if strings.TrimSpace(run.Dataset) == "" {
		return errors.New("store: empty dataset label")
	}

	createdAt := run.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.insertRunStmt.ExecContext(
		ctx,
		id,
		run.Dataset,
		run.InputPath,
		run.TotalEntries,
		run.PromptWritten,
		run.CodeWritten,
		run.TestsWritten,
		run.Skipped,
		createdAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("store: insert split run: %w", err)
	}
	return nil
}

// SaveSnapshots persists a batch of analysis snapshots in one transaction.
func (s *SQLiteStore) SaveSnapshots(ctx context.Context, snaps []*SnapshotRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if len(snaps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin snapshot tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertSnapshotStmt)
	defer stmt.Close()

	for _, snap := range snaps {
		if snap == nil {
			return errors.New("store: nil snapshot")
		}
		id := strings.TrimSpace(snap.ID)
		if id == "" {
			return errors.New("store: empty snapshot id")
		}
		if strings.TrimSpace(snap.Dataset) == "" || strings.TrimSpace(snap.Metric) == "" {
			return errors.New("store: missing dataset/metric")
		}
		createdAt := snap.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		if _, err := stmt.ExecContext(
			ctx,
			id,
			snap.RunID,
			snap.Dataset,
			snap.Metric,
			snap.SampleCount,
			snap.Min,
			snap.Max,
			snap.Median,
			snap.Avg,
			createdAt.UTC().UnixMilli(),
		); err != nil {
			return fmt.Errorf("store: insert snapshot: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit snapshots: %w", err)
	}
	return nil
}

// GetSplitRun loads a split run by id.
func (s *SQLiteStore) GetSplitRun(ctx context.Context, id string) (*SplitRunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	row := s.getRunStmt.QueryRowContext(ctx, id)
	run, err := scanSplitRun(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: get split run: %w", err)
	}
	return run, nil
}

// ListSplitRuns returns split runs matching the filter, newest first.
func (s *SQLiteStore) ListSplitRuns(ctx context.Context, filter RunFilter) ([]*SplitRunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	dataset := strings.TrimSpace(filter.Dataset)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, dataset, input_path, total_entries, prompt_written, code_written, tests_written, skipped, created_at FROM split_runs WHERE 1=1`)

	var args []any
	if dataset != "" {
		sb.WriteString(` AND dataset = ?`)
		args = append(args, dataset)
	}
	if !filter.Since.IsZero() {
		sb.WriteString(` AND created_at >= ?`)
		args = append(args, filter.Since.UTC().UnixMilli())
	}
	if !filter.Until.IsZero() {
		sb.WriteString(` AND created_at <= ?`)
		args = append(args, filter.Until.UTC().UnixMilli())
	}
	sb.WriteString(` ORDER BY created_at DESC, id ASC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list split runs: %w", err)
	}
	defer rows.Close()
	return scanSplitRunRows(rows)
}

// ListSnapshots returns analysis snapshots matching the filter, newest first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, filter SnapshotFilter) ([]*SnapshotRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	runID := strings.TrimSpace(filter.RunID)
	dataset := strings.TrimSpace(filter.Dataset)
	metric := strings.TrimSpace(filter.Metric)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, run_id, dataset, metric, sample_count, min_value, max_value, median, avg, created_at FROM analysis_snapshots WHERE 1=1`)

	var args []any
	if runID != "" {
		sb.WriteString(` AND run_id = ?`)
		args = append(args, runID)
	}
	if dataset != "" {
		sb.WriteString(` AND dataset = ?`)
		args = append(args, dataset)
	}
	if metric != "" {
		sb.WriteString(` AND metric = ?`)
		args = append(args, metric)
	}
	sb.WriteString(` ORDER BY created_at DESC, dataset ASC, metric ASC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list snapshots: %w", err)
	}
	defer rows.Close()
	return scanSnapshotRows(rows)
}

func scanSplitRun(scan func(dest ...any) error) (*SplitRunRecord, error) {
	var (
		id            string
		dataset       string
		inputPath     string
		totalEntries  int
		promptWritten int
		codeWritten   int
		testsWritten  int
		skipped       int
		createdAtMS   int64
	)
	if err := scan(&id, &dataset, &inputPath, &totalEntries, &promptWritten, &codeWritten, &testsWritten, &skipped, &createdAtMS); err != nil {
		return nil, err
	}
	return &SplitRunRecord{
		ID:            id,
		Dataset:       dataset,
		InputPath:     inputPath,
		TotalEntries:  totalEntries,
		PromptWritten: promptWritten,
		CodeWritten:   codeWritten,
		TestsWritten:  testsWritten,
		Skipped:       skipped,
		CreatedAt:     time.UnixMilli(createdAtMS).UTC(),
	}, nil
}

func scanSplitRunRows(rows *sql.Rows) ([]*SplitRunRecord, error) {
	var out []*SplitRunRecord
	for rows.Next() {
		run, err := scanSplitRun(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan split run: %w", err)
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list split runs: %w", err)
	}
	return out, nil
}

func scanSnapshotRows(rows *sql.Rows) ([]*SnapshotRecord, error) {
	var out []*SnapshotRecord
	for rows.Next() {
		var (
			id          string
			runID       string
			dataset     string
			metric      string
			sampleCount int
			minValue    int
			maxValue    int
			median      float64
			avg         float64
			createdAtMS int64
		)
		if err := rows.Scan(
			&id,
			&runID,
			&dataset,
			&metric,
			&sampleCount,
			&minValue,
			&maxValue,
			&median,
			&avg,
			&createdAtMS,
		); err != nil {
			return nil, fmt.Errorf("store: scan snapshot: %w", err)
		}
		out = append(out, &SnapshotRecord{
			ID:          id,
			RunID:       runID,
			Dataset:     dataset,
			Metric:      metric,
			SampleCount: sampleCount,
			Min:         minValue,
			Max:         maxValue,
			Median:      median,
			Avg:         avg,
			CreatedAt:   time.UnixMilli(createdAtMS).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: scan snapshot rows: %w", err)
	}
	return out, nil
}
