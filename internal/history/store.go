// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists batch conversion runs in a SQLite database so
// past outcomes, including renderer exit codes, can be reviewed later.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/svg2png/internal/convert"
	"github.com/pdiddy/svg2png/pkg/types"
)

// DefaultPath is the database location relative to the converted directory.
const DefaultPath = ".svg2png/history.db"

const defaultLimit = 10

// Run is one recorded batch with its per-file results.
type Run struct {
	ID        int64              `json:"id"`
	Dir       string             `json:"dir"`
	Started   time.Time          `json:"started"`
	Finished  time.Time          `json:"finished"`
	Converted int                `json:"converted"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Files     []types.FileResult `json:"files"`
}

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			dir TEXT NOT NULL,
			started TEXT NOT NULL,
			finished TEXT NOT NULL,
			converted INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS files (
			run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT NOT NULL,
			status TEXT NOT NULL,
			command TEXT,
			exit_code INTEGER NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			PRIMARY KEY (run_id, seq)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_files_status ON files(status)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores result as a new run and returns its ID.
func (s *Store) Record(ctx context.Context, result convert.BatchResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (dir, started, finished, converted, skipped, failed) VALUES (?, ?, ?, ?, ?, ?)`,
		result.Dir,
		result.Started.UTC().Format(time.RFC3339Nano),
		result.Finished.UTC().Format(time.RFC3339Nano),
		result.Converted, result.Skipped, result.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO files (run_id, seq, name, input, output, status, command, exit_code, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing file insert: %w", err)
	}
	defer stmt.Close()

	for i, f := range result.Files {
		if _, err := stmt.ExecContext(ctx,
			runID, i, f.Name, f.Input, f.Output, string(f.Status),
			f.Command, f.ExitCode, f.Error, f.Duration.Milliseconds(),
		); err != nil {
			return 0, fmt.Errorf("inserting file %s: %w", f.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

// Recent returns up to limit runs, newest first, each with its files.
// A non-positive limit uses the default of 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, dir, started, finished, converted, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	var runs []Run
	for rows.Next() {
		var (
			r                 Run
			started, finished string
		)
		if err := rows.Scan(&r.ID, &r.Dir, &started, &finished, &r.Converted, &r.Skipped, &r.Failed); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if r.Started, err = time.Parse(time.RFC3339Nano, started); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing start time of run %d: %w", r.ID, err)
		}
		if r.Finished, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			rows.Close()
			return nil, fmt.Errorf("parsing finish time of run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		files, err := s.files(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Files = files
	}
	return runs, nil
}

func (s *Store) files(ctx context.Context, runID int64) ([]types.FileResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, input, output, status, command, exit_code, error, duration_ms
		 FROM files WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying files for run %d: %w", runID, err)
	}
	defer rows.Close()

	var files []types.FileResult
	for rows.Next() {
		var (
			f               types.FileResult
			status          string
			command, errMsg sql.NullString
			durationMS      int64
		)
		if err := rows.Scan(&f.Name, &f.Input, &f.Output, &status, &command, &f.ExitCode, &errMsg, &durationMS); err != nil {
			return nil, fmt.Errorf("scanning file: %w", err)
		}
		f.Status = types.ConversionStatus(status)
		f.Command = command.String
		f.Error = errMsg.String
		f.Duration = time.Duration(durationMS) * time.Millisecond
		files = append(files, f)
	}
	return files, rows.Err()
}
