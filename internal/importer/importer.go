// Package importer drives batch imports of sanitized SQL dumps into a
// single SQLite database. Each input file is sanitized, dumped to a debug
// artifact, and executed inside its own transaction; a failing file is
// rolled back and reported without aborting the files after it.
package importer

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/ontomirror/dbsan/internal/sanitize"
	"github.com/ontomirror/dbsan/internal/watchdog"

	_ "modernc.org/sqlite"
)

// Mode selects what happens to a pre-existing database at the output path.
type Mode string

const (
	// ModeOverwrite deletes any existing database before importing.
	ModeOverwrite Mode = "overwrite"
	// ModeAppend imports into the existing database as-is.
	ModeAppend Mode = "append"
)

// Status classifies a single file's outcome.
type Status string

const (
	StatusPassed       Status = "passed"
	StatusSkippedEmpty Status = "skipped-empty"
	StatusFailed       Status = "failed"
)

// Result is the per-file outcome emitted to the log sink, in file order.
type Result struct {
	File      string
	Status    Status
	Err       string
	DebugPath string
}

// Summary aggregates a whole job's outcomes.
type Summary struct {
	Total        int
	Passed       int
	SkippedEmpty int
	Failed       int
	Results      []Result
}

// Job describes one import run. Files are processed in the given order, so
// callers that must load schema before data sort the list themselves.
type Job struct {
	Files  []string
	DBPath string
	Mode   Mode

	// Log receives plain-text progress lines. Well-known prefixes
	// ("Processing N/M:", "Error executing:", "成功匯入資料庫:") let callers
	// switch on outcome without a structured protocol. May be nil.
	Log func(msg string)

	// Timeout is the per-file watchdog limit, kicked between files: once a
	// single file's sanitize+execute step has run longer than this, Run
	// stops before the next file and returns an error. The running step
	// itself is not interrupted. Zero means unbounded.
	Timeout time.Duration

	// DebugDir overrides where debug artifacts are written; empty means
	// next to the output database.
	DebugDir string

	Logger logrus.FieldLogger
}

func (j *Job) logf(format string, args ...any) {
	if j.Log != nil {
		j.Log(fmt.Sprintf(format, args...))
	}
}

// Run executes the job. It returns a non-nil error for critical failures
// (cannot open the database, cannot write a debug artifact directory) and
// when the job stops early on cancellation or a watchdog stall; per-file
// SQL failures are recorded in the Summary and do not abort the run.
// Cancellation and the watchdog are checked between files.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	log := j.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	jobID := uuid.NewString()
	log = log.WithFields(logrus.Fields{"job": jobID, "db": j.DBPath})

	if j.Mode == ModeOverwrite {
		if err := os.Remove(j.DBPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("importer: remove existing database: %w", err)
		}
	}

	db, err := sql.Open("sqlite", j.DBPath)
	if err != nil {
		return nil, fmt.Errorf("importer: open database: %w", err)
	}
	defer db.Close()

	// One connection: SQLite's default policy is single-threaded use, and
	// BEGIN/script/COMMIT must all land on the same connection anyway.
	db.SetMaxOpenConns(1)

	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("importer: acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF;"); err != nil {
		return nil, fmt.Errorf("importer: disable foreign keys: %w", err)
	}

	debugDir := j.DebugDir
	if debugDir == "" {
		debugDir = filepath.Dir(j.DBPath)
	}
	if err := os.MkdirAll(debugDir, 0o755); err != nil {
		return nil, fmt.Errorf("importer: create debug directory: %w", err)
	}

	wd := watchdog.New(j.Timeout, log)
	stalled := wd.Start()
	defer wd.Stop()

	summary := &Summary{Total: len(j.Files)}
	for idx, file := range j.Files {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		case <-stalled:
			return summary, fmt.Errorf("importer: job stalled beyond %s", j.Timeout)
		default:
		}
		wd.Kick()

		j.logf("Processing %d/%d: %s", idx+1, len(j.Files), file)
		res := j.importFile(ctx, conn, idx, file, debugDir, log)
		summary.Results = append(summary.Results, res)
		switch res.Status {
		case StatusPassed:
			summary.Passed++
		case StatusSkippedEmpty:
			summary.SkippedEmpty++
		case StatusFailed:
			summary.Failed++
			j.logf("Error executing: %s: %s", file, res.Err)
		}
	}

	j.logf("成功匯入資料庫: %s (passed %d, skipped %d, failed %d of %d)",
		j.DBPath, summary.Passed, summary.SkippedEmpty, summary.Failed, summary.Total)
	log.WithFields(logrus.Fields{
		"passed":  summary.Passed,
		"skipped": summary.SkippedEmpty,
		"failed":  summary.Failed,
	}).Info("import finished")
	return summary, nil
}

func (j *Job) importFile(ctx context.Context, conn *sql.Conn, idx int, file, debugDir string, log logrus.FieldLogger) Result {
	res := Result{File: file}

	raw, err := readTextFile(file)
	if err != nil {
		res.Status = StatusFailed
		res.Err = err.Error()
		return res
	}

	script := sanitize.Sanitize(raw)

	debugName := fmt.Sprintf("debug_%d_%s.sql", idx, filepath.Base(file))
	debugPath := filepath.Join(debugDir, debugName)
	if err := os.WriteFile(debugPath, []byte(script), 0o644); err != nil {
		log.WithError(err).WithField("path", debugPath).Warn("debug artifact write failed")
	} else {
		res.DebugPath = debugPath
	}

	if strings.TrimSpace(strings.Trim(script, "; \t\n")) == "" {
		res.Status = StatusSkippedEmpty
		return res
	}

	if _, err := conn.ExecContext(ctx, "BEGIN TRANSACTION;"); err != nil {
		res.Status = StatusFailed
		res.Err = err.Error()
		return res
	}
	if _, err := conn.ExecContext(ctx, script); err != nil {
		if _, rbErr := conn.ExecContext(ctx, "ROLLBACK;"); rbErr != nil {
			log.WithError(rbErr).Error("rollback failed")
		}
		res.Status = StatusFailed
		res.Err = err.Error()
		return res
	}
	if _, err := conn.ExecContext(ctx, "COMMIT;"); err != nil {
		res.Status = StatusFailed
		res.Err = err.Error()
		return res
	}

	res.Status = StatusPassed
	return res
}

// readTextFile reads a dump as UTF-8 and falls back to Latin-1 when the
// bytes don't form valid UTF-8, mirroring how SQL Server-era dumps are
// frequently encoded.
func readTextFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(raw) {
		return string(raw), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("decode %s as latin-1: %w", path, err)
	}
	return string(decoded), nil
}
