// Package audit appends a JSONL record for every scan and deletion so users
// can see what a cleanup removed after the fact.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dirsweep/dirsweep/internal/types"
)

// Kind distinguishes record types in the log.
type Kind string

const (
	KindScan   Kind = "scan"
	KindDelete Kind = "delete"
)

type Record struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`

	// scan records
	Root        string     `json:"root,omitempty"`
	Mode        types.Mode `json:"mode,omitempty"`
	Targets     []string   `json:"targets,omitempty"`
	Extensions  []string   `json:"extensions,omitempty"`
	Count       int        `json:"count,omitempty"`
	DirsVisited int        `json:"dirs_visited,omitempty"`
	Unreadable  int        `json:"unreadable,omitempty"`
	Duration    string     `json:"duration,omitempty"`

	// delete records
	Path  string `json:"path,omitempty"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ErrCorrupt is returned by Prune when the log holds lines it cannot decode.
var ErrCorrupt = errors.New("audit log contains undecodable lines")

// maxLine bounds a single record.
const maxLine = 1 << 20

type AuditLog struct {
	logPath string
	logger  *slog.Logger
	mu      sync.Mutex
}

// DefaultPath returns ~/.dirsweep/audit.jsonl.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dirsweep", "audit.jsonl"), nil
}

// NewAuditLog returns a log writing to path. A nil logger discards
// diagnostics.
func NewAuditLog(path string, logger *slog.Logger) *AuditLog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AuditLog{logPath: path, logger: logger}
}

// Path returns the file the log writes to.
func (a *AuditLog) Path() string { return a.logPath }

// LoadHistory returns all records, newest first. Undecodable lines are
// skipped.
func (a *AuditLog) LoadHistory() ([]Record, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	records, skipped, err := a.load()
	if skipped > 0 {
		a.logger.Warn("skipped undecodable audit lines", "path", a.logPath, "lines", skipped)
	}
	return records, err
}

// load decodes the log line by line and reports how many non-empty lines
// could not be decoded.
func (a *AuditLog) load() ([]Record, int, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	skipped := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record Record
		if err := json.Unmarshal(line, &record); err != nil {
			skipped++
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, skipped, nil
}

// Append writes record, filling ID and Timestamp when unset.
func (a *AuditLog) Append(record Record) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(a.logPath), 0o700); err != nil {
		return fmt.Errorf("failed to create audit dir: %w", err)
	}
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}

// LogScan records a completed scan.
func (a *AuditLog) LogScan(req types.ScanRequest, res types.ScanOutput, stats types.ScanStats, d time.Duration) error {
	return a.Append(CreateScanRecord(req, res, stats, d))
}

// RecordDelete records one deletion outcome. Write failures are logged, not
// returned, so auditing never changes a delete result.
func (a *AuditLog) RecordDelete(r types.DeleteResult) {
	err := a.Append(Record{Kind: KindDelete, Path: r.Path, OK: r.OK, Error: r.Error})
	if err != nil {
		a.logger.Warn("audit write failed", "path", r.Path, "error", err)
	}
}

// Prune keeps only the newest keep records. A log with undecodable lines is
// left untouched and ErrCorrupt is returned.
func (a *AuditLog) Prune(keep int) error {
	if keep < 0 {
		return fmt.Errorf("invalid keep: %d", keep)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	records, skipped, err := a.load()
	if err != nil {
		return err
	}
	if skipped > 0 {
		return fmt.Errorf("%w: %d in %s", ErrCorrupt, skipped, a.logPath)
	}
	if len(records) <= keep {
		return nil
	}
	records = records[:keep]

	f, err := os.Create(a.logPath)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	for i := len(records) - 1; i >= 0; i-- {
		if err := encoder.Encode(records[i]); err != nil {
			return fmt.Errorf("failed to write audit record: %w", err)
		}
	}
	return nil
}

func CreateScanRecord(req types.ScanRequest, res types.ScanOutput, stats types.ScanStats, d time.Duration) Record {
	mode := req.Mode
	if mode == "" {
		mode = types.ModeDirs
	}
	rec := Record{
		Kind:        KindScan,
		Root:        req.Root,
		Mode:        mode,
		Count:       res.Count,
		DirsVisited: stats.DirsVisited,
		Unreadable:  stats.Unreadable,
		Duration:    d.String(),
	}
	if mode == types.ModeFiles {
		rec.Extensions = req.Extensions
	} else {
		rec.Targets = req.Targets
	}
	return rec
}
