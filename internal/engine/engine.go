package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dirsweep/dirsweep/internal/types"
)

// ErrInvalidInput is returned when a scan request is rejected before any
// traversal happens.
var ErrInvalidInput = errors.New("invalid scan request")

// Options tunes a scan without changing what it matches.
type Options struct {
	Logger  *slog.Logger
	OnError func(path string, err error)
}

// Result bundles a scan's output with its diagnostics.
type Result struct {
	Output   types.ScanOutput
	Stats    types.ScanStats
	Duration time.Duration
}

// Scan runs one scan and returns only its output.
func Scan(req types.ScanRequest) (types.ScanOutput, error) {
	res, err := ScanWithStats(req, Options{})
	if err != nil {
		return types.ScanOutput{Results: []string{}}, err
	}
	return res.Output, nil
}

// ScanWithStats validates req, runs the matcher for its mode over the whole
// tree and returns the located paths together with walk diagnostics.
// Unreadable directories never cause an error.
func ScanWithStats(req types.ScanRequest, opts Options) (Result, error) {
	var result Result
	root, err := ValidateRoot(req.Root)
	if err != nil {
		return result, err
	}
	if err := ValidateGlobs(req.ExcludeGlobs); err != nil {
		return result, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	wopts := WalkOptions{
		ExcludeGlobs: req.ExcludeGlobs,
		OnError:      opts.OnError,
		Logger:       opts.Logger,
	}
	started := time.Now()
	var found []string
	switch req.Mode {
	case types.ModeDirs:
		found, result.Stats = Walk(root, targetDecider(req.Targets), wopts)
	case types.ModeFiles:
		found, result.Stats = findFiles(root, req.Extensions, req.Excludes, wopts)
	default:
		return result, fmt.Errorf("%w: unknown mode %q", ErrInvalidInput, req.Mode)
	}
	result.Duration = time.Since(started)
	result.Output = types.ScanOutput{Count: len(found), Results: found}
	if opts.Logger != nil {
		opts.Logger.Debug("scan finished",
			"root", root,
			"mode", string(req.Mode),
			"matches", len(found),
			"dirs", result.Stats.DirsVisited,
			"unreadable", result.Stats.Unreadable,
			"duration", result.Duration)
	}
	return result, nil
}

// ValidateRoot rejects empty, missing and non-directory roots and returns the
// cleaned absolute path.
func ValidateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("%w: root directory is required", ErrInvalidInput)
	}
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("%w: root contains null byte", ErrInvalidInput)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: cannot access %q: %v", ErrInvalidInput, root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: not a directory: %s", ErrInvalidInput, root)
	}
	return abs, nil
}

// ParseMode maps user-facing mode strings onto a Mode.
func ParseMode(s string) (types.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dirs", "dir", "directories":
		return types.ModeDirs, nil
	case "files", "file":
		return types.ModeFiles, nil
	default:
		return "", fmt.Errorf("%w: unknown mode %q (want dirs|files)", ErrInvalidInput, s)
	}
}
