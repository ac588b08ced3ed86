package core

import (
	"context"

	"github.com/dirsweep/dirsweep/internal/actions"
	"github.com/dirsweep/dirsweep/internal/engine"
	"github.com/dirsweep/dirsweep/internal/git"
	"github.com/dirsweep/dirsweep/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Mode         = types.Mode
	ScanRequest  = types.ScanRequest
	ScanOutput   = types.ScanOutput
	ScanStats    = types.ScanStats
	RepoStatus   = types.RepoStatus
	DeleteResult = types.DeleteResult
	Runner       = git.Runner
)

const (
	ModeDirs  = types.ModeDirs
	ModeFiles = types.ModeFiles
)

// ErrInvalidInput is wrapped by every request rejected before traversal.
var ErrInvalidInput = engine.ErrInvalidInput

// DefaultNames returns a copy of the directory names used when a request
// names no targets.
func DefaultNames() []string {
	return append([]string(nil), types.DefaultNames...)
}

// Scan is the stable entrypoint for other programs.
func Scan(req ScanRequest) (ScanOutput, error) {
	return engine.Scan(req)
}

// FindTargetDirs returns every directory under root whose name is in targets
// (or the default names), without descending into matches.
func FindTargetDirs(root string, targets []string) []string {
	return engine.FindTargetDirs(root, targets)
}

// FindFilesByExtensions returns every regular file under root whose name
// ends with one of exts, case-insensitively, skipping excluded directories.
func FindFilesByExtensions(root string, exts, excludes []string) []string {
	return engine.FindFilesByExtensions(root, exts, excludes)
}

// Reveal shows path in the platform file manager.
func Reveal(path string) (bool, error) {
	return actions.Reveal(path)
}

// Delete permanently removes a directory tree or a single file.
func Delete(path string) DeleteResult {
	return actions.Delete(path)
}

// Status probes dir with the git command line.
func Status(ctx context.Context, dir string) RepoStatus {
	return git.NewProber(nil).Status(ctx, dir)
}

// StatusWith probes dir through a caller-supplied runner.
func StatusWith(ctx context.Context, runner Runner, dir string) RepoStatus {
	return git.NewProber(runner).Status(ctx, dir)
}
