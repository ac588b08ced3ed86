package engine

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dirsweep/dirsweep/internal/types"
)

// Decision tells the walker what to do with one directory child.
type Decision int

const (
	// Continue recurses into a directory and ignores a file.
	Continue Decision = iota
	// Collect records the entry's path. A collected directory is not entered.
	Collect
	// Prune stops descent into a directory without recording it.
	Prune
)

// Decider is consulted once for every entry below the walk root.
type Decider func(e types.Entry) Decision

// WalkOptions carries optional walk behavior. The zero value is valid.
type WalkOptions struct {
	// ExcludeGlobs are doublestar patterns matched against the slash-separated
	// path relative to the root. Matching directories are pruned and matching
	// files are ignored before the decider runs.
	ExcludeGlobs []string
	// OnError receives every directory that could not be listed. The walk
	// continues regardless.
	OnError func(path string, err error)
	// Logger receives debug records for skipped directories. Nil disables it.
	Logger *slog.Logger
}

func (o WalkOptions) report(path string, err error) {
	if o.OnError != nil {
		o.OnError(path, err)
	}
	if o.Logger != nil {
		o.Logger.Debug("skipping unreadable directory", "path", path, "error", err)
	}
}

// Walk traverses root depth-first and returns the paths the decider collected.
// The root itself is never offered to the decider. Directories that cannot be
// listed contribute nothing and are only counted in the returned stats.
// Symlinks are neither directories nor regular files and are never followed.
func Walk(root string, decide Decider, opts WalkOptions) ([]string, types.ScanStats) {
	found := []string{}
	var stats types.ScanStats
	globs := parseGlobsList(opts.ExcludeGlobs)

	// A symlinked root is entered; links below it are not.
	start := root
	if fi, err := os.Lstat(root); err == nil && fi.Mode()&fs.ModeSymlink != 0 {
		start = root + string(filepath.Separator)
	}

	_ = filepath.WalkDir(start, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			stats.Unreadable++
			opts.report(p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if p == start {
			if d.IsDir() {
				stats.DirsVisited++
			}
			return nil
		}
		e := types.Entry{
			Name:      d.Name(),
			Path:      p,
			IsDir:     d.IsDir(),
			IsRegular: d.Type().IsRegular(),
		}
		if len(globs) > 0 {
			if rel, rerr := filepath.Rel(root, p); rerr == nil && matchAnyGlob(filepath.ToSlash(rel), globs) {
				if e.IsDir {
					return filepath.SkipDir
				}
				return nil
			}
		}
		switch decide(e) {
		case Collect:
			found = append(found, p)
			if e.IsDir {
				return filepath.SkipDir
			}
		case Prune:
			if e.IsDir {
				return filepath.SkipDir
			}
		default:
			if e.IsDir {
				stats.DirsVisited++
			}
		}
		return nil
	})
	return found, stats
}
