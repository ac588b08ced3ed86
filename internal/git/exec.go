package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTimeout bounds a single git invocation.
const DefaultTimeout = 10 * time.Second

// Runner executes the two version-control queries a probe needs.
type Runner interface {
	// RunStatus returns porcelain status output for dir; empty means clean.
	RunStatus(ctx context.Context, dir string) (string, error)
	// ListRemotes returns remotes in `git remote -v` format.
	ListRemotes(ctx context.Context, dir string) (string, error)
}

// ExecRunner shells out to the git binary.
type ExecRunner struct {
	// Binary defaults to "git" resolved from PATH.
	Binary  string
	Timeout time.Duration
}

func (r ExecRunner) RunStatus(ctx context.Context, dir string) (string, error) {
	return r.run(ctx, dir, "status", "--porcelain")
}

func (r ExecRunner) ListRemotes(ctx context.Context, dir string) (string, error) {
	return r.run(ctx, dir, "remote", "-v")
}

func (r ExecRunner) run(ctx context.Context, dir string, args ...string) (string, error) {
	bin := r.Binary
	if bin == "" {
		bin = "git"
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(ee.Stderr)))
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return string(out), nil
}

// validateRoot validates and normalizes a repository directory path.
// Returns the cleaned absolute path or an error if invalid.
func validateRoot(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", fmt.Errorf("repository path is required")
	}
	if strings.ContainsRune(root, 0) {
		return "", fmt.Errorf("invalid path: contains null byte")
	}
	abs, err := filepath.Abs(filepath.Clean(root))
	if err != nil {
		return "", fmt.Errorf("invalid path %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access path %q: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", root)
	}
	return abs, nil
}
