package actions

import (
	"errors"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrInvalidArgument is returned when an action is called without a path.
var ErrInvalidArgument = errors.New("invalid argument: path is required")

// Launcher starts an external program without waiting for it.
type Launcher interface {
	Start(name string, args ...string) error
}

// ExecLauncher starts programs with os/exec.
type ExecLauncher struct{}

// Start runs name detached and reaps it in the background.
func (ExecLauncher) Start(name string, args ...string) error {
	c := exec.Command(name, args...)
	if err := c.Start(); err != nil {
		return err
	}
	go func() { _ = c.Wait() }()
	return nil
}

// Revealer shows paths in the host file manager.
type Revealer struct {
	Launcher Launcher
	GOOS     string
}

// NewRevealer returns a Revealer for the running platform.
func NewRevealer() *Revealer {
	return &Revealer{Launcher: ExecLauncher{}, GOOS: runtime.GOOS}
}

// Reveal asks the file manager to show path. Only an empty path is an error:
// failures of the file manager itself are not observed.
func (r *Revealer) Reveal(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, ErrInvalidArgument
	}
	name, args := revealCommand(r.GOOS, path)
	_ = r.Launcher.Start(name, args...)
	return true, nil
}

// Reveal shows path using the platform default file manager.
func Reveal(path string) (bool, error) {
	return NewRevealer().Reveal(path)
}

func revealCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{"-R", path}
	case "windows":
		return "explorer", []string{"/select," + path}
	default:
		// xdg-open cannot select an item; open its folder instead
		return "xdg-open", []string{filepath.Dir(path)}
	}
}
