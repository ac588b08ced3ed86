package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for dirsweep.
// Nil fields are unset so precedence can fall through to the next source.
type FileConfig struct {
	Mode         *string  `yaml:"mode,omitempty"`
	Targets      []string `yaml:"targets,omitempty"`
	Extensions   []string `yaml:"extensions,omitempty"`
	Excludes     []string `yaml:"excludes,omitempty"`
	ExcludeGlobs []string `yaml:"exclude_globs,omitempty"`
	NoColor      *bool    `yaml:"no_color,omitempty"`

	// Git probe settings
	GitBackend *string `yaml:"git_backend,omitempty"`
	GitBinary  *string `yaml:"git_binary,omitempty"`
	GitTimeout *string `yaml:"git_timeout,omitempty"`

	// Audit controls the JSONL log of scans and deletions (default on).
	Audit *bool `yaml:"audit,omitempty"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ErrNoConfig reports that no config file exists at the searched location.
var ErrNoConfig = errors.New("no config")

// LocalNames lists the file names searched, in order, inside a scan root.
var LocalNames = []string{".dirsweep.yml", ".dirsweep.yaml", "dirsweep.yml", "dirsweep.yaml"}

// LoadLocal searches for a root-local config file in the given directory.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range LocalNames {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, fmt.Errorf("%w: none of %v in %s", ErrNoConfig, LocalNames, root)
}

// GlobalPath returns the global config location, honoring XDG_CONFIG_HOME.
func GlobalPath() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return "", fmt.Errorf("%w: no config dir", ErrNoConfig)
	}
	return filepath.Join(base, "dirsweep", "config.yml"), nil
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	p, err := GlobalPath()
	if err != nil {
		return cfg, err
	}
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, fmt.Errorf("%w: %s", ErrNoConfig, p)
}

// Merge overlays local on top of global: any field set in local wins.
func Merge(local, global FileConfig) FileConfig {
	out := global
	if local.Mode != nil {
		out.Mode = local.Mode
	}
	if len(local.Targets) > 0 {
		out.Targets = local.Targets
	}
	if len(local.Extensions) > 0 {
		out.Extensions = local.Extensions
	}
	if len(local.Excludes) > 0 {
		out.Excludes = local.Excludes
	}
	if len(local.ExcludeGlobs) > 0 {
		out.ExcludeGlobs = local.ExcludeGlobs
	}
	if local.NoColor != nil {
		out.NoColor = local.NoColor
	}
	if local.GitBackend != nil {
		out.GitBackend = local.GitBackend
	}
	if local.GitBinary != nil {
		out.GitBinary = local.GitBinary
	}
	if local.GitTimeout != nil {
		out.GitTimeout = local.GitTimeout
	}
	if local.Audit != nil {
		out.Audit = local.Audit
	}
	return out
}

// Load reads the global config and the local config of root and merges them.
// Missing files are not an error; malformed ones are.
func Load(root string) (FileConfig, error) {
	gcfg, err := LoadGlobal()
	if err != nil && !errors.Is(err, ErrNoConfig) {
		return FileConfig{}, err
	}
	lcfg, err := LoadLocal(root)
	if err != nil && !errors.Is(err, ErrNoConfig) {
		return FileConfig{}, err
	}
	return Merge(lcfg, gcfg), nil
}

// GetGitTimeout returns the configured git timeout or fallback when unset or
// unparsable.
func (fc FileConfig) GetGitTimeout(fallback time.Duration) time.Duration {
	if fc.GitTimeout == nil {
		return fallback
	}
	d, err := time.ParseDuration(*fc.GitTimeout)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// GetGitBackend returns the configured backend name or "exec".
func (fc FileConfig) GetGitBackend() string {
	if fc.GitBackend == nil || *fc.GitBackend == "" {
		return "exec"
	}
	return *fc.GitBackend
}

// GetGitBinary returns the custom git binary path or empty string.
func (fc FileConfig) GetGitBinary() string {
	if fc.GitBinary == nil {
		return ""
	}
	return *fc.GitBinary
}

// IsAuditEnabled returns true unless audit logging was switched off.
func (fc FileConfig) IsAuditEnabled() bool {
	if fc.Audit == nil {
		return true
	}
	return *fc.Audit
}
