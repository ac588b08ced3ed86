package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "dirsweep.yaml", "mode: files\nextensions: [zip, .rar]\nexcludes:\n  - vendor\ngit_timeout: 5s\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Mode == nil || *cfg.Mode != "files" {
		t.Fatalf("expected mode=files, got %#v", cfg.Mode)
	}
	if len(cfg.Extensions) != 2 || cfg.Extensions[1] != ".rar" {
		t.Fatalf("unexpected extensions %#v", cfg.Extensions)
	}
	if len(cfg.Excludes) != 1 || cfg.Excludes[0] != "vendor" {
		t.Fatalf("unexpected excludes %#v", cfg.Excludes)
	}
	if got := cfg.GetGitTimeout(time.Second); got != 5*time.Second {
		t.Fatalf("expected git timeout 5s, got %v", got)
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "bad.yml", "targets: [unterminated\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "dirsweep.yaml", "targets: [a]\n")
	writeTemp(t, dir, ".dirsweep.yaml", "targets: [b]\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0] != "b" {
		t.Fatalf("expected targets=[b] from .dirsweep.yaml, got %#v", cfg.Targets)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	if _, err := LoadLocal(t.TempDir()); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, filepath.Join("dirsweep", "config.yml"), "targets: [target, .venv]\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if len(cfg.Targets) != 2 || cfg.Targets[1] != ".venv" {
		t.Fatalf("expected global targets, got %#v", cfg.Targets)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); !errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected ErrNoConfig, got %v", err)
	}
}

func TestLoad_LocalOverridesGlobal(t *testing.T) {
	xdg := t.TempDir()
	writeTemp(t, xdg, filepath.Join("dirsweep", "config.yml"), "targets: [global]\nno_color: true\ngit_backend: gogit\n")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	root := t.TempDir()
	writeTemp(t, root, ".dirsweep.yml", "targets: [local]\naudit: false\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Targets) != 1 || cfg.Targets[0] != "local" {
		t.Fatalf("expected local targets to win, got %#v", cfg.Targets)
	}
	if cfg.NoColor == nil || !*cfg.NoColor {
		t.Fatal("expected no_color inherited from global")
	}
	if cfg.GetGitBackend() != "gogit" {
		t.Fatalf("expected gogit backend, got %q", cfg.GetGitBackend())
	}
	if cfg.IsAuditEnabled() {
		t.Fatal("expected audit disabled by local config")
	}
}

func TestLoad_NoFiles(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("missing config files should not fail: %v", err)
	}
	if cfg.Targets != nil || cfg.Mode != nil {
		t.Fatalf("expected empty config, got %#v", cfg)
	}
}

func TestLoad_MalformedIsAnError(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	root := t.TempDir()
	writeTemp(t, root, "dirsweep.yml", "targets: [unterminated\n")
	if _, err := Load(root); err == nil || errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected parse error from local config, got %v", err)
	}

	writeTemp(t, xdg, filepath.Join("dirsweep", "config.yml"), "mode: [\n")
	if _, err := Load(t.TempDir()); err == nil || errors.Is(err, ErrNoConfig) {
		t.Fatalf("expected parse error from global config, got %v", err)
	}
}

func TestDefaults(t *testing.T) {
	var fc FileConfig
	if fc.GetGitBackend() != "exec" {
		t.Fatalf("default backend should be exec")
	}
	if !fc.IsAuditEnabled() {
		t.Fatalf("audit should default to enabled")
	}
	bad := "soon"
	fc.GitTimeout = &bad
	if fc.GetGitTimeout(3*time.Second) != 3*time.Second {
		t.Fatalf("unparsable timeout should fall back")
	}
}
