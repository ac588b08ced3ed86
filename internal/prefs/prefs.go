// Package prefs persists the user's target names and file extensions between
// runs. The traversal core never reads these; callers pass them into each
// scan request.
package prefs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gofrs/flock"

	"github.com/dirsweep/dirsweep/internal/types"
)

// Key names a persisted list.
type Key string

const (
	KeyTargets    Key = "targets"
	KeyExtensions Key = "extensions"
)

// ErrUnknownKey is returned for list names other than targets or extensions.
var ErrUnknownKey = errors.New("unknown prefs key")

// Prefs holds the persisted lists.
type Prefs struct {
	Targets    []string `json:"targets"`
	Extensions []string `json:"extensions"`
}

// DefaultPrefs returns the built-in defaults.
func DefaultPrefs() Prefs {
	return Prefs{
		Targets:    slices.Clone(types.DefaultNames),
		Extensions: []string{},
	}
}

// ParseKey validates a list name.
func ParseKey(s string) (Key, error) {
	switch Key(strings.ToLower(strings.TrimSpace(s))) {
	case KeyTargets:
		return KeyTargets, nil
	case KeyExtensions:
		return KeyExtensions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// List returns the list stored under key.
func (p Prefs) List(key Key) []string {
	if key == KeyExtensions {
		return p.Extensions
	}
	return p.Targets
}

func (p *Prefs) set(key Key, v []string) {
	if key == KeyExtensions {
		p.Extensions = v
		return
	}
	p.Targets = v
}

// DefaultPath returns ~/.dirsweep/prefs.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dirsweep", "prefs.json"), nil
}

// Store reads and writes prefs at Path.
type Store struct {
	Path string
}

// Open returns a Store for the default location.
func Open() (*Store, error) {
	p, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return &Store{Path: p}, nil
}

// Load returns the stored prefs. A missing or corrupt file yields defaults;
// a missing or non-array key yields that key's default.
func (s *Store) Load() Prefs {
	def := DefaultPrefs()
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return def
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return def
	}
	out := def
	if v, ok := decodeList(raw[string(KeyTargets)]); ok {
		out.Targets = v
	}
	if v, ok := decodeList(raw[string(KeyExtensions)]); ok {
		out.Extensions = v
	}
	return out
}

func decodeList(m json.RawMessage) ([]string, bool) {
	if len(m) == 0 {
		return nil, false
	}
	var v []string
	if err := json.Unmarshal(m, &v); err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// Save writes prefs atomically while holding the lock file.
func (s *Store) Save(p Prefs) error {
	if p.Targets == nil {
		p.Targets = []string{}
	}
	if p.Extensions == nil {
		p.Extensions = []string{}
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return s.locked(func() error { return atomicWrite(s.Path, data) })
}

// Add appends values to the list under key, skipping blanks and duplicates.
// It returns the resulting list.
func (s *Store) Add(key Key, values ...string) ([]string, error) {
	return s.update(key, func(cur []string) []string {
		for _, v := range values {
			v = strings.TrimSpace(v)
			if v == "" || slices.Contains(cur, v) {
				continue
			}
			cur = append(cur, v)
		}
		return cur
	})
}

// Remove deletes values from the list under key.
func (s *Store) Remove(key Key, values ...string) ([]string, error) {
	return s.update(key, func(cur []string) []string {
		return slices.DeleteFunc(cur, func(v string) bool {
			return slices.Contains(values, v)
		})
	})
}

// Reset restores the list under key to its default.
func (s *Store) Reset(key Key) ([]string, error) {
	return s.update(key, func([]string) []string {
		return DefaultPrefs().List(key)
	})
}

func (s *Store) update(key Key, fn func([]string) []string) ([]string, error) {
	if key != KeyTargets && key != KeyExtensions {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	var out []string
	err := s.locked(func() error {
		p := s.Load()
		out = fn(slices.Clone(p.List(key)))
		if out == nil {
			out = []string{}
		}
		p.set(key, out)
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return err
		}
		return atomicWrite(s.Path, data)
	})
	return out, err
}

func (s *Store) locked(fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("failed to create prefs dir: %w", err)
	}
	fl := flock.New(s.Path + ".lock")
	if err := fl.Lock(); err != nil {
		return fmt.Errorf("failed to acquire lock on %s: %w", s.Path, err)
	}
	defer func() { _ = fl.Unlock() }()
	return fn()
}

// atomicWrite writes through a temp file in the same directory and renames it
// over path so readers never see a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	tmp = nil
	return nil
}
