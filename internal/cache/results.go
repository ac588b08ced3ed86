// Package cache keeps the last scan output for each distinct scan request so
// the browser can reopen a result list without walking the tree again.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/dirsweep/dirsweep/internal/engine"
	"github.com/dirsweep/dirsweep/internal/types"
)

// ErrMiss is returned when no snapshot exists for a request.
var ErrMiss = errors.New("no cached results")

// ScanResults stores the output and metadata from a scan.
type ScanResults struct {
	Request   types.ScanRequest `json:"request"`
	Output    types.ScanOutput  `json:"output"`
	Stats     types.ScanStats   `json:"stats"`
	Timestamp time.Time         `json:"timestamp"`
}

// Store persists snapshots as <Dir>/<fingerprint>.json.
type Store struct {
	Dir string
}

// DefaultDir returns ~/.dirsweep/cache.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dirsweep", "cache"), nil
}

// Open returns a Store rooted at DefaultDir.
func Open() (*Store, error) {
	d, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return &Store{Dir: d}, nil
}

// Fingerprint hashes the canonical form of req. List order and extension
// spelling do not change the result; an empty mode counts as dirs.
func Fingerprint(req types.ScanRequest) string {
	mode := req.Mode
	if mode == "" {
		mode = types.ModeDirs
	}
	var b strings.Builder
	b.WriteString(filepath.Clean(req.Root))
	b.WriteByte(0)
	b.WriteString(string(mode))
	for _, list := range [][]string{
		sorted(req.Targets),
		sorted(engine.NormalizeExtensions(req.Extensions)),
		sorted(req.Excludes),
		sorted(req.ExcludeGlobs),
	} {
		b.WriteByte(0)
		b.WriteString(strings.Join(list, "\x1f"))
	}
	return fastHash([]byte(b.String()))
}

func sorted(in []string) []string {
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

func fastHash(b []byte) string {
	sum := xxhash.Sum64(b)
	var buf [16]byte
	const hex = "0123456789abcdef"
	for i := 15; i >= 0; i-- {
		buf[i] = hex[sum&0xF]
		sum >>= 4
	}
	return string(buf[:])
}

func (s *Store) path(req types.ScanRequest) string {
	return filepath.Join(s.Dir, Fingerprint(req)+".json")
}

// Save records out as the latest result for req.
func (s *Store) Save(req types.ScanRequest, out types.ScanOutput, stats types.ScanStats) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return err
	}
	if out.Results == nil {
		out.Results = []string{}
	}
	res := ScanResults{Request: req, Output: out, Stats: stats, Timestamp: time.Now()}
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(req), b, 0o600)
}

// Load returns the latest snapshot for req, or ErrMiss.
func (s *Store) Load(req types.ScanRequest) (ScanResults, error) {
	var res ScanResults
	f, err := os.ReadFile(s.path(req))
	if errors.Is(err, os.ErrNotExist) {
		return res, ErrMiss
	}
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(f, &res); err != nil {
		return res, fmt.Errorf("corrupt cache entry: %w", err)
	}
	return res, nil
}

// Clear removes every snapshot.
func (s *Store) Clear() error {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
