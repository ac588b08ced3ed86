package engine

import (
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"
	"github.com/dirsweep/dirsweep/internal/types"
)

// nameSet builds a lookup set from names, falling back to the default
// names when none are given. Names are compared exactly (case-sensitive).
func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	if len(set) == 0 {
		for _, n := range types.DefaultNames {
			set[n] = true
		}
	}
	return set
}

// NormalizeExtensions trims, lower-cases and dot-prefixes extensions, drops
// empty ones and removes duplicates while keeping first-seen order.
func NormalizeExtensions(exts []string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	return out
}

// matchExtension reports whether name ends with one of the normalized
// extensions, ignoring case.
func matchExtension(name string, exts []string) bool {
	lower := strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func parseGlobsList(globs []string) []string {
	var out []string
	for _, g := range globs {
		for _, p := range strings.Split(g, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				out = append(out, p)
				if t := trimGlobPrefix(p); t != p {
					out = append(out, t)
				}
			}
		}
	}
	return out
}

func matchAnyGlob(pathToMatch string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, pathToMatch); ok {
			return true
		}
		if ok, _ := doublestar.Match(g, filepath.Base(pathToMatch)); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}

// ValidateGlobs returns the first malformed pattern, if any.
func ValidateGlobs(globs []string) error {
	for _, g := range parseGlobsList(globs) {
		if !doublestar.ValidatePattern(g) {
			return &GlobError{Pattern: g}
		}
	}
	return nil
}

// GlobError reports a malformed exclude pattern.
type GlobError struct {
	Pattern string
}

func (e *GlobError) Error() string {
	return "invalid exclude glob: " + e.Pattern
}
