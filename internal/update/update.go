// Package update finds out whether a newer dirsweep release exists and can
// replace the running binary with it. Lookups are remembered for a day.
package update

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	semver3 "github.com/blang/semver"
	semver "github.com/blang/semver/v4"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Repo is the GitHub owner/name releases are published under.
const Repo = "dirsweep/dirsweep"

const (
	checkInterval = 24 * time.Hour
	lookupTimeout = 2 * time.Second
)

// LatestFunc reports the newest published version, or "" when there is none.
type LatestFunc func() (string, error)

// Checker compares the running version against the newest release and keeps
// the last answer in StatePath.
type Checker struct {
	StatePath string
	Latest    LatestFunc
	Timeout   time.Duration
	Now       func() time.Time
}

type state struct {
	CheckedAt time.Time `json:"checked_at"`
	Latest    string    `json:"latest"`
}

// DefaultStatePath returns ~/.dirsweep/update.json.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dirsweep", "update.json"), nil
}

// NewChecker returns a Checker backed by GitHub releases.
func NewChecker() *Checker {
	p, _ := DefaultStatePath()
	return &Checker{StatePath: p, Latest: DetectLatest}
}

// DetectLatest asks GitHub for the newest release of Repo.
func DetectLatest() (string, error) {
	rel, found, err := selfupdate.DetectLatest(Repo)
	if err != nil || !found {
		return "", err
	}
	return rel.Version.String(), nil
}

// Check returns the newest known version and whether it is newer than
// current. A remembered answer younger than a day is reused.
func (c *Checker) Check(current string) (string, bool, error) {
	st := c.load()
	now := c.now()
	if st.Latest == "" || now.Sub(st.CheckedAt) > checkInterval {
		v, err := c.lookup()
		if err != nil {
			return st.Latest, IsNewer(st.Latest, current), err
		}
		st = state{CheckedAt: now, Latest: trimV(v)}
		c.save(st)
	}
	return st.Latest, IsNewer(st.Latest, current), nil
}

func (c *Checker) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// lookup bounds Latest so a slow network never stalls the command that
// asked.
func (c *Checker) lookup() (string, error) {
	if c.Latest == nil {
		return "", errors.New("no release source")
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = lookupTimeout
	}
	type answer struct {
		v   string
		err error
	}
	ch := make(chan answer, 1)
	go func() {
		v, err := c.Latest()
		ch <- answer{v, err}
	}()
	select {
	case a := <-ch:
		return a.v, a.err
	case <-time.After(timeout):
		return "", fmt.Errorf("release lookup timed out after %s", timeout)
	}
}

func (c *Checker) load() state {
	var st state
	if c.StatePath == "" {
		return st
	}
	b, err := os.ReadFile(c.StatePath)
	if err != nil {
		return st
	}
	if json.Unmarshal(b, &st) != nil {
		return state{}
	}
	return st
}

func (c *Checker) save(st state) {
	if c.StatePath == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.StatePath), 0o700); err != nil {
		return
	}
	b, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = os.WriteFile(c.StatePath, b, 0o600)
}

// Check is the CLI entry point. It never looks anything up in CI or when
// noNetwork is set.
func Check(current string, noNetwork bool) (string, bool, error) {
	if os.Getenv("CI") != "" || noNetwork {
		return "", false, nil
	}
	return NewChecker().Check(current)
}

// IsNewer reports whether latest is a higher version than current. Versions
// that do not parse never count as newer.
func IsNewer(latest, current string) bool {
	lv, err := semver.ParseTolerant(latest)
	if err != nil {
		return false
	}
	cv, err := semver.ParseTolerant(current)
	if err != nil {
		return false
	}
	return lv.GT(cv)
}

// SelfUpdate replaces the running binary with the newest release and returns
// its version. An unparsable current version updates unconditionally.
func SelfUpdate(current string) (string, error) {
	cv, err := semver3.ParseTolerant(current)
	if err != nil {
		cv = semver3.MustParse("0.0.0")
	}
	rel, err := selfupdate.UpdateSelf(cv, Repo)
	if err != nil {
		return "", err
	}
	return rel.Version.String(), nil
}

func trimV(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}
