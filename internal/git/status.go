package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/dirsweep/dirsweep/internal/types"
)

// StatusProber is anything that can classify a repository directory.
type StatusProber interface {
	Status(ctx context.Context, dir string) types.RepoStatus
}

// Prober classifies a directory as clean or dirty and names its remote host.
type Prober struct {
	Runner Runner
}

// NewProber returns a Prober backed by runner, or by the git binary when
// runner is nil.
func NewProber(runner Runner) *Prober {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Prober{Runner: runner}
}

// Status probes dir. Any failure, including a failure of only one of the two
// queries, yields a single {ok:false, error} result.
func (p *Prober) Status(ctx context.Context, dir string) types.RepoStatus {
	abs, err := validateRoot(dir)
	if err != nil {
		return failed(err)
	}
	out, err := p.Runner.RunStatus(ctx, abs)
	if err != nil {
		return failed(err)
	}
	remotes, err := p.Runner.ListRemotes(ctx, abs)
	if err != nil {
		return failed(err)
	}
	urls := ParseFetchURLs(remotes)
	st := types.RepoStatus{
		OK:        true,
		Dirty:     strings.TrimSpace(out) != "",
		HasRemote: len(urls) > 0,
	}
	if st.HasRemote {
		st.RemoteHost = ClassifyHost(urls[0])
	}
	return st
}

func failed(err error) types.RepoStatus {
	return types.RepoStatus{OK: false, Error: err.Error()}
}

// ParseFetchURLs extracts the unique fetch URLs from `git remote -v` output in
// the order they appear.
func ParseFetchURLs(out string) []string {
	seen := map[string]bool{}
	var urls []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		if len(fields) >= 3 && fields[2] != "(fetch)" {
			continue
		}
		u := fields[1]
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// ClassifyHost maps a remote URL onto a known provider by substring.
func ClassifyHost(url string) types.RemoteHost {
	u := strings.ToLower(url)
	switch {
	case strings.Contains(u, "github"):
		return types.HostGitHub
	case strings.Contains(u, "gitlab"):
		return types.HostGitLab
	case strings.Contains(u, "bitbucket"):
		return types.HostBitbucket
	case strings.Contains(u, "dev.azure.com"), strings.Contains(u, "visualstudio.com"), strings.Contains(u, "azure"):
		return types.HostAzure
	default:
		return types.HostRemote
	}
}

// RunnerFor returns the runner for a backend name: "exec" (default) or "gogit".
func RunnerFor(backend string, opts ExecRunner) (Runner, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "exec", "git":
		return opts, nil
	case "gogit", "go-git":
		return GoGitRunner{}, nil
	default:
		return nil, fmt.Errorf("unknown git backend %q (want exec|gogit)", backend)
	}
}
