package git

import (
	"context"
	"fmt"
	"sort"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// GoGitRunner answers the probe queries in-process with go-git, for hosts
// without a git binary.
type GoGitRunner struct{}

func (GoGitRunner) open(dir string) (*gogit.Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", dir, err)
	}
	return repo, nil
}

func (g GoGitRunner) RunStatus(ctx context.Context, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	repo, err := g.open(dir)
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree %s: %w", dir, err)
	}
	st, err := wt.Status()
	if err != nil {
		return "", fmt.Errorf("status %s: %w", dir, err)
	}
	if st.IsClean() {
		return "", nil
	}
	return st.String(), nil
}

// ListRemotes renders remotes the way `git remote -v` prints them, sorted by
// remote name.
func (g GoGitRunner) ListRemotes(ctx context.Context, dir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	repo, err := g.open(dir)
	if err != nil {
		return "", err
	}
	remotes, err := repo.Remotes()
	if err != nil {
		return "", fmt.Errorf("remotes %s: %w", dir, err)
	}
	sort.Slice(remotes, func(i, j int) bool {
		return remotes[i].Config().Name < remotes[j].Config().Name
	})
	var b strings.Builder
	for _, r := range remotes {
		cfg := r.Config()
		for _, u := range cfg.URLs {
			fmt.Fprintf(&b, "%s\t%s (fetch)\n", cfg.Name, u)
			fmt.Fprintf(&b, "%s\t%s (push)\n", cfg.Name, u)
		}
	}
	return b.String(), nil
}
