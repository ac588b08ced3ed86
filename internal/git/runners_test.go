package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/dirsweep/dirsweep/internal/types"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initCommittedRepo creates a repository with one committed file using go-git,
// so it works without a git binary.
func initCommittedRepo(t *testing.T) (string, *gogit.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	_, err = wt.Commit("init", &gogit.CommitOptions{
		Author: &object.Signature{Name: "tester", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo
}

func TestGoGitRunner_Probe(t *testing.T) {
	dir, repo := initCommittedRepo(t)
	p := NewProber(GoGitRunner{})

	st := p.Status(context.Background(), dir)
	assert.Equal(t, types.RepoStatus{OK: true}, st)

	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://bitbucket.org/acme/app.git"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("changed"), 0o644))

	st = p.Status(context.Background(), dir)
	assert.Equal(t, types.RepoStatus{OK: true, Dirty: true, HasRemote: true, RemoteHost: types.HostBitbucket}, st)
}

func TestGoGitRunner_NotARepository(t *testing.T) {
	st := NewProber(GoGitRunner{}).Status(context.Background(), t.TempDir())
	assert.False(t, st.OK)
	assert.NotEmpty(t, st.Error)
}

func TestGoGitRunner_ListRemotesFormat(t *testing.T) {
	dir, repo := initCommittedRepo(t)
	_, err := repo.CreateRemote(&config.RemoteConfig{Name: "upstream", URLs: []string{"https://gitlab.com/u/x.git"}})
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://github.com/o/x.git"}})
	require.NoError(t, err)

	out, err := GoGitRunner{}.ListRemotes(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://github.com/o/x.git", "https://gitlab.com/u/x.git"}, ParseFetchURLs(out))
}

func TestExecRunner_Probe(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir, _ := initCommittedRepo(t)
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, string(out))
		}
	}
	run("remote", "add", "origin", "https://dev.azure.com/org/proj/_git/repo")

	p := NewProber(ExecRunner{Timeout: 5 * time.Second})
	st := p.Status(context.Background(), dir)
	assert.Equal(t, types.RepoStatus{OK: true, HasRemote: true, RemoteHost: types.HostAzure}, st)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("x"), 0o644))
	st = p.Status(context.Background(), dir)
	assert.True(t, st.Dirty)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	p := NewProber(ExecRunner{Binary: filepath.Join(t.TempDir(), "no-such-git")})
	st := p.Status(context.Background(), t.TempDir())
	assert.False(t, st.OK)
	assert.NotEmpty(t, st.Error)
}
