package actions

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/dirsweep/dirsweep/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	name string
	args []string
	err  error
}

func (f *fakeLauncher) Start(name string, args ...string) error {
	f.name = name
	f.args = args
	return f.err
}

type memRecorder struct {
	mu      sync.Mutex
	results []types.DeleteResult
}

func (m *memRecorder) RecordDelete(res types.DeleteResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

func TestReveal_EmptyPath(t *testing.T) {
	l := &fakeLauncher{}
	r := &Revealer{Launcher: l, GOOS: "linux"}
	ok, err := r.Reveal("")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.Empty(t, l.name, "launcher must not run for empty path")
}

func TestReveal_PlatformCommands(t *testing.T) {
	tests := []struct {
		goos string
		name string
		args []string
	}{
		{goos: "darwin", name: "open", args: []string{"-R", "/tmp/x/node_modules"}},
		{goos: "windows", name: "explorer", args: []string{"/select,/tmp/x/node_modules"}},
		{goos: "linux", name: "xdg-open", args: []string{filepath.Dir("/tmp/x/node_modules")}},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l := &fakeLauncher{}
			ok, err := (&Revealer{Launcher: l, GOOS: tt.goos}).Reveal("/tmp/x/node_modules")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tt.name, l.name)
			assert.Equal(t, tt.args, l.args)
		})
	}
}

func TestReveal_LauncherFailureIsNotObserved(t *testing.T) {
	l := &fakeLauncher{err: os.ErrNotExist}
	ok, err := (&Revealer{Launcher: l, GOOS: "linux"}).Reveal("/somewhere")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDelete_Directory(t *testing.T) {
	parent := t.TempDir()
	target := filepath.Join(parent, "node_modules")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "a", "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "a", "b", "x.js"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "keep.txt"), []byte("k"), 0o644))

	res := Delete(target)
	assert.True(t, res.OK, res.Error)
	assert.Empty(t, res.Error)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"keep.txt"}, names)
}

func TestDelete_SingleFileLeavesSiblings(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"a.zip", "b.zip", "c.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte(n), 0o644))
	}
	res := Delete(filepath.Join(dir, "a.zip"))
	require.True(t, res.OK, res.Error)
	_, err := os.Stat(filepath.Join(dir, "a.zip"))
	assert.True(t, os.IsNotExist(err))
	for _, n := range []string{"b.zip", "c.txt"} {
		_, err := os.Stat(filepath.Join(dir, n))
		assert.NoError(t, err, n)
	}
}

func TestDelete_MissingPath(t *testing.T) {
	res := Delete(filepath.Join(t.TempDir(), "gone"))
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
}

func TestDelete_EmptyPath(t *testing.T) {
	res := Delete("")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
}

func TestDelete_DanglingSymlinkIsRejected(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}
	dir := t.TempDir()
	link := filepath.Join(dir, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(dir, "nowhere"), link))
	res := Delete(link)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)
	_, err := os.Lstat(link)
	assert.NoError(t, err, "link must be left in place")
}

func TestDelete_UnsupportedType(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("no named pipes via mkfifo on windows")
	}
	dir := t.TempDir()
	fifo := filepath.Join(dir, "pipe")
	if err := mkfifo(fifo); err != nil {
		t.Skipf("mkfifo unavailable: %v", err)
	}
	res := Delete(fifo)
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "unsupported path type")
}

func TestDeleteAll_ContinuesAfterFailure(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	c := filepath.Join(dir, "c")
	require.NoError(t, os.MkdirAll(a, 0o755))
	require.NoError(t, os.WriteFile(c, []byte("c"), 0o644))

	rec := &memRecorder{}
	d := &Deleter{Recorder: rec}
	results := d.DeleteAll([]string{a, filepath.Join(dir, "missing"), c})
	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.True(t, results[2].OK)
	assert.Len(t, rec.results, 3)
}

func TestDelete_ConcurrentDistinctPaths(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 8; i++ {
		p := filepath.Join(dir, "d"+string(rune('a'+i)), "build")
		require.NoError(t, os.MkdirAll(p, 0o755))
		paths = append(paths, p)
	}
	var wg sync.WaitGroup
	results := make([]types.DeleteResult, len(paths))
	for i, p := range paths {
		wg.Add(1)
		go func(i int, p string) {
			defer wg.Done()
			results[i] = Delete(p)
		}(i, p)
	}
	wg.Wait()
	for _, r := range results {
		assert.True(t, r.OK, r.Error)
	}
}
