package audit

import (
	"errors"
	"os"
	"strings"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dirsweep/dirsweep/internal/types"
)

func newLog(t *testing.T) *AuditLog {
	t.Helper()
	return NewAuditLog(filepath.Join(t.TempDir(), ".dirsweep", "audit.jsonl"), nil)
}

func TestLoadHistory_Missing(t *testing.T) {
	_, err := newLog(t).LoadHistory()
	assert.Error(t, err)
}

func TestLogScanAndDelete_NewestFirst(t *testing.T) {
	a := newLog(t)
	req := types.ScanRequest{Root: "/r", Targets: []string{"dist"}}
	require.NoError(t, a.LogScan(req, types.ScanOutput{Count: 2}, types.ScanStats{DirsVisited: 5, Unreadable: 1}, 1500*time.Millisecond))
	a.RecordDelete(types.DeleteResult{Path: "/r/dist", OK: true})

	recs, err := a.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, KindDelete, recs[0].Kind)
	assert.Equal(t, "/r/dist", recs[0].Path)
	assert.True(t, recs[0].OK)

	scan := recs[1]
	assert.Equal(t, KindScan, scan.Kind)
	assert.Equal(t, types.ModeDirs, scan.Mode)
	assert.Equal(t, []string{"dist"}, scan.Targets)
	assert.Equal(t, 2, scan.Count)
	assert.Equal(t, 1, scan.Unreadable)
	assert.Equal(t, "1.5s", scan.Duration)

	for _, r := range recs {
		_, err := uuid.Parse(r.ID)
		assert.NoError(t, err)
		assert.False(t, r.Timestamp.IsZero())
	}
	assert.NotEqual(t, recs[0].ID, recs[1].ID)

	info, err := os.Stat(a.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestCreateScanRecord_FilesMode(t *testing.T) {
	rec := CreateScanRecord(types.ScanRequest{Root: "/r", Mode: types.ModeFiles, Extensions: []string{".zip"}, Targets: []string{"x"}},
		types.ScanOutput{Count: 1}, types.ScanStats{}, time.Second)
	assert.Equal(t, []string{".zip"}, rec.Extensions)
	assert.Nil(t, rec.Targets)
}

func TestRecordDelete_WriteFailureSwallowed(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	a := NewAuditLog(filepath.Join(blocker, "audit.jsonl"), nil)
	assert.NotPanics(t, func() { a.RecordDelete(types.DeleteResult{Path: "/x"}) })
}

func TestConcurrentAppend(t *testing.T) {
	a := newLog(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			a.RecordDelete(types.DeleteResult{Path: "/p", OK: true})
		}()
	}
	wg.Wait()
	recs, err := a.LoadHistory()
	require.NoError(t, err)
	assert.Len(t, recs, 20)
}

func TestPrune(t *testing.T) {
	a := newLog(t)
	for _, p := range []string{"/1", "/2", "/3"} {
		a.RecordDelete(types.DeleteResult{Path: p, OK: true})
	}
	require.NoError(t, a.Prune(2))
	recs, err := a.LoadHistory()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "/3", recs[0].Path)
	assert.Equal(t, "/2", recs[1].Path)

	assert.Error(t, a.Prune(-1))
}

func TestLoadHistory_SkipsTornLine(t *testing.T) {
	a := newLog(t)
	for _, p := range []string{"/old1", "/old2"} {
		a.RecordDelete(types.DeleteResult{Path: p, OK: true})
	}
	f, err := os.OpenFile(a.Path(), os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString(`{"id":"x","kind":"del` + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	for _, p := range []string{"/new1", "/new2", "/new3"} {
		a.RecordDelete(types.DeleteResult{Path: p, OK: true})
	}

	recs, err := a.LoadHistory()
	require.NoError(t, err)
	var paths []string
	for _, r := range recs {
		paths = append(paths, r.Path)
	}
	assert.Equal(t, []string{"/new3", "/new2", "/new1", "/old2", "/old1"}, paths)

	before, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	err = a.Prune(1)
	assert.True(t, errors.Is(err, ErrCorrupt))
	after, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestRecordDelete_FailureKeepsOKField(t *testing.T) {
	a := newLog(t)
	a.RecordDelete(types.DeleteResult{Path: "/x", OK: false, Error: "denied"})
	data, err := os.ReadFile(a.Path())
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.Contains(t, line, `"ok":false`)
	assert.Contains(t, line, `"error":"denied"`)
}
