package actions

import (
	"fmt"
	"os"
	"strings"

	"github.com/dirsweep/dirsweep/internal/types"
)

// Recorder observes delete outcomes, e.g. to keep an audit trail.
type Recorder interface {
	RecordDelete(res types.DeleteResult)
}

// Deleter removes scan results from disk. Deletion is permanent.
type Deleter struct {
	Recorder Recorder
}

// Delete removes path: a directory with all of its contents, or a single
// regular file. It never returns a Go error; every failure is reported in the
// result so callers iterating over many paths can keep going.
func (d *Deleter) Delete(path string) types.DeleteResult {
	res := deletePath(path)
	if d != nil && d.Recorder != nil {
		d.Recorder.RecordDelete(res)
	}
	return res
}

// DeleteAll deletes every path and returns one result per input, in order.
func (d *Deleter) DeleteAll(paths []string) []types.DeleteResult {
	out := make([]types.DeleteResult, 0, len(paths))
	for _, p := range paths {
		out = append(out, d.Delete(p))
	}
	return out
}

// Delete removes path without recording it.
func Delete(path string) types.DeleteResult {
	return deletePath(path)
}

func deletePath(path string) (res types.DeleteResult) {
	res.Path = path
	defer func() {
		if r := recover(); r != nil {
			res.OK = false
			res.Error = fmt.Sprint(r)
		}
	}()
	if strings.TrimSpace(path) == "" {
		res.Error = ErrInvalidArgument.Error()
		return res
	}
	info, err := os.Stat(path)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	switch {
	case info.IsDir():
		err = os.RemoveAll(path)
	case info.Mode().IsRegular():
		err = os.Remove(path)
	default:
		res.Error = fmt.Sprintf("unsupported path type: %s", info.Mode().Type())
		return res
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.OK = true
	return res
}
