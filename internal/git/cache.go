package git

import (
	"context"
	"path/filepath"

	"github.com/dirsweep/dirsweep/internal/types"
	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedProber memoizes probe results for a bounded number of directories.
type CachedProber struct {
	prober StatusProber
	cache  *lru.Cache[string, types.RepoStatus]
}

// NewCachedProber wraps prober with an LRU of the given size.
func NewCachedProber(prober StatusProber, size int) (*CachedProber, error) {
	if size <= 0 {
		size = 128
	}
	c, err := lru.New[string, types.RepoStatus](size)
	if err != nil {
		return nil, err
	}
	return &CachedProber{prober: prober, cache: c}, nil
}

func (c *CachedProber) Status(ctx context.Context, dir string) types.RepoStatus {
	key := filepath.Clean(dir)
	if st, ok := c.cache.Get(key); ok {
		return st
	}
	st := c.prober.Status(ctx, dir)
	c.cache.Add(key, st)
	return st
}

// Forget drops the memoized result for dir.
func (c *CachedProber) Forget(dir string) {
	c.cache.Remove(filepath.Clean(dir))
}

// Purge drops every memoized result.
func (c *CachedProber) Purge() {
	c.cache.Purge()
}
