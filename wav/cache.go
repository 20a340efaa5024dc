package wav

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Cache is a load-through registry of decoded clips keyed by path.
// Each path is decoded once; later lookups share the clip. Failures
// stick too: a path that failed to load keeps returning its error
// without touching the disk again, until Forget.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	clip *Clip
	err  error
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]entry)}
}

// Load returns the clip for the path, decoding it on first use.
func (c *Cache) Load(path string) (*Clip, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[path]; ok {
		return e.clip, e.err
	}
	clip, err := Load(path)
	c.entries[path] = entry{clip: clip, err: err}
	return clip, err
}

// Forget drops the entry for the path, forcing a reload on next use.
func (c *Cache) Forget(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// String lists the cached paths with their outcome, one per line.
func (c *Cache) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	paths := make([]string, 0, len(c.entries))
	for path := range c.entries {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var b strings.Builder
	for _, path := range paths {
		e := c.entries[path]
		if e.err != nil {
			fmt.Fprintf(&b, "%s: %v\n", path, e.err)
			continue
		}
		fmt.Fprintf(&b, "%s: %d frames at %d Hz\n", path, len(e.clip.Frames()), e.clip.Rate())
	}
	return b.String()
}
