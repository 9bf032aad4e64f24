// Package registry provides the process-wide directory of live histograms,
// keyed by path and name.
package registry

import (
	"sort"
	"sync"

	"github.com/j-veylop/histkit/internal/histogram"
	"github.com/j-veylop/histkit/internal/logger"
)

// Default is the directory used by the command-line tool.
var Default = New()

// Directory maps (path, name) to histograms. It implements
// histogram.Registry and is safe for concurrent use.
type Directory struct {
	mu      sync.RWMutex
	entries map[string]histogram.Histogram
}

// New creates an empty directory.
func New() *Directory {
	return &Directory{
		entries: make(map[string]histogram.Histogram),
	}
}

// Register adds h. A histogram already registered under the same key is
// replaced.
func (d *Directory) Register(h histogram.Histogram) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := h.Key()
	if prev, ok := d.entries[key]; ok && prev != h {
		logger.Warn("replacing registered histogram", "key", key)
	}
	d.entries[key] = h
}

// Unregister removes h if it is still the histogram registered under its key.
func (d *Directory) Unregister(h histogram.Histogram) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := h.Key()
	if cur, ok := d.entries[key]; ok && cur == h {
		delete(d.entries, key)
	}
}

// Lookup returns the histogram registered under path and name.
func (d *Directory) Lookup(path, name string) (histogram.Histogram, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	h, ok := d.entries[histogram.JoinKey(path, name)]
	return h, ok
}

// List returns the registered histograms ordered by key.
func (d *Directory) List() []histogram.Histogram {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]histogram.Histogram, 0, len(d.entries))
	for _, h := range d.entries {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key() < out[j].Key()
	})
	return out
}

// Len returns the number of registered histograms.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

