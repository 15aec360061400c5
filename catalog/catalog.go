// Package catalog maps chart identifiers to their source URL and expected
// payload digest. The catalog file is TOML:
//
//	[charts.US5WA50M]
//	title  = "Puget Sound - Seattle"
//	url    = "https://charts.noaa.gov/ENCs/US5WA50M.zip"
//	digest = "ab54d..."
//
// A Catalog satisfies the pipeline's DigestProvider and the fetch layer's
// SourceResolver, making it the single source of truth for where a chart
// lives and what its payload must hash to.
package catalog

import (
	"sort"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/navtool/chartload/errors"
)

// Entry describes one chart in the catalog.
type Entry struct {
	Title     string `toml:"title"`
	URL       string `toml:"url"`
	Digest    string `toml:"digest"`
	SizeBytes int64  `toml:"size_bytes"`
}

type catalogFile struct {
	Charts map[string]Entry `toml:"charts"`
}

// Catalog is an in-memory view of a catalog file. Safe for concurrent
// readers; Reload swaps the view atomically.
type Catalog struct {
	mu     sync.RWMutex
	path   string
	charts map[string]Entry
}

// Load reads a catalog from a TOML file.
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEntries builds a catalog directly from entries, bypassing the file.
// Used by tests and embedded callers.
func FromEntries(charts map[string]Entry) *Catalog {
	copied := make(map[string]Entry, len(charts))
	for id, e := range charts {
		copied[id] = e
	}
	return &Catalog{charts: copied}
}

// Reload re-reads the catalog file, replacing the in-memory view.
func (c *Catalog) Reload() error {
	if c.path == "" {
		return errors.New("catalog has no backing file")
	}

	var parsed catalogFile
	if _, err := toml.DecodeFile(c.path, &parsed); err != nil {
		return errors.Wrapf(err, "failed to read catalog %s", c.path)
	}
	if parsed.Charts == nil {
		parsed.Charts = make(map[string]Entry)
	}

	c.mu.Lock()
	c.charts = parsed.Charts
	c.mu.Unlock()
	return nil
}

// Get returns the entry for a chart id.
func (c *Catalog) Get(chartID string) (Entry, error) {
	c.mu.RLock()
	entry, ok := c.charts[chartID]
	c.mu.RUnlock()
	if !ok {
		return Entry{}, errors.NewChartNotFound(chartID)
	}
	return entry, nil
}

// ExpectedDigest implements pipeline.DigestProvider.
func (c *Catalog) ExpectedDigest(chartID string) (string, error) {
	entry, err := c.Get(chartID)
	if err != nil {
		return "", err
	}
	if entry.Digest == "" {
		return "", errors.Newf("catalog entry %s has no digest", chartID)
	}
	return entry.Digest, nil
}

// SourceURL implements fetch.SourceResolver.
func (c *Catalog) SourceURL(chartID string) (string, error) {
	entry, err := c.Get(chartID)
	if err != nil {
		return "", err
	}
	if entry.URL == "" {
		return "", errors.Newf("catalog entry %s has no url", chartID)
	}
	return entry.URL, nil
}

// IDs returns all chart ids in sorted order.
func (c *Catalog) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.charts))
	for id := range c.charts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of charts in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.charts)
}

// Path returns the backing file path, empty for in-memory catalogs.
func (c *Catalog) Path() string {
	return c.path
}
