// pkg/series/catalog.go - series catalog backed by remote, cached and embedded tiers.
//
// The table is loaded lazily on first use. A remote copy is fetched only when
// the local cache is missing or older than MaxAge; if that fails the cache is
// used, and if the cache is unusable the embedded table is written in its
// place.

package series

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sdporres/wdssupermenu/pkg/download"
	"github.com/sdporres/wdssupermenu/pkg/logging"
)

// DefaultMaxAge is how long a cached table is trusted before a refresh.
const DefaultMaxAge = 24 * time.Hour

// Source identifies the tier a table was loaded from.
type Source int

const (
	SourceNone Source = iota
	SourceRemote
	SourceCache
	SourceEmbedded
)

func (s Source) String() string {
	switch s {
	case SourceRemote:
		return "remote"
	case SourceCache:
		return "cache"
	case SourceEmbedded:
		return "embedded"
	default:
		return "none"
	}
}

// Options configure a Catalog.
type Options struct {
	// URL of the remote series document. Empty disables the remote tier.
	URL       string
	CachePath string
	MaxAge    time.Duration
	Download  download.Options
	// Now returns the current time; nil uses time.Now.
	Now func() time.Time
}

// Catalog is the process-wide series table. It is safe for concurrent use.
type Catalog struct {
	opts Options

	mu     sync.Mutex
	table  Table
	source Source
}

// NewCatalog returns a catalog that loads on first use.
func NewCatalog(opts Options) *Catalog {
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Catalog{opts: opts}
}

// Definitions returns a copy of the current table, loading it if necessary.
func (c *Catalog) Definitions(ctx context.Context) Table {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		c.table, c.source = c.load(ctx)
	}
	return c.table.Clone()
}

// ClassifyFolder returns the series whose titles match folderName.
func (c *Catalog) ClassifyFolder(ctx context.Context, folderName string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.table == nil {
		c.table, c.source = c.load(ctx)
	}
	return c.table.Classify(folderName)
}

// Source reports which tier produced the current table.
func (c *Catalog) Source() Source {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.source
}

// Reload loads the table again and swaps it in. With forceRemote the cache is
// discarded first so the remote tier is consulted.
func (c *Catalog) Reload(ctx context.Context, forceRemote bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if forceRemote && c.opts.CachePath != "" {
		if err := os.Remove(c.opts.CachePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing series cache: %w", err)
		}
		logging.Info("Series cache cleared", "path", c.opts.CachePath)
	}

	table, source := c.load(ctx)
	c.table, c.source = table, source
	return nil
}

func (c *Catalog) load(ctx context.Context) (Table, Source) {
	if c.cacheStale() {
		table, err := c.fetchRemote(ctx)
		if err == nil {
			c.writeCache(table)
			logging.Info("Loaded series from remote", "url", c.opts.URL, "series", len(table))
			return table, SourceRemote
		}
		logging.Warn("Remote series unavailable", "url", c.opts.URL, "error", err)
	}

	table, err := c.readCache()
	if err == nil {
		logging.Info("Loaded series from cache", "path", c.opts.CachePath, "series", len(table))
		return table, SourceCache
	}
	logging.Warn("Series cache unusable", "path", c.opts.CachePath, "error", err)

	table = DefaultTable()
	c.writeCache(table)
	logging.Info("Using embedded series table", "series", len(table))
	return table, SourceEmbedded
}

func (c *Catalog) cacheStale() bool {
	if c.opts.CachePath == "" {
		return true
	}
	info, err := os.Stat(c.opts.CachePath)
	if err != nil {
		return true
	}
	return c.opts.Now().Sub(info.ModTime()) > c.opts.MaxAge
}

func (c *Catalog) fetchRemote(ctx context.Context) (Table, error) {
	if c.opts.URL == "" {
		return nil, errors.New("no remote series URL configured")
	}
	body, err := download.Fetch(ctx, c.opts.URL, c.opts.Download)
	if err != nil {
		return nil, err
	}
	return Decode(body)
}

func (c *Catalog) readCache() (Table, error) {
	if c.opts.CachePath == "" {
		return nil, errors.New("no cache path configured")
	}
	data, err := os.ReadFile(c.opts.CachePath)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (c *Catalog) writeCache(t Table) {
	if c.opts.CachePath == "" {
		return
	}
	if err := WriteFile(c.opts.CachePath, t); err != nil {
		logging.Warn("Failed to write series cache", "path", c.opts.CachePath, "error", err)
	}
}

// WriteFile stores the table at path, replacing any previous file whole.
func WriteFile(path string, t Table) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".series-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing cache file: %w", err)
	}
	return nil
}
