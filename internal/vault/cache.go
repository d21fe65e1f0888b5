package vault

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nao1215/vaultlinks/internal/document"
	"github.com/nao1215/vaultlinks/internal/model"
)

// DefaultCacheSize is the number of documents kept by MetadataCache.
const DefaultCacheSize = 4096

// cachedLinks is the parsed link list of one document version.
type cachedLinks struct {
	modTime time.Time
	size    int64
	targets []string
}

// MetadataCache serves parsed outgoing links of vault documents. Entries
// are reused while modification time and size of the file are unchanged.
// It is safe for concurrent use.
type MetadataCache struct {
	vault  *Vault
	cache  *lru.Cache[string, cachedLinks]
	logger *slog.Logger
}

// CacheOption configures a MetadataCache.
type CacheOption func(*MetadataCache)

// WithCacheLogger sets a custom logger.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *MetadataCache) {
		c.logger = logger
	}
}

// NewMetadataCache creates a cache for v holding up to size documents.
// A non-positive size selects DefaultCacheSize.
func NewMetadataCache(v *Vault, size int, opts ...CacheOption) (*MetadataCache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, cachedLinks](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create link cache: %w", err)
	}

	c := &MetadataCache{vault: v, cache: cache}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c, nil
}

// Links returns the outgoing targets of f. An unreadable file is a miss.
func (c *MetadataCache) Links(_ context.Context, f model.File) ([]string, bool, error) {
	path := c.vault.Abs(f.Path)

	info, err := os.Stat(path)
	if err != nil {
		c.logger.Debug("cannot stat document", "path", f.Path, "error", err)
		return nil, false, nil
	}

	if entry, ok := c.cache.Get(f.Path); ok && entry.size == info.Size() && entry.modTime.Equal(info.ModTime()) {
		return slices.Clone(entry.targets), true, nil
	}

	content, err := os.ReadFile(path) //nolint:gosec // path is inside the vault
	if err != nil {
		c.logger.Debug("cannot read document", "path", f.Path, "error", err)
		return nil, false, nil
	}

	// generated link tables are output, not links of the document
	targets := ParseLinks(document.StripRegions(content))
	c.cache.Add(f.Path, cachedLinks{
		modTime: info.ModTime(),
		size:    info.Size(),
		targets: targets,
	})

	return slices.Clone(targets), true, nil
}

// Len returns the number of cached documents.
func (c *MetadataCache) Len() int {
	return c.cache.Len()
}
