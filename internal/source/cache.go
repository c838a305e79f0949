package source

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	cacheMetaFile = ".pubcfg-cache-meta"
	cacheContent  = "content"
	sourcesDir    = "sources"
)

type cacheMeta struct {
	URL       string    `yaml:"url"`
	Ref       string    `yaml:"ref"`
	FetchedAt time.Time `yaml:"fetched_at"`
}

// Cache keeps fetched remote sources on disk, one directory per source.
type Cache struct {
	baseDir string
	logger  *slog.Logger
}

// NewCache creates a Cache rooted at baseDir.
func NewCache(baseDir string, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	return &Cache{baseDir: baseDir, logger: logger}
}

// DefaultCacheDir returns the default cache directory, respecting XDG_CACHE_HOME.
func DefaultCacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pubcfg")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", "pubcfg")
	}

	return filepath.Join(home, ".cache", "pubcfg")
}

// GetOrFetch returns the path of the cached file for url. The cache is
// refreshed when missing or when it was fetched for another ref.
func (c *Cache) GetOrFetch(url, ref string, fetchFn func(dest string) error) (string, error) {
	dir := c.dir(url)
	metaPath := filepath.Join(dir, cacheMetaFile)
	content := filepath.Join(dir, cacheContent)

	if meta, err := readCacheMeta(metaPath); err == nil && meta.Ref == ref {
		if _, err := os.Stat(content); err == nil {
			c.logger.Debug("cache hit", "url", url, "ref", ref)

			return content, nil
		}
	}

	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("removing stale cache %s: %w", dir, err)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating cache directory %s: %w", dir, err)
	}

	if err := fetchFn(content); err != nil {
		if removeErr := os.RemoveAll(dir); removeErr != nil {
			c.logger.Warn("failed to clean up cache on fetch failure", "err", removeErr)
		}

		return "", fmt.Errorf("fetching %s: %w", url, err)
	}

	meta := &cacheMeta{URL: url, Ref: ref, FetchedAt: time.Now().UTC()}
	if err := writeCacheMeta(metaPath, meta); err != nil {
		return "", fmt.Errorf("writing cache metadata: %w", err)
	}

	return content, nil
}

func (c *Cache) dir(url string) string {
	hash := sha256.Sum256([]byte(url))

	return filepath.Join(c.baseDir, sourcesDir, hex.EncodeToString(hash[:8]))
}

func readCacheMeta(path string) (*cacheMeta, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var meta cacheMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func writeCacheMeta(path string, meta *cacheMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}
