package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/donaldgifford/pubcfg/internal/model"
)

// ErrNotFound is returned when a local configuration source does not exist.
var ErrNotFound = errors.New("configuration source not found")

// Reader returns the raw bytes of a configuration source.
type Reader interface {
	Read(ctx context.Context, path string) ([]byte, model.Source, error)
}

// ReaderOpts configures a FileReader.
type ReaderOpts struct {
	// Fetcher downloads remote sources. Nil disables remote sources.
	Fetcher Fetcher

	// Cache stores fetched sources. Nil fetches into a temp dir every time.
	Cache *Cache

	Logger *slog.Logger
}

// FileReader reads local files and, when configured, remote sources.
type FileReader struct {
	opts   ReaderOpts
	logger *slog.Logger
}

// NewReader returns a FileReader.
func NewReader(opts ReaderOpts) *FileReader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FileReader{opts: opts, logger: logger}
}

// Read returns the content at path along with where it came from.
func (r *FileReader) Read(ctx context.Context, path string) ([]byte, model.Source, error) {
	if IsRemote(path) {
		data, err := r.readRemote(ctx, path)

		return data, model.SourceRemoteConfigCenter, err
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, model.SourceLocalFile, fmt.Errorf("%w: %s", ErrNotFound, path)
		}

		return nil, model.SourceLocalFile, fmt.Errorf("reading config source %s: %w", path, err)
	}

	return data, model.SourceLocalFile, nil
}

func (r *FileReader) readRemote(ctx context.Context, src string) ([]byte, error) {
	if r.opts.Fetcher == nil {
		return nil, fmt.Errorf("remote config source %s: no fetcher configured", src)
	}

	fetch := func(dest string) error {
		return r.opts.Fetcher.FetchFile(ctx, src, dest)
	}

	var path string

	if r.opts.Cache != nil {
		p, err := r.opts.Cache.GetOrFetch(src, refOf(src), fetch)
		if err != nil {
			return nil, err
		}

		path = p
	} else {
		tmp, err := os.MkdirTemp("", "pubcfg-source-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp dir: %w", err)
		}

		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				r.logger.Warn("failed to remove temp dir", "path", tmp, "err", err)
			}
		}()

		path = filepath.Join(tmp, cacheContent)
		if err := fetch(path); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading fetched source %s: %w", src, err)
	}

	return data, nil
}
