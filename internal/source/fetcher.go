// Package source reads configuration sources from the local filesystem or
// from remote locations understood by go-getter.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	getter "github.com/hashicorp/go-getter/v2"
)

// Fetcher downloads single configuration files.
type Fetcher interface {
	FetchFile(ctx context.Context, src, dest string) error
}

// GetterFetcher fetches files with go-getter (git, http, s3 and friends).
type GetterFetcher struct {
	client *getter.Client
	pwd    string
	logger *slog.Logger
}

// NewGetterFetcher returns a GetterFetcher. pwd anchors relative sources.
func NewGetterFetcher(pwd string, logger *slog.Logger) *GetterFetcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &GetterFetcher{
		client: &getter.Client{DisableSymlinks: true},
		pwd:    pwd,
		logger: logger,
	}
}

// FetchFile downloads src to the file dest.
func (f *GetterFetcher) FetchFile(ctx context.Context, src, dest string) error {
	f.logger.Debug("fetching config source", "src", src, "dest", dest)

	req := &getter.Request{
		Src:             src,
		Dst:             dest,
		Pwd:             f.pwd,
		GetMode:         getter.ModeFile,
		DisableSymlinks: true,
	}

	if _, err := f.client.Get(ctx, req); err != nil {
		return fmt.Errorf("fetching config source %s: %w", src, err)
	}

	return nil
}

var remotePrefixes = []string{"github.com/", "gitlab.com/", "bitbucket.org/"}

// IsRemote reports whether path names a remote source: a URL with a scheme,
// a forced getter ("git::...") or a well-known VCS host shorthand.
func IsRemote(path string) bool {
	if strings.Contains(path, "://") || strings.Contains(path, "::") {
		return true
	}

	for _, p := range remotePrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// refOf returns the ref query parameter of a go-getter source, if any.
func refOf(src string) string {
	_, query, ok := strings.Cut(src, "?")
	if !ok {
		return ""
	}

	for kv := range strings.SplitSeq(query, "&") {
		if v, found := strings.CutPrefix(kv, "ref="); found {
			return v
		}
	}

	return ""
}
