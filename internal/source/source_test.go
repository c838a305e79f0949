package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/source"
)

type fakeFetcher struct {
	content []byte
	calls   int
	err     error
}

func (f *fakeFetcher) FetchFile(_ context.Context, _, dest string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}

	return os.WriteFile(dest, f.content, 0o600)
}

func TestIsRemote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{path: "plugin-config.yaml", want: false},
		{path: "/etc/pubcfg/plugin-config.yaml", want: false},
		{path: "https://config.example.com/plugin-config.yaml", want: true},
		{path: "git::https://example.com/cfg.git//plugin-config.yaml", want: true},
		{path: "github.com/acme/publish-config//plugin-config.yaml?ref=v1", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, source.IsRemote(tt.path))
		})
	}
}

func TestReader_Local(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "license-config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("licenses: []\n"), 0o644))

	data, src, err := source.NewReader(source.ReaderOpts{}).Read(t.Context(), path)
	require.NoError(t, err)
	assert.Equal(t, model.SourceLocalFile, src)
	assert.Equal(t, "licenses: []\n", string(data))
}

func TestReader_LocalMissing(t *testing.T) {
	t.Parallel()

	_, _, err := source.NewReader(source.ReaderOpts{}).Read(t.Context(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, source.ErrNotFound)
}

func TestReader_RemoteCached(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{content: []byte("plugins: []\n")}
	r := source.NewReader(source.ReaderOpts{
		Fetcher: f,
		Cache:   source.NewCache(t.TempDir(), nil),
	})

	const src = "https://config.example.com/plugin-config.yaml?ref=v1"

	data, kind, err := r.Read(t.Context(), src)
	require.NoError(t, err)
	assert.Equal(t, model.SourceRemoteConfigCenter, kind)
	assert.Equal(t, "plugins: []\n", string(data))

	_, _, err = r.Read(t.Context(), src)
	require.NoError(t, err)
	assert.Equal(t, 1, f.calls, "second read should hit the cache")
}

func TestReader_RemoteUncached(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{content: []byte("x")}
	r := source.NewReader(source.ReaderOpts{Fetcher: f})

	for range 2 {
		_, _, err := r.Read(t.Context(), "https://example.com/a.yaml")
		require.NoError(t, err)
	}

	assert.Equal(t, 2, f.calls)
}

func TestReader_RemoteWithoutFetcher(t *testing.T) {
	t.Parallel()

	_, src, err := source.NewReader(source.ReaderOpts{}).Read(t.Context(), "https://example.com/a.yaml")
	require.Error(t, err)
	assert.Equal(t, model.SourceRemoteConfigCenter, src)
}

func TestCache_RefChangeRefetches(t *testing.T) {
	t.Parallel()

	cache := source.NewCache(t.TempDir(), nil)

	count := 0
	fetch := func(dest string) error {
		count++

		return os.WriteFile(dest, []byte("v"), 0o600)
	}

	_, err := cache.GetOrFetch("github.com/acme/cfg", "v1", fetch)
	require.NoError(t, err)
	_, err = cache.GetOrFetch("github.com/acme/cfg", "v1", fetch)
	require.NoError(t, err)
	_, err = cache.GetOrFetch("github.com/acme/cfg", "v2", fetch)
	require.NoError(t, err)

	assert.Equal(t, 2, count)
}

func TestCache_FetchFailureCleansUp(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cache := source.NewCache(base, nil)

	_, err := cache.GetOrFetch("github.com/acme/cfg", "", func(string) error {
		return errors.New("boom")
	})
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(base, "sources"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewGetterFetcher(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, source.NewGetterFetcher("", nil))
}
