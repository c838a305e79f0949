// Package config loads plugin, dependency and license configuration batches,
// validates them and converts them into strategy metadata.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/pubcfg/internal/convert"
	"github.com/donaldgifford/pubcfg/internal/depgraph"
	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/placeholder"
	"github.com/donaldgifford/pubcfg/internal/source"
)

var (
	// ErrSchemaMismatch is returned when a source does not decode into the
	// expected entry shape.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrEmptySource is returned when a source holds no entries.
	ErrEmptySource = errors.New("configuration source is empty")

	// ErrNotLoaded is returned by accessors before a successful load.
	ErrNotLoaded = errors.New("configuration not loaded")
)

// EntryError attaches the offending entry id to a conversion failure.
type EntryError struct {
	ID  string
	Err error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("entry %q: %v", e.ID, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// document is the on-disk shape. Only the key matching the loader's kind may
// be set.
type document struct {
	Plugins      []*model.Entry `yaml:"plugins"`
	Dependencies []*model.Entry `yaml:"dependencies"`
	Licenses     []*model.Entry `yaml:"licenses"`
}

func (d *document) entries(kind model.Kind) (own []*model.Entry, foreign string) {
	byKind := map[model.Kind][]*model.Entry{
		model.KindPlugin:     d.Plugins,
		model.KindDependency: d.Dependencies,
		model.KindLicense:    d.Licenses,
	}

	for _, k := range model.Kinds {
		if k != kind && byKind[k] != nil {
			foreign = k.Plural()
		}
	}

	return byKind[kind], foreign
}

// LoaderOpts configures a Loader.
type LoaderOpts struct {
	// Paths resolves the domain's file path. Required.
	Paths *PathResolver

	// Reader reads the resolved path. Defaults to a local-only reader.
	Reader source.Reader

	// Resolver substitutes placeholders. Defaults to the process environment.
	Resolver *placeholder.Resolver

	// Validator defaults to NewValidator().
	Validator *validator.Validate

	// Now is the clock used for LoadMetadata.LoadTime.
	Now func() time.Time

	Logger *slog.Logger
}

// Loader loads one domain. Load is not safe for concurrent use.
type Loader struct {
	kind      model.Kind
	paths     *PathResolver
	reader    source.Reader
	resolver  *placeholder.Resolver
	validate  *validator.Validate
	converter *convert.Converter
	now       func() time.Time
	logger    *slog.Logger

	meta     model.LoadMetadata
	entries  []*model.Entry
	metadata []*model.StrategyMetadata
}

// NewLoader returns a Loader for kind in the UNLOADED state.
func NewLoader(kind model.Kind, opts LoaderOpts) (*Loader, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("creating loader: unknown kind %q", kind)
	}

	if opts.Paths == nil {
		return nil, errors.New("creating loader: path resolver is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loader{
		kind:      kind,
		paths:     opts.Paths,
		reader:    opts.Reader,
		resolver:  opts.Resolver,
		validate:  opts.Validator,
		converter: convert.New(logger),
		now:       opts.Now,
		logger:    logger.With("kind", string(kind)),
		meta:      model.LoadMetadata{Kind: kind, Status: model.LoadUnloaded},
	}

	if l.reader == nil {
		l.reader = source.NewReader(source.ReaderOpts{Logger: logger})
	}

	if l.resolver == nil {
		l.resolver = placeholder.New(nil)
	}

	if l.validate == nil {
		v, err := NewValidator()
		if err != nil {
			return nil, err
		}

		l.validate = v
	}

	if l.now == nil {
		l.now = time.Now
	}

	return l, nil
}

// Kind returns the domain this loader serves.
func (l *Loader) Kind() model.Kind { return l.kind }

// LoadMetadata returns the outcome of the latest load.
func (l *Loader) LoadMetadata() model.LoadMetadata { return l.meta }

// Entries returns the loaded entries. It fails unless the latest load
// succeeded.
func (l *Loader) Entries() ([]*model.Entry, error) {
	if l.meta.Status != model.LoadSuccess {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotLoaded, l.kind, l.meta.Status)
	}

	return slices.Clone(l.entries), nil
}

// Metadata returns the converted metadata. It fails unless the latest load
// succeeded.
func (l *Loader) Metadata() ([]*model.StrategyMetadata, error) {
	if l.meta.Status != model.LoadSuccess {
		return nil, fmt.Errorf("%w: %s is %s", ErrNotLoaded, l.kind, l.meta.Status)
	}

	return slices.Clone(l.metadata), nil
}

// Load runs the pipeline: resolve path, read, decode, substitute
// placeholders, validate, check dependencies, convert. Any failure leaves
// the loader FAILED with no results.
func (l *Loader) Load(ctx context.Context) error {
	path := l.paths.Resolve(l.kind)

	l.entries, l.metadata = nil, nil
	l.meta = model.LoadMetadata{
		Kind:     l.kind,
		FilePath: path,
		LoadTime: l.now(),
		Status:   model.LoadLoading,
	}

	l.logger.Debug("loading configuration", "path", path)

	entries, metadata, err := l.load(ctx, path)
	if err != nil {
		l.meta.Status = model.LoadFailed
		l.meta.ErrorMessage = fmt.Sprintf("failed to load %s configuration from %s: %v", l.kind, path, err)

		return fmt.Errorf("loading %s configuration %s: %w", l.kind, path, err)
	}

	l.entries, l.metadata = entries, metadata
	l.meta.Status = model.LoadSuccess

	l.logger.Info("configuration loaded", "path", path, "entries", len(entries), "source", l.meta.Source)

	return nil
}

func (l *Loader) load(ctx context.Context, path string) ([]*model.Entry, []*model.StrategyMetadata, error) {
	data, src, err := l.reader.Read(ctx, path)
	l.meta.Source = src

	if err != nil {
		return nil, nil, err
	}

	entries, err := l.decode(data)
	if err != nil {
		return nil, nil, err
	}

	for i, e := range entries {
		if e == nil {
			continue
		}

		if err := e.ResolvePlaceholders(l.resolver); err != nil {
			return nil, nil, fmt.Errorf("resolving placeholders in %s[%d]: %w", l.kind.Plural(), i, err)
		}

		if e.DependencyInfo != nil {
			e.DependencyInfo.ApplyDefaults()
		}
	}

	if err := ValidateEntries(l.validate, l.kind, entries); err != nil {
		return nil, nil, err
	}

	if err := depgraph.Check(entries); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	metadata := make([]*model.StrategyMetadata, 0, len(entries))

	for _, e := range entries {
		m, err := l.converter.Convert(e)
		if err != nil {
			return nil, nil, &EntryError{ID: e.ID, Err: err}
		}

		metadata = append(metadata, m)
	}

	return entries, metadata, nil
}

// decode strictly parses data. Unknown keys, wrong types and entries under
// another domain's key are schema mismatches.
func (l *Loader) decode(data []byte) ([]*model.Entry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptySource
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptySource
		}

		return nil, fmt.Errorf("%w: %s", ErrSchemaMismatch, strings.TrimPrefix(err.Error(), "yaml: "))
	}

	entries, foreign := doc.entries(l.kind)
	if foreign != "" {
		return nil, fmt.Errorf("%w: %q is not allowed in %s configuration", ErrSchemaMismatch, foreign, l.kind)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no %s declared", ErrEmptySource, l.kind.Plural())
	}

	for _, e := range entries {
		if e == nil {
			continue
		}

		e.Kind = l.kind
	}

	return entries, nil
}
