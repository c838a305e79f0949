// Package engine wires configuration loading, strategy resolution and the
// orchestration chain into one explicitly constructed context.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/donaldgifford/pubcfg/internal/config"
	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/orchestration"
	"github.com/donaldgifford/pubcfg/internal/placeholder"
	"github.com/donaldgifford/pubcfg/internal/source"
	"github.com/donaldgifford/pubcfg/internal/strategy"
)

// ErrNotLoaded is returned by Plan and Run before a successful Load.
var ErrNotLoaded = errors.New("configuration not loaded")

// LoadOrder is the order domains are loaded in. Licenses come first so that
// plugin compatibility checks can see them.
var LoadOrder = []model.Kind{model.KindLicense, model.KindDependency, model.KindPlugin}

// Opts configures an Engine.
type Opts struct {
	// ConfigDir holds the domain configuration files. Defaults to ".".
	ConfigDir string
	// PathsFile overrides the path-override properties file.
	PathsFile string
	// DiscoveryFile lists externally declared strategies.
	DiscoveryFile string
	// Kinds limits the domains loaded. Defaults to LoadOrder.
	Kinds []model.Kind

	// Builtins adds every registered strategy that no configuration entry
	// resolved to, with its default parameters.
	Builtins bool

	Settings strategy.Settings

	// Remote enables fetching configuration from remote sources.
	Remote bool
	// CacheDir caches remote sources. Empty disables caching.
	CacheDir string

	// Lookup resolves placeholders. Defaults to the process environment.
	Lookup placeholder.LookupFunc

	Observers []orchestration.Observer
	Logger    *slog.Logger
}

// Engine is created once per invocation and passed to callers. Load, Plan
// and Run must not be called concurrently.
type Engine struct {
	opts     Opts
	settings strategy.Settings
	registry *strategy.Registry
	loaders  []*config.Loader
	bus      *orchestration.EventBus
	logger   *slog.Logger
	loaded   bool
}

// New validates opts and builds the registry and loaders.
func New(opts Opts) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if opts.ConfigDir == "" {
		opts.ConfigDir = "."
	}

	if len(opts.Kinds) == 0 {
		opts.Kinds = LoadOrder
	}

	v, err := config.NewValidator()
	if err != nil {
		return nil, err
	}

	if err := validateSettings(v, &opts.Settings); err != nil {
		return nil, err
	}

	paths, err := config.NewPathResolver(opts.ConfigDir, opts.PathsFile)
	if err != nil {
		return nil, err
	}

	registry, err := newRegistry(opts.DiscoveryFile, logger)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:     opts,
		settings: opts.Settings,
		registry: registry,
		bus:      orchestration.NewEventBus(),
		logger:   logger,
	}

	e.bus.Add(orchestration.NewLogObserver(logger))

	for _, o := range opts.Observers {
		e.bus.Add(o)
	}

	reader := source.NewReader(readerOpts(opts, logger))
	resolver := placeholder.New(opts.Lookup)

	for _, kind := range ordered(opts.Kinds) {
		l, err := config.NewLoader(kind, config.LoaderOpts{
			Paths:     paths,
			Reader:    reader,
			Resolver:  resolver,
			Validator: v,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}

		e.loaders = append(e.loaders, l)
	}

	return e, nil
}

func validateSettings(v *validator.Validate, s *strategy.Settings) error {
	if err := v.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			if fe.Tag() == "wait_until" {
				return fmt.Errorf("%w: settings: %s %q must be one of %s", config.ErrValidation,
					fe.Field(), fe.Value(), strings.Join(model.WaitUntilValues, ", "))
			}

			return fmt.Errorf("%w: settings: %s failed %s", config.ErrValidation, fe.Field(), fe.Tag())
		}

		return fmt.Errorf("validating settings: %w", err)
	}

	return nil
}

func newRegistry(discovery string, logger *slog.Logger) (*strategy.Registry, error) {
	r := strategy.NewRegistry(logger)

	if err := r.RegisterBuiltins(); err != nil {
		return nil, err
	}

	if discovery != "" {
		ctors, err := strategy.LoadDiscovery(discovery)
		if err != nil {
			return nil, err
		}

		if err := r.Discover(ctors...); err != nil {
			return nil, err
		}
	}

	r.Seal()

	return r, nil
}

func readerOpts(opts Opts, logger *slog.Logger) source.ReaderOpts {
	ro := source.ReaderOpts{Logger: logger}

	if opts.Remote {
		ro.Fetcher = source.NewGetterFetcher(opts.ConfigDir, logger)

		if opts.CacheDir != "" {
			ro.Cache = source.NewCache(opts.CacheDir, logger)
		}
	}

	return ro
}

// ordered returns kinds sorted by LoadOrder without duplicates.
func ordered(kinds []model.Kind) []model.Kind {
	out := make([]model.Kind, 0, len(kinds))

	for _, k := range LoadOrder {
		if slices.Contains(kinds, k) {
			out = append(out, k)
		}
	}

	return out
}

// Registry returns the sealed strategy registry.
func (e *Engine) Registry() *strategy.Registry { return e.registry }

// Bus returns the event bus chains publish to.
func (e *Engine) Bus() *orchestration.EventBus { return e.bus }

// Settings returns the run settings, including licenses collected by Load.
func (e *Engine) Settings() strategy.Settings { return e.settings }

// Load loads each domain in order and stops at the first failure. Licenses
// declared by the license domain are added to the settings.
func (e *Engine) Load(ctx context.Context) error {
	e.loaded = false
	e.settings.Licenses = slices.Clone(e.opts.Settings.Licenses)

	for _, l := range e.loaders {
		if err := l.Load(ctx); err != nil {
			return err
		}

		if l.Kind() != model.KindLicense {
			continue
		}

		metas, err := l.Metadata()
		if err != nil {
			return err
		}

		for _, m := range metas {
			if info, ok := m.License(); ok && info.Name != "" {
				e.settings.Licenses = append(e.settings.Licenses, info.Name)
			}

			if m.LicenseType() != "" {
				e.settings.Licenses = append(e.settings.Licenses, m.LicenseType())
			}
		}
	}

	e.loaded = true

	return nil
}

// LoadMetadata returns the load record of every domain loader.
func (e *Engine) LoadMetadata() []model.LoadMetadata {
	out := make([]model.LoadMetadata, 0, len(e.loaders))
	for _, l := range e.loaders {
		out = append(out, l.LoadMetadata())
	}

	return out
}

// Plan resolves the loaded metadata to strategies and returns the chain.
func (e *Engine) Plan() (*orchestration.Chain, error) {
	if !e.loaded {
		return nil, ErrNotLoaded
	}

	var steps []strategy.Strategy

	covered := make(map[string]bool)

	for _, l := range e.loaders {
		metas, err := l.Metadata()
		if err != nil {
			return nil, err
		}

		for _, m := range metas {
			s, err := e.registry.Resolve(m)
			if err != nil {
				return nil, &config.EntryError{ID: m.ID(), Err: err}
			}

			covered[s.Type()] = true
			steps = append(steps, s)
		}
	}

	if e.opts.Builtins {
		for _, s := range e.registry.All() {
			if covered[s.Type()] || isGeneric(s.Type()) || !slices.Contains(e.opts.Kinds, s.Kind()) {
				continue
			}

			e.logger.Debug("adding unconfigured strategy", "type", s.Type())
			steps = append(steps, s)
		}
	}

	return orchestration.NewChain(steps, orchestration.Opts{Bus: e.bus, Logger: e.logger}), nil
}

func isGeneric(typ string) bool {
	return typ == strategy.TypePlugin || typ == strategy.TypeDependency || typ == strategy.TypeLicense
}

// Run plans and runs the chain against m.
func (e *Engine) Run(ctx context.Context, m manifest.Manifest) (*orchestration.Result, error) {
	chain, err := e.Plan()
	if err != nil {
		return nil, err
	}

	s := e.settings

	return chain.Run(ctx, m, &s)
}
