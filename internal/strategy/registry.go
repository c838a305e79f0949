package strategy

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/donaldgifford/pubcfg/internal/model"
)

var (
	// ErrDuplicateRegistration is returned when a type key is registered
	// twice.
	ErrDuplicateRegistration = errors.New("duplicate strategy registration")

	// ErrNotFound is returned when no strategy is registered for a type.
	ErrNotFound = errors.New("strategy not found")

	// ErrSealed is returned by Register after Seal.
	ErrSealed = errors.New("strategy registry is sealed")
)

// Constructor builds a strategy for dynamic registration.
type Constructor func() (Strategy, error)

// Registry maps type keys to strategies. It is safe for concurrent use;
// writes are expected only during initialization.
type Registry struct {
	mu     sync.RWMutex
	byType map[string]Strategy
	order  []string
	sealed bool
	logger *slog.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		byType: make(map[string]Strategy),
		logger: logger,
	}
}

// Register adds s under its Type.
func (r *Registry) Register(s Strategy) error {
	if s == nil {
		return errors.New("registering strategy: nil strategy")
	}

	typ := s.Type()
	if typ == "" {
		return errors.New("registering strategy: empty type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("%w: cannot register %q", ErrSealed, typ)
	}

	if _, ok := r.byType[typ]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateRegistration, typ)
	}

	r.byType[typ] = s
	r.order = append(r.order, typ)

	r.logger.Debug("registered strategy", "type", typ, "kind", s.Kind())

	return nil
}

// RegisterBuiltins registers every built-in strategy.
func (r *Registry) RegisterBuiltins() error {
	for _, s := range Builtins() {
		if err := r.Register(s); err != nil {
			return err
		}
	}

	return nil
}

// Discover builds and registers each constructor's strategy, stopping at
// the first failure.
func (r *Registry) Discover(ctors ...Constructor) error {
	for i, ctor := range ctors {
		if ctor == nil {
			return fmt.Errorf("discovering strategy %d: nil constructor", i)
		}

		s, err := ctor()
		if err != nil {
			return fmt.Errorf("discovering strategy %d: %w", i, err)
		}

		if err := r.Register(s); err != nil {
			return err
		}
	}

	return nil
}

// Seal rejects any further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sealed = true
}

// Get returns the strategy registered under typ.
func (r *Registry) Get(typ string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byType[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, typ)
	}

	return s, nil
}

// All returns every registered strategy in registration order.
func (r *Registry) All() []Strategy {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Strategy, 0, len(r.order))
	for _, typ := range r.order {
		out = append(out, r.byType[typ])
	}

	return out
}

// Types returns the registered type keys in registration order.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}

// Resolve returns a strategy for meta. The metadata id is looked up first,
// then its strategy type. The match must be of the same kind; a Binder is
// bound to meta.
func (r *Registry) Resolve(meta *model.StrategyMetadata) (Strategy, error) {
	if meta == nil {
		return nil, errors.New("resolving strategy: nil metadata")
	}

	var s Strategy

	for _, key := range []string{meta.ID(), meta.StrategyType()} {
		if found, err := r.Get(key); err == nil && found.Kind() == meta.Kind() {
			s = found

			break
		}
	}

	if s == nil {
		return nil, fmt.Errorf("%w: no %s strategy for %q", ErrNotFound, meta.Kind(), meta.ID())
	}

	b, ok := s.(Binder)
	if !ok {
		return s, nil
	}

	bound, err := b.Bind(meta)
	if err != nil {
		return nil, fmt.Errorf("resolving strategy %q: %w", meta.ID(), err)
	}

	return bound, nil
}
