// Package strategy holds the executable units that apply configuration to a
// manifest, the built-in set, and the registry that resolves metadata to
// strategies.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/donaldgifford/pubcfg/internal/invoker"
	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
)

var (
	// ErrSkip is returned by Apply when a strategy opts out of the current
	// run. It is a control signal, not a failure.
	ErrSkip = errors.New("skip execution")

	// ErrCritical matches every CriticalError.
	ErrCritical = errors.New("critical configuration error")

	// ErrIncomplete is returned when metadata lacks the payload a strategy
	// needs.
	ErrIncomplete = errors.New("incomplete strategy metadata")
)

// CriticalError aborts the whole chain.
type CriticalError struct {
	Strategy string
	Reason   string
}

func (e *CriticalError) Error() string {
	return fmt.Sprintf("critical configuration error in %s: %s", e.Strategy, e.Reason)
}

// Is reports whether target is ErrCritical.
func (e *CriticalError) Is(target error) bool { return target == ErrCritical }

// Critical returns a CriticalError for strategy.
func Critical(strategy, format string, args ...any) error {
	return &CriticalError{Strategy: strategy, Reason: fmt.Sprintf(format, args...)}
}

// GoalInvoker runs a plugin goal after the plugin is added.
type GoalInvoker interface {
	Invoke(ctx context.Context, g invoker.Goal) error
}

// DefaultWaitUntil is the central publishing waitUntil used when none is set.
const DefaultWaitUntil = "published"

// Settings is the per-run context strategies read from.
type Settings struct {
	GPGKeyname         string
	GPGPassphrase      string
	PublishingServerID string
	AutoPublish        bool
	WaitUntil          string `validate:"omitempty,wait_until"`

	// Properties are passed to invoked goals as -D flags.
	Properties map[string]string

	// Licenses holds the declared license names and types, used by plugin
	// compatibility checks.
	Licenses []string

	// PomFile is passed to invoked goals.
	PomFile string

	// Invoker runs plugin goals. Nil disables invocation.
	Invoker GoalInvoker `validate:"-"`
}

// EffectiveWaitUntil returns WaitUntil or its default.
func (s *Settings) EffectiveWaitUntil() string {
	if strings.TrimSpace(s.WaitUntil) == "" {
		return DefaultWaitUntil
	}

	return strings.ToLower(s.WaitUntil)
}

// Strategy applies one configuration entry to a manifest.
type Strategy interface {
	// Type is the registry key.
	Type() string
	// Name identifies the strategy in events and logs.
	Name() string
	Kind() model.Kind
	Order() int

	Enabled(s *Settings) bool
	Required(s *Settings) bool

	// Check verifies preconditions. A failure is a CriticalError.
	Check(s *Settings) error

	// Exists reports whether m already declares this strategy's entry.
	Exists(m manifest.Manifest) bool

	Apply(ctx context.Context, m manifest.Manifest, s *Settings) error
}

// Binder is implemented by strategies that take their parameters from
// metadata. Bind returns a new strategy and leaves the receiver untouched.
type Binder interface {
	Bind(meta *model.StrategyMetadata) (Strategy, error)
}

// base carries the attributes every strategy shares.
type base struct {
	typ      string
	name     string
	kind     model.Kind
	order    int
	enabled  bool
	required bool
}

func (b *base) Type() string            { return b.typ }
func (b *base) Name() string            { return b.name }
func (b *base) Kind() model.Kind        { return b.kind }
func (b *base) Order() int              { return b.order }
func (b *base) Enabled(*Settings) bool  { return b.enabled }
func (b *base) Required(*Settings) bool { return b.required }

// bindBase takes name, order and the enabled flag from metadata. Required is
// sticky: metadata can add it but not remove it.
func (b *base) bindBase(m *model.StrategyMetadata) {
	info := m.BaseStrategyInfo()

	b.name = m.ID()
	b.order = info.Order
	b.enabled = m.IsExecutable()
	b.required = b.required || info.Required
}

// orDefault returns v unless it is blank.
func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}

	return v
}
