// Package orchestration runs an ordered chain of strategies against a target
// manifest and reports each transition to observers.
package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/strategy"
)

// Outcome is the result of one step.
type Outcome string

// Step outcomes.
const (
	OutcomeApplied Outcome = "applied"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// State is the state of a run.
type State string

// Run states.
const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Skip reasons.
const (
	ReasonDisabled = "disabled"
	ReasonExists   = "already declared in manifest"
)

// Step records what happened to one strategy.
type Step struct {
	Strategy string     `json:"strategy"`
	Type     string     `json:"type"`
	Kind     model.Kind `json:"kind"`
	Order    int        `json:"order"`
	Outcome  Outcome    `json:"outcome"`
	Reason   string     `json:"reason,omitempty"`
}

// Result holds the outcome of a run. Steps after an abort are absent.
type Result struct {
	RunID string `json:"run_id"`
	State State  `json:"state"`
	Steps []Step `json:"steps"`
	// Failed names the strategy that aborted the run.
	Failed string `json:"failed,omitempty"`
}

// Applied returns the names of applied strategies.
func (r *Result) Applied() []string { return r.names(OutcomeApplied) }

// Skipped returns the names of skipped strategies.
func (r *Result) Skipped() []string { return r.names(OutcomeSkipped) }

func (r *Result) names(o Outcome) []string {
	var out []string

	for _, s := range r.Steps {
		if s.Outcome == o {
			out = append(out, s.Strategy)
		}
	}

	return out
}

// Opts configures a Chain.
type Opts struct {
	// Bus receives events. Nil creates a private bus.
	Bus *EventBus
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
}

// Chain is an ordered list of strategies. It is safe to run repeatedly but
// not concurrently against the same manifest.
type Chain struct {
	steps  []strategy.Strategy
	bus    *EventBus
	now    func() time.Time
	logger *slog.Logger
}

// NewChain sorts steps by ascending Order, keeping input order on ties.
func NewChain(steps []strategy.Strategy, opts Opts) *Chain {
	sorted := slices.Clone(steps)
	slices.SortStableFunc(sorted, func(a, b strategy.Strategy) int {
		return a.Order() - b.Order()
	})

	c := &Chain{
		steps:  sorted,
		bus:    opts.Bus,
		now:    opts.Now,
		logger: opts.Logger,
	}

	if c.bus == nil {
		c.bus = NewEventBus()
	}

	if c.now == nil {
		c.now = time.Now
	}

	if c.logger == nil {
		c.logger = slog.Default()
	}

	return c
}

// Strategies returns the chain in execution order.
func (c *Chain) Strategies() []strategy.Strategy {
	return slices.Clone(c.steps)
}

// Bus returns the chain's event bus.
func (c *Chain) Bus() *EventBus { return c.bus }

// Run applies each strategy to m in order. A disabled strategy is skipped
// unless it is required. A strategy whose entry m already declares is
// skipped, as is one whose Apply returns strategy.ErrSkip. Any other error
// aborts the run; the returned Result is non-nil either way.
func (c *Chain) Run(ctx context.Context, m manifest.Manifest, s *strategy.Settings) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), State: StatePending}

	if s == nil {
		s = &strategy.Settings{}
	}

	if err := ctx.Err(); err != nil {
		res.State = StateFailed
		c.publish(res, Event{Type: EventFailed, Err: err})

		return res, fmt.Errorf("starting chain: %w", err)
	}

	res.State = StateRunning
	c.logger.Debug("running chain", "run", res.RunID, "strategies", len(c.steps))

	for i, st := range c.steps {
		step := Step{Strategy: st.Name(), Type: st.Type(), Kind: st.Kind(), Order: st.Order()}
		ev := Event{Strategy: st.Name(), Kind: st.Kind(), Index: i}

		c.publish(res, with(ev, EventStart, "", nil))

		reason, err := c.step(ctx, st, m, s)

		switch {
		case err != nil:
			step.Outcome = OutcomeFailed
			step.Reason = err.Error()
			res.Steps = append(res.Steps, step)
			res.State = StateFailed
			res.Failed = st.Name()

			c.publish(res, with(ev, EventFailure, "", err))
			c.publish(res, Event{Type: EventFailed, Reason: st.Name(), Err: err})

			return res, fmt.Errorf("applying strategy %s: %w", st.Name(), err)
		case reason != "":
			step.Outcome = OutcomeSkipped
			step.Reason = reason

			c.publish(res, with(ev, EventSkip, reason, nil))
		default:
			step.Outcome = OutcomeApplied

			c.publish(res, with(ev, EventSuccess, "", nil))
		}

		res.Steps = append(res.Steps, step)
	}

	res.State = StateCompleted
	c.publish(res, Event{Type: EventCompleted})

	return res, nil
}

// step returns a skip reason, or an error that aborts the run.
func (c *Chain) step(ctx context.Context, st strategy.Strategy, m manifest.Manifest, s *strategy.Settings) (string, error) {
	if !st.Enabled(s) {
		if st.Required(s) {
			return "", strategy.Critical(st.Name(), "strategy is required but disabled")
		}

		return ReasonDisabled, nil
	}

	if err := st.Check(s); err != nil {
		return "", err
	}

	if st.Exists(m) {
		return ReasonExists, nil
	}

	if err := st.Apply(ctx, m, s); err != nil {
		if errors.Is(err, strategy.ErrSkip) {
			return err.Error(), nil
		}

		return "", err
	}

	return "", nil
}

func with(e Event, t EventType, reason string, err error) Event {
	e.Type, e.Reason, e.Err = t, reason, err

	return e
}

func (c *Chain) publish(res *Result, e Event) {
	e.RunID = res.RunID
	e.Time = c.now()
	c.bus.Publish(e)
}
