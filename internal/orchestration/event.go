package orchestration

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/donaldgifford/pubcfg/internal/model"
)

// EventType classifies chain events.
type EventType string

// Per-strategy and per-run event types.
const (
	EventStart     EventType = "start"
	EventSkip      EventType = "skip"
	EventSuccess   EventType = "success"
	EventFailure   EventType = "failure"
	EventCompleted EventType = "completed"
	EventFailed    EventType = "failed"
)

// IsTerminal reports whether t ends a run.
func (t EventType) IsTerminal() bool {
	return t == EventCompleted || t == EventFailed
}

// Event is published for every strategy transition and once at the end of
// a run. Strategy is empty for run-level events.
type Event struct {
	RunID    string
	Type     EventType
	Strategy string
	Kind     model.Kind
	Index    int
	Time     time.Time
	Reason   string
	Err      error
}

// Observer receives chain events. Observers run synchronously on the chain's
// goroutine and must not block.
type Observer interface {
	OnEvent(e Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(e Event)

// OnEvent calls f(e).
func (f ObserverFunc) OnEvent(e Event) { f(e) }

type subscriber struct {
	id  uint64
	obs Observer
}

// EventBus fans events out to observers in registration order. Add and
// remove may be called concurrently with Publish; a publish sees the
// observer list as of its start.
type EventBus struct {
	mu   sync.Mutex
	next uint64
	subs atomic.Pointer[[]subscriber]
}

// NewEventBus returns an empty bus.
func NewEventBus() *EventBus {
	b := &EventBus{}
	b.subs.Store(&[]subscriber{})

	return b
}

// Add registers o and returns a function that removes it.
func (b *EventBus) Add(o Observer) (remove func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	id := b.next

	cur := *b.subs.Load()
	updated := make([]subscriber, len(cur), len(cur)+1)
	copy(updated, cur)
	updated = append(updated, subscriber{id: id, obs: o})
	b.subs.Store(&updated)

	var once sync.Once

	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *EventBus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cur := *b.subs.Load()
	updated := make([]subscriber, 0, len(cur))

	for _, s := range cur {
		if s.id != id {
			updated = append(updated, s)
		}
	}

	b.subs.Store(&updated)
}

// Len returns the number of registered observers.
func (b *EventBus) Len() int {
	return len(*b.subs.Load())
}

// Publish delivers e to every observer.
func (b *EventBus) Publish(e Event) {
	for _, s := range *b.subs.Load() {
		s.obs.OnEvent(e)
	}
}

// LogObserver writes events to logger: failures at error, skips at info,
// the rest at debug except the run summary.
type LogObserver struct {
	logger *slog.Logger
}

// NewLogObserver returns a LogObserver. A nil logger uses slog.Default().
func NewLogObserver(logger *slog.Logger) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}

	return &LogObserver{logger: logger}
}

// OnEvent implements Observer.
func (o *LogObserver) OnEvent(e Event) {
	attrs := []any{"run", e.RunID}
	if e.Strategy != "" {
		attrs = append(attrs, "strategy", e.Strategy, "kind", e.Kind)
	}

	if e.Reason != "" {
		attrs = append(attrs, "reason", e.Reason)
	}

	if e.Err != nil {
		attrs = append(attrs, "error", e.Err)
	}

	switch e.Type {
	case EventFailure, EventFailed:
		o.logger.Error("chain "+string(e.Type), attrs...)
	case EventSkip, EventCompleted:
		o.logger.Info("chain "+string(e.Type), attrs...)
	default:
		o.logger.Debug("chain "+string(e.Type), attrs...)
	}
}
