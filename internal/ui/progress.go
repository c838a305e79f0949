package ui

import (
	"github.com/donaldgifford/pubcfg/internal/orchestration"
)

// Progress prints one line per finished strategy and a run summary.
type Progress struct {
	w       *Writer
	applied int
	skipped int
}

var _ orchestration.Observer = (*Progress)(nil)

// NewProgress returns a Progress printing to w.
func NewProgress(w *Writer) *Progress {
	return &Progress{w: w}
}

// OnEvent implements orchestration.Observer.
func (p *Progress) OnEvent(e orchestration.Event) {
	switch e.Type {
	case orchestration.EventSuccess:
		p.applied++
		p.w.Successf("%s %s", p.w.Bold(e.Strategy), e.Kind)
	case orchestration.EventSkip:
		p.skipped++
		p.w.Skipf("%s skipped: %s", e.Strategy, e.Reason)
	case orchestration.EventFailure:
		p.w.Failf("%s: %v", e.Strategy, e.Err)
	case orchestration.EventCompleted:
		p.w.Infof("configured %d, skipped %d", p.applied, p.skipped)
		p.applied, p.skipped = 0, 0
	case orchestration.EventFailed:
		p.w.Errorf("run aborted after %d applied", p.applied)
		p.applied, p.skipped = 0, 0
	case orchestration.EventStart:
	}
}
