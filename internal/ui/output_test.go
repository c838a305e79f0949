package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/orchestration"
	"github.com/donaldgifford/pubcfg/internal/ui"
)

func TestWriter_Success_NoColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := ui.NewWriterWithOutputs(&buf, &bytes.Buffer{}, true)

	w.Success("done")

	assert.Contains(t, buf.String(), "✓")
	assert.Contains(t, buf.String(), "done")
	assert.NotContains(t, buf.String(), "\033[")
}

func TestWriter_Success_WithColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := ui.NewWriterWithOutputs(&buf, &bytes.Buffer{}, false)

	w.Success("done")

	assert.Contains(t, buf.String(), "\033[32m")
}

func TestWriter_StderrLines(t *testing.T) {
	t.Parallel()

	var out, errBuf bytes.Buffer
	w := ui.NewWriterWithOutputs(&out, &errBuf, true)

	w.Warning("caution")
	w.Errorf("broke %d", 2)
	w.Fail("gpg")

	assert.Empty(t, out.String())
	assert.Contains(t, errBuf.String(), "warning: caution")
	assert.Contains(t, errBuf.String(), "error: broke 2")
	assert.Contains(t, errBuf.String(), "✗ gpg")
}

func TestWriter_Bold(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", ui.NewWriterWithOutputs(&bytes.Buffer{}, &bytes.Buffer{}, true).Bold("text"))
	assert.Contains(t, ui.NewWriterWithOutputs(&bytes.Buffer{}, &bytes.Buffer{}, false).Bold("text"), "\033[1m")
}

func TestProgress(t *testing.T) {
	t.Parallel()

	var out, errBuf bytes.Buffer
	p := ui.NewProgress(ui.NewWriterWithOutputs(&out, &errBuf, true))

	p.OnEvent(orchestration.Event{Type: orchestration.EventStart, Strategy: "gpg"})
	p.OnEvent(orchestration.Event{Type: orchestration.EventSuccess, Strategy: "gpg", Kind: model.KindPlugin})
	p.OnEvent(orchestration.Event{Type: orchestration.EventSkip, Strategy: "plexus-utils", Reason: "disabled"})
	p.OnEvent(orchestration.Event{Type: orchestration.EventCompleted})

	assert.Contains(t, out.String(), "✓ gpg plugin")
	assert.Contains(t, out.String(), "- plexus-utils skipped: disabled")
	assert.Contains(t, out.String(), "configured 1, skipped 1")

	p.OnEvent(orchestration.Event{Type: orchestration.EventFailure, Strategy: "source", Err: errors.New("boom")})
	p.OnEvent(orchestration.Event{Type: orchestration.EventFailed})

	assert.Contains(t, errBuf.String(), "source: boom")
	assert.Contains(t, errBuf.String(), "run aborted after 0 applied")
}
