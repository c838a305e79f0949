package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/orchestration"
	"github.com/donaldgifford/pubcfg/internal/report"
	"github.com/donaldgifford/pubcfg/internal/strategy"
)

func sampleResult() *orchestration.Result {
	return &orchestration.Result{
		RunID: "run-1",
		State: orchestration.StateFailed,
		Steps: []orchestration.Step{
			{Strategy: "apache-2.0", Kind: model.KindLicense, Outcome: orchestration.OutcomeApplied},
			{Strategy: "plexus-utils", Kind: model.KindDependency, Outcome: orchestration.OutcomeSkipped, Reason: "disabled"},
			{Strategy: "gpg", Kind: model.KindPlugin, Outcome: orchestration.OutcomeFailed, Reason: "no key"},
		},
		Failed: "gpg",
	}
}

func TestChain_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Chain(&buf, report.FormatText, sampleResult()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.True(t, strings.HasPrefix(lines[0], "STRATEGY"))
	assert.Contains(t, lines[2], "skipped")
	assert.Contains(t, lines[2], "disabled")
	assert.Contains(t, lines[3], "FAILED")
	assert.Contains(t, buf.String(), "run run-1 failed: 1 applied, 1 skipped")
}

func TestChain_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Chain(&buf, report.FormatJSON, sampleResult()))

	var got orchestration.Result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "gpg", got.Failed)
	assert.Len(t, got.Steps, 3)
}

func TestLoads(t *testing.T) {
	t.Parallel()

	loads := []model.LoadMetadata{
		{Kind: model.KindLicense, FilePath: "license-config.yaml", Status: model.LoadSuccess, LoadTime: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Kind: model.KindPlugin, FilePath: "plugin-config.yaml", Status: model.LoadFailed, ErrorMessage: "boom"},
	}

	var text bytes.Buffer
	require.NoError(t, report.Loads(&text, report.FormatText, loads))
	assert.Contains(t, text.String(), "SUCCESS")
	assert.Contains(t, text.String(), "2026-03-01T00:00:00Z")
	assert.Contains(t, text.String(), "boom")

	var js bytes.Buffer
	require.NoError(t, report.Loads(&js, report.FormatJSON, loads))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Equal(t, "FAILED", raw[1]["status"])
	assert.Equal(t, "LOCAL_FILE", raw[1]["source"])
}

func TestStrategies(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Strategies(&buf, report.FormatText,
		[]strategy.Strategy{strategy.Source(), strategy.PlexusUtils()}, &strategy.Settings{}))

	out := buf.String()
	assert.Contains(t, out, "TYPE")
	assert.Regexp(t, `source\s+plugin\s+1\s+yes\s+yes`, out)
	assert.Regexp(t, `plexus-utils\s+dependency\s+0\s+no\s+no`, out)
}

func TestValidFormat(t *testing.T) {
	t.Parallel()

	assert.True(t, report.ValidFormat("json"))
	assert.True(t, report.ValidFormat("text"))
	assert.False(t, report.ValidFormat("yaml"))
}
