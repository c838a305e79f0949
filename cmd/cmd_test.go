package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/report"
	"github.com/donaldgifford/pubcfg/internal/source"
)

// These tests drive the shared rootCmd and global viper, so they do not run
// in parallel.

func configDir(t *testing.T) string {
	t.Helper()

	abs, err := filepath.Abs(filepath.Join("..", "testdata", "configs"))
	require.NoError(t, err)

	return abs
}

func copyPOM(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "testdata", "pom", "pom.xml"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "pom.xml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()

	return out.String(), err
}

func TestApply_WritesPOMOnce(t *testing.T) {
	t.Setenv("PUBCFG_GPG_PASSPHRASE", "pw")
	t.Setenv("GPG_KEYNAME", "")

	pom := copyPOM(t)
	metricsFile := filepath.Join(t.TempDir(), "pubcfg.prom")

	args := []string{
		"apply", "--config-dir", configDir(t), "--pom", pom,
		"--gpg-keyname", "ABC123", "--server-id", "central",
		"--dry-run=false", "--no-color", "--metrics-file", metricsFile,
	}

	_, err := execute(t, args...)
	require.NoError(t, err)

	data, err := os.ReadFile(pom)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "central-publishing-maven-plugin")
	assert.Contains(t, content, "<extensions>true</extensions>")
	assert.Contains(t, content, "<keyname>ABC123</keyname>")
	assert.Equal(t, 1, strings.Count(content, "<artifactId>maven-source-plugin</artifactId>"))
	assert.Equal(t, 1, strings.Count(content, "<artifactId>slf4j-api</artifactId>"))
	assert.NotContains(t, content, "pw<")

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `pubcfg_chain_runs_total{state="completed"} 1`)

	rerun := append(slices.Clone(args[:len(args)-2]), "--metrics-file", "")
	_, err = execute(t, rerun...)
	require.NoError(t, err)

	again, err := os.ReadFile(pom)
	require.NoError(t, err)
	assert.Equal(t, content, string(again), "second apply leaves the pom untouched")
}

func TestApply_DryRunAndFailure(t *testing.T) {
	t.Setenv("PUBCFG_GPG_PASSPHRASE", "")
	t.Setenv("GPG_KEYNAME", "")

	pom := copyPOM(t)

	before, err := os.ReadFile(pom)
	require.NoError(t, err)

	_, err = execute(t, "apply", "--config-dir", configDir(t), "--pom", pom,
		"--gpg-keyname", "ABC123", "--server-id", "central", "--dry-run", "--no-color", "--metrics-file", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "passphrase")

	after, err := os.ReadFile(pom)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApply_UnknownOutput(t *testing.T) {
	t.Cleanup(func() { applyOutput = report.FormatText })

	_, err := execute(t, "apply", "--config-dir", configDir(t), "-o", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestValidate(t *testing.T) {
	_, err := execute(t, "validate", "--config-dir", configDir(t), "-o", "json")
	require.NoError(t, err)

	_, err = execute(t, "validate", "--config-dir", t.TempDir(), "-o", "text")
	require.ErrorIs(t, err, source.ErrNotFound)
}

func TestStrategies(t *testing.T) {
	_, err := execute(t, "strategies", "--config-dir", configDir(t),
		"--discovery", filepath.Join(configDir(t), "strategies.yaml"), "-o", "text")
	require.NoError(t, err)

	_, err = execute(t, "strategies", "--discovery", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "discovery manifest")
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pubcfg 1.2.3 (commit: abc)\n", out)
}
