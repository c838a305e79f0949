package invoker_test

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/pubcfg/internal/invoker"
	"github.com/donaldgifford/pubcfg/internal/model"
)

func gpgGoal() invoker.Goal {
	return invoker.Goal{
		Coordinates: model.Coordinates{GroupID: "org.apache.maven.plugins", ArtifactID: "maven-gpg-plugin", Version: "3.2.8"},
		Goal:        "sign",
		Properties:  map[string]string{"gpg.keyname": "ABC", "gpg.passphrase": "secret"},
		PomFile:     "pom.xml",
	}
}

func script(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fake-mvn")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))

	return path
}

func TestArgs(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{
		"-B", "-f", "pom.xml",
		"org.apache.maven.plugins:maven-gpg-plugin:3.2.8:sign",
		"-Dgpg.keyname=ABC", "-Dgpg.passphrase=secret",
	}, invoker.Args(gpgGoal()))
}

func TestInvoke_Success(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer

	inv := invoker.New(invoker.Opts{
		Command: "echo",
		WorkDir: t.TempDir(),
		Stdout:  &stdout,
		Stderr:  &bytes.Buffer{},
	})

	require.NoError(t, inv.Invoke(t.Context(), gpgGoal()))
	assert.Contains(t, stdout.String(), "maven-gpg-plugin:3.2.8:sign -Dgpg.keyname=ABC")
}

func TestInvoke_LogsWithoutSecrets(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer

	inv := invoker.New(invoker.Opts{
		Command: "true",
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
		Logger:  slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})

	g := gpgGoal()
	g.Properties["gpg.passphrase"] = "s3cr3t-pass"

	require.NoError(t, inv.Invoke(t.Context(), g))
	assert.Contains(t, logs.String(), "-Dgpg.passphrase=****")
	assert.Contains(t, logs.String(), "-Dgpg.keyname=ABC")
	assert.NotContains(t, logs.String(), "s3cr3t-pass")
	assert.Equal(t, "s3cr3t-pass", g.Properties["gpg.passphrase"], "goal left intact")
}

func TestIsSecret(t *testing.T) {
	t.Parallel()

	for key, want := range map[string]bool{
		"gpg.passphrase":  true,
		"server.PASSWORD": true,
		"api.token":       true,
		"gpg.keyname":     false,
		"skipTests":       false,
	} {
		assert.Equal(t, want, invoker.IsSecret(key), key)
	}
}

func TestInvoke_NonZeroExit(t *testing.T) {
	t.Parallel()

	inv := invoker.New(invoker.Opts{
		Command: script(t, "exit 3"),
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})

	err := inv.Invoke(t.Context(), gpgGoal())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.NotErrorIs(t, err, invoker.ErrTimeout)
}

func TestInvoke_Timeout(t *testing.T) {
	t.Parallel()

	inv := invoker.New(invoker.Opts{
		Command: script(t, "exec sleep 5"),
		Timeout: 50 * time.Millisecond,
		Stdout:  &bytes.Buffer{},
		Stderr:  &bytes.Buffer{},
	})

	err := inv.Invoke(t.Context(), gpgGoal())
	require.ErrorIs(t, err, invoker.ErrTimeout)
}

func TestInvoke_MissingGoal(t *testing.T) {
	t.Parallel()

	g := gpgGoal()
	g.Goal = ""

	require.Error(t, invoker.New(invoker.Opts{}).Invoke(t.Context(), g))
}
