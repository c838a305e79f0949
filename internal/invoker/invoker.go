// Package invoker runs Maven plugin goals in an external process.
package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"slices"
	"strings"
	"time"

	"github.com/donaldgifford/pubcfg/internal/model"
)

// DefaultCommand is the Maven executable looked up on PATH.
const DefaultCommand = "mvn"

// ErrTimeout is returned when a goal outlives Opts.Timeout.
var ErrTimeout = errors.New("goal invocation timed out")

const redactedValue = "****"

// secretMarkers flag property keys whose values are masked in log output.
var secretMarkers = []string{"passphrase", "password", "secret", "token"}

// Goal is one plugin goal to run.
type Goal struct {
	model.Coordinates

	Goal       string
	Properties map[string]string
	PomFile    string
}

// Opts configures an Invoker.
type Opts struct {
	// Command is the Maven executable. Defaults to "mvn".
	Command string
	// WorkDir is the directory the process runs in.
	WorkDir string
	// Timeout bounds each invocation. Zero waits indefinitely.
	Timeout time.Duration
	// Stdout receives process standard output.
	Stdout io.Writer
	// Stderr receives process standard error.
	Stderr io.Writer
	// Logger for debug output.
	Logger *slog.Logger
}

// Invoker runs goals synchronously.
type Invoker struct {
	opts   Opts
	logger *slog.Logger
}

// New returns an Invoker.
func New(opts Opts) *Invoker {
	if opts.Command == "" {
		opts.Command = DefaultCommand
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Invoker{opts: opts, logger: logger}
}

// Args returns the command line arguments for g, excluding the executable.
func Args(g Goal) []string {
	args := []string{"-B"}

	if g.PomFile != "" {
		args = append(args, "-f", g.PomFile)
	}

	args = append(args, g.String()+":"+g.Goal)

	keys := make([]string, 0, len(g.Properties))
	for k := range g.Properties {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	for _, k := range keys {
		args = append(args, "-D"+k+"="+g.Properties[k])
	}

	return args
}

// Redact returns a copy of g with secret property values masked.
func Redact(g Goal) Goal {
	props := make(map[string]string, len(g.Properties))

	for k, v := range g.Properties {
		if IsSecret(k) {
			v = redactedValue
		}

		props[k] = v
	}

	g.Properties = props

	return g
}

// IsSecret reports whether a property key names a credential.
func IsSecret(key string) bool {
	key = strings.ToLower(key)

	return slices.ContainsFunc(secretMarkers, func(m string) bool {
		return strings.Contains(key, m)
	})
}

// Invoke runs g and waits for it. A non-zero exit is an error.
func (i *Invoker) Invoke(ctx context.Context, g Goal) error {
	if strings.TrimSpace(g.Goal) == "" {
		return fmt.Errorf("invoking %s: goal is required", g.Coordinates)
	}

	if i.opts.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, i.opts.Timeout)
		defer cancel()
	}

	i.logger.Debug("invoking goal", "cmd", i.opts.Command, "args", strings.Join(Args(Redact(g)), " "))

	cmd := exec.CommandContext(ctx, i.opts.Command, Args(g)...)
	cmd.Dir = i.opts.WorkDir
	cmd.Stdout = i.opts.Stdout
	cmd.Stderr = i.opts.Stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s: %s:%s", ErrTimeout, i.opts.Timeout, g.Coordinates, g.Goal)
		}

		return fmt.Errorf("invoking %s:%s: %w", g.Coordinates, g.Goal, err)
	}

	return nil
}
