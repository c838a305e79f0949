package cmd

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/pubcfg/internal/engine"
	"github.com/donaldgifford/pubcfg/internal/invoker"
	"github.com/donaldgifford/pubcfg/internal/manifest"
	"github.com/donaldgifford/pubcfg/internal/observe"
	"github.com/donaldgifford/pubcfg/internal/orchestration"
	"github.com/donaldgifford/pubcfg/internal/report"
	"github.com/donaldgifford/pubcfg/internal/ui"
)

var (
	applyPom           string
	applyDryRun        bool
	applyInvoke        bool
	applyMvn           string
	applyInvokeTimeout time.Duration
	applyBuiltins      bool
	applyOutput        string
	applyMetricsFile   string
	applyProperties    map[string]string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply the configuration to a pom.xml",
	Long: `Load and validate every configured domain, then run each strategy in
order against the pom. Entries the pom already declares are left alone.
The pom is only written when the whole run succeeds.`,
	RunE: runApply,
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyPom, "pom", "pom.xml", "pom file to configure")
	f.BoolVar(&applyDryRun, "dry-run", false, "run the chain without writing the pom")
	f.BoolVar(&applyInvoke, "invoke", false, "run each plugin goal with maven after adding it")
	f.StringVar(&applyMvn, "mvn", invoker.DefaultCommand, "maven executable used with --invoke")
	f.DurationVar(&applyInvokeTimeout, "invoke-timeout", 0, "timeout for each maven invocation (0 waits indefinitely)")
	f.BoolVar(&applyBuiltins, "builtins", false, "also apply registered strategies that have no configuration entry")
	f.StringVarP(&applyOutput, "output", "o", report.FormatText, "output format (text, json)")
	f.StringVar(&applyMetricsFile, "metrics-file", "", "write run metrics to this file in prometheus text format")
	f.StringToStringVarP(&applyProperties, "property", "D", nil, "extra -D property passed to invoked goals")
	rootCmd.AddCommand(applyCmd)
}

func runApply(cmd *cobra.Command, _ []string) error {
	if !report.ValidFormat(applyOutput) {
		return fmt.Errorf("unknown output format %q", applyOutput)
	}

	opts, err := engineOpts()
	if err != nil {
		return err
	}

	opts.Builtins = applyBuiltins

	if len(applyProperties) > 0 {
		if opts.Settings.Properties == nil {
			opts.Settings.Properties = make(map[string]string, len(applyProperties))
		}

		maps.Copy(opts.Settings.Properties, applyProperties)
	}

	pom, err := manifest.OpenPOM(applyPom)
	if err != nil {
		return err
	}

	opts.Settings.PomFile = pom.Path()

	if applyInvoke {
		opts.Settings.Invoker = invoker.New(invoker.Opts{
			Command: applyMvn,
			WorkDir: filepath.Dir(pom.Path()),
			Timeout: applyInvokeTimeout,
			Stdout:  os.Stderr,
			Stderr:  os.Stderr,
			Logger:  slog.Default(),
		})
	}

	w := ui.NewWriter(noColor)
	if applyOutput == report.FormatText {
		opts.Observers = append(opts.Observers, ui.NewProgress(w))
	}

	registry := prometheus.NewRegistry()
	if applyMetricsFile != "" {
		metrics, err := observe.NewMetrics(registry)
		if err != nil {
			return err
		}

		opts.Observers = append(opts.Observers, metrics)
	}

	e, err := engine.New(opts)
	if err != nil {
		return err
	}

	if err := e.Load(cmd.Context()); err != nil {
		return err
	}

	res, runErr := e.Run(cmd.Context(), pom)

	if applyMetricsFile != "" {
		if err := observe.WriteTextfile(applyMetricsFile, registry); err != nil {
			slog.Warn("metrics not written", "error", err)
		}
	}

	if res != nil && applyOutput == report.FormatJSON {
		if err := report.Chain(w.Out(), applyOutput, res); err != nil {
			return err
		}
	}

	if runErr != nil {
		return runErr
	}

	return savePOM(w, pom, res)
}

func savePOM(w *ui.Writer, pom *manifest.POM, res *orchestration.Result) error {
	switch {
	case pom.Writes() == 0:
		slog.Debug("pom unchanged", "path", pom.Path(), "run", res.RunID)
	case applyDryRun:
		slog.Info("dry run, pom not written", "path", pom.Path(), "changes", pom.Writes())
	default:
		if err := pom.Save(); err != nil {
			return err
		}

		if applyOutput == report.FormatText {
			w.Successf("wrote %s (%d changes)", pom.Path(), pom.Writes())
		}
	}

	return nil
}
