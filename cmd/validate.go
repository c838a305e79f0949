package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pubcfg/internal/engine"
	"github.com/donaldgifford/pubcfg/internal/report"
	"github.com/donaldgifford/pubcfg/internal/ui"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration without applying it",
	Long: `Load every configured domain, resolve placeholders, validate entries,
check their dependencies for cycles and convert them, then report the
outcome per domain. Strategies are resolved so unknown types fail here too.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", report.FormatText, "output format (text, json)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	if !report.ValidFormat(validateOutput) {
		return fmt.Errorf("unknown output format %q", validateOutput)
	}

	opts, err := engineOpts()
	if err != nil {
		return err
	}

	e, err := engine.New(opts)
	if err != nil {
		return err
	}

	w := ui.NewWriter(noColor)
	loadErr := e.Load(cmd.Context())

	if err := report.Loads(w.Out(), validateOutput, e.LoadMetadata()); err != nil {
		return err
	}

	if loadErr != nil {
		return loadErr
	}

	chain, err := e.Plan()
	if err != nil {
		return err
	}

	if validateOutput == report.FormatText {
		w.Successf("configuration valid, %d strategies planned", len(chain.Strategies()))
	}

	return nil
}
