package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/pubcfg/internal/engine"
	"github.com/donaldgifford/pubcfg/internal/report"
	"github.com/donaldgifford/pubcfg/internal/ui"
)

var strategiesOutput string

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List registered strategies",
	Long: `List the built-in strategies and any declared in the discovery manifest,
with their default order and flags.`,
	RunE: runStrategies,
}

func init() {
	strategiesCmd.Flags().StringVarP(&strategiesOutput, "output", "o", report.FormatText, "output format (text, json)")
	rootCmd.AddCommand(strategiesCmd)
}

func runStrategies(_ *cobra.Command, _ []string) error {
	if !report.ValidFormat(strategiesOutput) {
		return fmt.Errorf("unknown output format %q", strategiesOutput)
	}

	opts, err := engineOpts()
	if err != nil {
		return err
	}

	e, err := engine.New(opts)
	if err != nil {
		return err
	}

	s := e.Settings()

	return report.Strategies(ui.NewWriter(noColor).Out(), strategiesOutput, e.Registry().All(), &s)
}
