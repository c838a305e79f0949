// Package report renders load records, chain results and the strategy
// registry as text tables or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/donaldgifford/pubcfg/internal/model"
	"github.com/donaldgifford/pubcfg/internal/orchestration"
	"github.com/donaldgifford/pubcfg/internal/strategy"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	return f == FormatText || f == FormatJSON
}

// Loads renders one row per domain load.
func Loads(w io.Writer, format string, loads []model.LoadMetadata) error {
	if format == FormatJSON {
		return encode(w, loads)
	}

	return table(w, []string{"KIND", "STATUS", "SOURCE", "FILE", "LOADED", "ERROR"}, func(row func(...string) error) error {
		for _, l := range loads {
			loaded := ""
			if !l.LoadTime.IsZero() {
				loaded = l.LoadTime.Format(time.RFC3339)
			}

			if err := row(string(l.Kind), l.Status.String(), l.Source.String(), l.FilePath, loaded, l.ErrorMessage); err != nil {
				return err
			}
		}

		return nil
	})
}

// Chain renders one row per executed step.
func Chain(w io.Writer, format string, res *orchestration.Result) error {
	if format == FormatJSON {
		return encode(w, res)
	}

	err := table(w, []string{"STRATEGY", "KIND", "ORDER", "OUTCOME", "REASON"}, func(row func(...string) error) error {
		for _, s := range res.Steps {
			if err := row(s.Strategy, string(s.Kind), strconv.Itoa(s.Order), outcomeLabel(s.Outcome), s.Reason); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "\nrun %s %s: %d applied, %d skipped\n",
		res.RunID, res.State, len(res.Applied()), len(res.Skipped()))

	return err
}

type strategyRow struct {
	Type     string     `json:"type"`
	Kind     model.Kind `json:"kind"`
	Order    int        `json:"order"`
	Enabled  bool       `json:"enabled"`
	Required bool       `json:"required"`
}

// Strategies renders the given strategies with their default attributes
// under s.
func Strategies(w io.Writer, format string, list []strategy.Strategy, s *strategy.Settings) error {
	rows := make([]strategyRow, 0, len(list))
	for _, st := range list {
		rows = append(rows, strategyRow{
			Type:     st.Type(),
			Kind:     st.Kind(),
			Order:    st.Order(),
			Enabled:  st.Enabled(s),
			Required: st.Required(s),
		})
	}

	if format == FormatJSON {
		return encode(w, rows)
	}

	return table(w, []string{"TYPE", "KIND", "ORDER", "ENABLED", "REQUIRED"}, func(row func(...string) error) error {
		for _, r := range rows {
			if err := row(r.Type, string(r.Kind), strconv.Itoa(r.Order), yesNo(r.Enabled), yesNo(r.Required)); err != nil {
				return err
			}
		}

		return nil
	})
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

func table(w io.Writer, header []string, body func(row func(...string) error) error) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	row := func(cols ...string) error {
		for i, c := range cols {
			sep := "\t"
			if i == len(cols)-1 {
				sep = "\n"
			}

			if _, err := fmt.Fprint(tw, c, sep); err != nil {
				return err
			}
		}

		return nil
	}

	if err := row(header...); err != nil {
		return err
	}

	if err := body(row); err != nil {
		return err
	}

	return tw.Flush()
}

func outcomeLabel(o orchestration.Outcome) string {
	switch o {
	case orchestration.OutcomeApplied:
		return "applied"
	case orchestration.OutcomeSkipped:
		return "skipped"
	case orchestration.OutcomeFailed:
		return "FAILED"
	default:
		return string(o)
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}

	return "no"
}
