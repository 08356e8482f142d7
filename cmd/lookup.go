package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/fraud-dashboard/internal/dashboard"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <provider>",
	Short: "Show a provider's row, waterfall plot and top SHAP contributions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := initSnapshot(cmd.Context(), cfg, "")
		if err != nil {
			return err
		}
		formatLookup(cmd.OutOrStdout(), snap.Lookup(args[0]), snap.Catalog.Dir())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// formatLookup writes a lookup result to out. Not-found states are
// informational, not errors.
func formatLookup(out io.Writer, res dashboard.LookupResult, reportsDir string) {
	if !res.Found {
		_, _ = fmt.Fprintln(out, res.Message)
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Provider:\t%s\n", res.Provider)
	_, _ = fmt.Fprintf(w, "Index:\t%d\n", res.Index)
	_, _ = fmt.Fprintf(w, "PotentialFraud:\t%d\n", res.Record.PotentialFraud)
	if res.WaterfallAvailable {
		_, _ = fmt.Fprintf(w, "Waterfall:\t%s/%s\n", reportsDir, res.WaterfallFile)
	} else {
		_, _ = fmt.Fprintf(w, "Waterfall:\tnot found\n")
	}
	_ = w.Flush()

	if res.Message != "" {
		_, _ = fmt.Fprintln(out, res.Message)
	}
	if len(res.Contributions) == 0 {
		return
	}

	_, _ = fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FEATURE\tSHAP\tTOWARDS")
	for _, c := range res.Contributions {
		_, _ = fmt.Fprintf(w, "%s\t%+.4f\t%s\n", c.Feature, c.Value, c.Direction)
	}
	_ = w.Flush()
}
