package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/dashboard"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Load both artifacts and report row counts and missing plots",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := initSnapshot(cmd.Context(), cfg, dashboard.CorrespondenceStrict)
		if err != nil {
			return err
		}
		formatCheck(cmd.OutOrStdout(), snap, snap.Catalog.MissingGlobal())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// formatCheck writes the artifact report to out.
func formatCheck(out io.Writer, snap *dashboard.Snapshot, missing []artifact.Plot) {
	b := snap.Balance()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Snapshot:\t%s\n", snap.ID)
	_, _ = fmt.Fprintf(w, "Providers:\t%d\n", b.Total)
	_, _ = fmt.Fprintf(w, "  Fraudulent:\t%d\n", b.Fraudulent)
	_, _ = fmt.Fprintf(w, "  Legitimate:\t%d\n", b.Legitimate)
	_, _ = fmt.Fprintf(w, "Features:\t%d\n", len(snap.Table.Columns))
	_, _ = fmt.Fprintf(w, "SHAP rows:\t%d\n", snap.Array.Rows)
	_, _ = fmt.Fprintf(w, "Global plots:\t%d\n", len(snap.Catalog.Global()))
	_ = w.Flush()

	for _, p := range missing {
		_, _ = fmt.Fprintf(out, "missing plot %s (%s)\n", p.Name, p.File)
	}
	if len(missing) == 0 {
		_, _ = fmt.Fprintln(out, "all global plots present")
	}
}
