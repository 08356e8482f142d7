package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/fraud-dashboard/internal/export"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

var (
	providersLabel     string
	providersMinClaims int
	providersLimit     int
	providersFormat    string
	providersOut       string
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers filtered by fraud label and claim count",
	RunE: func(cmd *cobra.Command, args []string) error {
		label, err := model.ParseLabelFilter(providersLabel)
		if err != nil {
			return err
		}
		filter := model.ProviderFilter{Label: label, MinClaims: providersMinClaims}
		if err := filter.Validate(); err != nil {
			return err
		}

		snap, err := initSnapshot(cmd.Context(), cfg, "")
		if err != nil {
			return err
		}

		recs, err := snap.Filtered(filter)
		if err != nil {
			return err
		}

		if providersOut != "" {
			if err := export.WriteFile(providersOut, snap.Table.Columns, recs); err != nil {
				return err
			}
			zap.L().Info("providers exported",
				zap.String("path", providersOut),
				zap.Int("rows", len(recs)),
			)
			return nil
		}

		total := len(recs)
		if providersLimit > 0 && providersLimit < len(recs) {
			recs = recs[:providersLimit]
		}
		return writeProviders(cmd.OutOrStdout(), providersFormat, snap.Table.Columns, recs, total)
	},
}

func init() {
	providersCmd.Flags().StringVar(&providersLabel, "label", "all", "fraud label: all, fraudulent or legitimate")
	providersCmd.Flags().IntVar(&providersMinClaims, "min-claims", 0, "minimum total claims")
	providersCmd.Flags().IntVar(&providersLimit, "limit", 50, "max rows to print (0 = all)")
	providersCmd.Flags().StringVar(&providersFormat, "format", "table", "output format: table, json or csv")
	providersCmd.Flags().StringVar(&providersOut, "out", "", "write all matching rows to a .csv or .xlsx file")
	rootCmd.AddCommand(providersCmd)
}

// writeProviders prints recs in the requested format.
func writeProviders(out io.Writer, format string, columns []string, recs []model.Record, total int) error {
	switch format {
	case "table":
		formatProvidersTable(out, columns, recs, total)
		return nil
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(recs), "encode providers")
	case "csv":
		return export.WriteCSV(out, columns, recs)
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

// formatProvidersTable writes a tabular provider list to out.
func formatProvidersTable(out io.Writer, columns []string, recs []model.Record, total int) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprint(w, "INDEX\tPROVIDER\tFRAUD")
	for _, c := range columns {
		_, _ = fmt.Fprint(w, "\t", c)
	}
	_, _ = fmt.Fprintln(w)

	for _, r := range recs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%d", r.Index, r.Provider, r.PotentialFraud)
		for _, c := range columns {
			_, _ = fmt.Fprint(w, "\t", strconv.FormatFloat(r.Features[c], 'f', -1, 64))
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()

	_, _ = fmt.Fprintf(out, "\n%d of %d matching providers shown\n", len(recs), total)
}
