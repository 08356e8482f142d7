package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

type stubTables struct {
	table *model.FeatureTable
	err   error
	calls int
}

func (s *stubTables) Load(context.Context) (*model.FeatureTable, error) {
	s.calls++
	return s.table, s.err
}

type stubArrays struct {
	array *model.ExplainabilityArray
	err   error
}

func (s *stubArrays) Load(context.Context) (*model.ExplainabilityArray, error) {
	return s.array, s.err
}

func sampleTable(t *testing.T) *model.FeatureTable {
	t.Helper()
	tbl, err := model.NewFeatureTable(
		[]string{"total_claims", "total_reimbursed"},
		"total_claims",
		[]model.Provider{
			{ID: "P1", Features: []float64{5, 1200}, Label: 0},
			{ID: "P2", Features: []float64{12, 98000}, Label: 1},
			{ID: "P3", Features: []float64{0, 0}, Label: 1},
		},
	)
	require.NoError(t, err)
	return tbl
}

func sampleArray(t *testing.T, rows int) *model.ExplainabilityArray {
	t.Helper()
	data := make([]float64, 0, rows*2)
	for i := 0; i < rows; i++ {
		data = append(data, 0.1*float64(i+1), -0.05*float64(i+1))
	}
	arr, err := model.NewExplainabilityArray(rows, 2, nil, data)
	require.NoError(t, err)
	return arr
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("\x89PNG"), 0o644))
}

// newSnapshot loads the sample artifacts with a reports dir holding the
// beeswarm plot and the waterfall for index 1 only.
func newSnapshot(t *testing.T, opts Options) *Snapshot {
	t.Helper()
	dir := t.TempDir()
	touch(t, dir, "shap_beeswarm_full.png")
	touch(t, dir, "shap_waterfall_full_1.png")

	cat, err := artifact.NewCatalog(artifact.Options{
		Dir:             dir,
		WaterfallPrefix: "shap_waterfall_full_",
		WaterfallSuffix: ".png",
	})
	require.NoError(t, err)

	s, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{array: sampleArray(t, 3)},
		cat, opts)
	require.NoError(t, err)
	return s
}
