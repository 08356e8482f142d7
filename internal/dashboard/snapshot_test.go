package dashboard

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

func emptyCatalog(t *testing.T) *artifact.Catalog {
	t.Helper()
	cat, err := artifact.NewCatalog(artifact.Options{Dir: t.TempDir(), WaterfallSuffix: ".png"})
	require.NoError(t, err)
	return cat
}

func TestLoad_BuildsSnapshot(t *testing.T) {
	s := newSnapshot(t, Options{})

	assert.NotEmpty(t, s.ID)
	assert.False(t, s.LoadedAt.IsZero())
	assert.True(t, s.Aligned())
	assert.Equal(t, 3, s.Table.Len())
	assert.Equal(t, 3, s.Array.Rows)
	assert.Equal(t, defaultPageSize, s.PageSize())

	b := s.Balance()
	assert.Equal(t, 3, b.Total)
	assert.Equal(t, 2, b.Fraudulent)
	assert.Equal(t, 1, b.Legitimate)
}

func TestLoad_AdoptsTableColumnNames(t *testing.T) {
	s := newSnapshot(t, Options{})
	assert.Equal(t, []string{"total_claims", "total_reimbursed"}, s.Array.Features)
}

func TestLoad_KeepsArrayHeaderNames(t *testing.T) {
	arr, err := model.NewExplainabilityArray(3, 2, []string{"claims", "paid"}, make([]float64, 6))
	require.NoError(t, err)

	s, err := Load(context.Background(), &stubTables{table: sampleTable(t)}, &stubArrays{array: arr}, emptyCatalog(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"claims", "paid"}, s.Array.Features)
}

func TestLoad_DistinctIDs(t *testing.T) {
	a := newSnapshot(t, Options{})
	b := newSnapshot(t, Options{})
	assert.NotEqual(t, a.ID, b.ID)
}

func TestLoad_TableUnavailable(t *testing.T) {
	du := model.NewDataUnavailable("data/provider_features.csv", eris.New("open: no such file"))

	_, err := Load(context.Background(),
		&stubTables{err: du},
		&stubArrays{array: sampleArray(t, 3)},
		emptyCatalog(t), Options{})
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
}

func TestLoad_ArrayUnavailable(t *testing.T) {
	du := model.NewDataUnavailable("data/shap_values.npy", eris.New("npy: not a NumPy array file"))

	_, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{err: du},
		emptyCatalog(t), Options{})
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
}

func TestLoad_StrictRejectsMisalignedArtifacts(t *testing.T) {
	_, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{array: sampleArray(t, 2)},
		emptyCatalog(t), Options{Correspondence: CorrespondenceStrict})
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
	assert.Contains(t, err.Error(), "explainability array has 2 rows, feature table has 3")
}

func TestLoad_DefaultPolicyIsStrict(t *testing.T) {
	_, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{array: sampleArray(t, 4)},
		emptyCatalog(t), Options{})
	require.Error(t, err)
	assert.True(t, model.IsDataUnavailable(err))
}

func TestLoad_WarnKeepsMisalignedArtifacts(t *testing.T) {
	s, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{array: sampleArray(t, 2)},
		emptyCatalog(t), Options{Correspondence: CorrespondenceWarn})
	require.NoError(t, err)
	assert.False(t, s.Aligned())

	// P3 sits at index 2, past the end of the two-row array.
	res := s.Lookup("P3")
	assert.True(t, res.Found)
	assert.Equal(t, 2, res.Index)
	assert.Empty(t, res.Contributions)
}

func TestLoad_AboutOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "about.md")
	require.NoError(t, os.WriteFile(path, []byte("# Internal build\n\nFor reviewers only."), 0o644))

	s := newSnapshot(t, Options{AboutPath: path})
	page, err := s.Render(ViewAbout, Query{})
	require.NoError(t, err)
	assert.Contains(t, page.About.HTML, "Internal build</h1>")
	assert.Contains(t, page.About.HTML, "For reviewers only.")
}

func TestLoad_AboutOverrideMissing(t *testing.T) {
	_, err := Load(context.Background(),
		&stubTables{table: sampleTable(t)},
		&stubArrays{array: sampleArray(t, 3)},
		emptyCatalog(t), Options{AboutPath: filepath.Join(t.TempDir(), "missing.md")})
	require.Error(t, err)
	assert.False(t, model.IsDataUnavailable(err))
}
