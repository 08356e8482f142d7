package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func providerIDs(rows []Provider) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

func TestFilterProviders_FraudulentMinOne(t *testing.T) {
	tbl := sampleTable(t)
	got := FilterProviders(tbl, ProviderFilter{Label: LabelFraudulent, MinClaims: 1})
	assert.Equal(t, []string{"P2"}, providerIDs(got))
}

func TestFilterProviders_AllZero(t *testing.T) {
	tbl := sampleTable(t)
	got := FilterProviders(tbl, ProviderFilter{Label: LabelAll, MinClaims: 0})
	assert.Equal(t, []string{"P1", "P2", "P3"}, providerIDs(got))
}

func TestFilterProviders_Legitimate(t *testing.T) {
	tbl := sampleTable(t)
	got := FilterProviders(tbl, ProviderFilter{Label: LabelLegitimate, MinClaims: 6})
	assert.Empty(t, got)

	got = FilterProviders(tbl, ProviderFilter{Label: LabelLegitimate})
	assert.Equal(t, []string{"P1"}, providerIDs(got))
}

func TestFilterProviders_Properties(t *testing.T) {
	tbl, err := NewFeatureTable([]string{"total_claims"}, "total_claims", []Provider{
		{ID: "A", Features: []float64{3}, Label: 1},
		{ID: "B", Features: []float64{0}, Label: 0},
		{ID: "C", Features: []float64{9}, Label: 0},
		{ID: "D", Features: []float64{7}, Label: 1},
		{ID: "E", Features: []float64{1}, Label: 1},
		{ID: "F", Features: []float64{15}, Label: 0},
	})
	require.NoError(t, err)

	for _, label := range []LabelFilter{LabelAll, LabelFraudulent, LabelLegitimate} {
		for minClaims := 0; minClaims <= 16; minClaims++ {
			f := ProviderFilter{Label: label, MinClaims: minClaims}
			idx := FilterIndices(tbl, f)

			// Strictly increasing positions: a subsequence in source order.
			for k := 1; k < len(idx); k++ {
				assert.Less(t, idx[k-1], idx[k])
			}

			kept := make(map[int]bool, len(idx))
			for _, i := range idx {
				kept[i] = true
			}
			for i, r := range tbl.Rows {
				passes := label.Matches(r.Label) && tbl.Claims(i) >= float64(minClaims)
				assert.Equal(t, passes, kept[i], "label=%s min=%d row=%s", label, minClaims, r.ID)
			}

			// Deterministic.
			assert.Equal(t, idx, FilterIndices(tbl, f))
		}
	}
}

func TestParseLabelFilter(t *testing.T) {
	tests := []struct {
		in   string
		want LabelFilter
	}{
		{"", LabelAll},
		{"All", LabelAll},
		{"Fraudulent", LabelFraudulent},
		{"fraud", LabelFraudulent},
		{"1", LabelFraudulent},
		{"Legitimate", LabelLegitimate},
		{" legit ", LabelLegitimate},
		{"0", LabelLegitimate},
	}
	for _, tt := range tests {
		got, err := ParseLabelFilter(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLabelFilter("maybe")
	assert.Error(t, err)
}

func TestProviderFilter_Validate(t *testing.T) {
	assert.NoError(t, ProviderFilter{MinClaims: 0}.Validate())
	assert.Error(t, ProviderFilter{MinClaims: -1}.Validate())
}
