package dashboard

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/fraud-dashboard/internal/insight"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

func TestRender_EveryViewHasOnePayload(t *testing.T) {
	s := newSnapshot(t, Options{})

	for _, v := range Views {
		t.Run(v.Slug(), func(t *testing.T) {
			page, err := s.Render(v, Query{})
			require.NoError(t, err)
			assert.Equal(t, v, page.View)
			assert.Equal(t, v.Slug(), page.Slug)
			assert.Equal(t, v.Title(), page.Title)

			set := 0
			for _, p := range []bool{
				page.Overview != nil,
				page.EDA != nil,
				page.Explorer != nil,
				page.Explainability != nil,
				page.About != nil,
			} {
				if p {
					set++
				}
			}
			assert.Equal(t, 1, set)
		})
	}
}

func TestRender_UnknownView(t *testing.T) {
	s := newSnapshot(t, Options{})
	_, err := s.Render(View(9), Query{})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrUnknownView))
}

func TestRender_Overview(t *testing.T) {
	s := newSnapshot(t, Options{})
	page, err := s.Render(ViewOverview, Query{})
	require.NoError(t, err)

	ov := page.Overview
	assert.Equal(t, s.ID, ov.SnapshotID)
	assert.Equal(t, 3, ov.Balance.Total)
	assert.InDelta(t, 2.0/3, ov.Balance.FraudRate, 1e-9)
	assert.Equal(t, 2, ov.Features)
	assert.True(t, ov.Aligned)

	require.Len(t, ov.Plots, 2)
	assert.Equal(t, "beeswarm", ov.Plots[0].Name)
	assert.True(t, ov.Plots[0].Available)
	assert.Equal(t, "global_bar", ov.Plots[1].Name)
	assert.False(t, ov.Plots[1].Available)
}

func TestRender_EDA(t *testing.T) {
	s := newSnapshot(t, Options{})
	page, err := s.Render(ViewEDA, Query{})
	require.NoError(t, err)

	require.Len(t, page.EDA.Features, 2)
	claims := page.EDA.Features[0]
	assert.Equal(t, "total_claims", claims.Feature)
	assert.Equal(t, 3, claims.All.Count)
	assert.Equal(t, 2, claims.Fraudulent.Count)
	assert.Equal(t, 1, claims.Legitimate.Count)
	assert.InDelta(t, 12, claims.All.Max, 1e-9)
}

func TestRender_ExplorerFraudulentOverTen(t *testing.T) {
	s := newSnapshot(t, Options{})
	page, err := s.Render(ViewExplorer, Query{
		Filter: model.ProviderFilter{Label: model.LabelFraudulent, MinClaims: 10},
	})
	require.NoError(t, err)

	ex := page.Explorer
	assert.Equal(t, 1, ex.Total)
	require.Len(t, ex.Records, 1)
	assert.Equal(t, "P2", ex.Records[0].Provider)
	assert.Equal(t, 1, ex.Records[0].Index)
}

func TestRender_ExplorerAllRows(t *testing.T) {
	s := newSnapshot(t, Options{})
	page, err := s.Render(ViewExplorer, Query{Filter: model.ProviderFilter{Label: model.LabelAll}})
	require.NoError(t, err)

	var ids []string
	for _, r := range page.Explorer.Records {
		ids = append(ids, r.Provider)
	}
	assert.Equal(t, []string{"P1", "P2", "P3"}, ids)
}

func TestExplore_Paging(t *testing.T) {
	s := newSnapshot(t, Options{PageSize: 2})

	first, err := s.Explore(Query{})
	require.NoError(t, err)
	assert.Equal(t, 3, first.Total)
	assert.Equal(t, 2, first.Limit)
	require.Len(t, first.Records, 2)
	assert.Equal(t, "P1", first.Records[0].Provider)

	second, err := s.Explore(Query{Offset: 2})
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	assert.Equal(t, "P3", second.Records[0].Provider)

	past, err := s.Explore(Query{Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, past.Total)
	assert.Empty(t, past.Records)
	assert.NotNil(t, past.Records)
}

func TestExplore_LimitCapped(t *testing.T) {
	s := newSnapshot(t, Options{})
	data, err := s.Explore(Query{Limit: MaxPageSize * 10})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, data.Limit)
}

func TestExplore_RejectsBadInput(t *testing.T) {
	s := newSnapshot(t, Options{})

	_, err := s.Explore(Query{Filter: model.ProviderFilter{MinClaims: -1}})
	assert.Error(t, err)

	_, err = s.Explore(Query{Offset: -1})
	assert.Error(t, err)
}

func TestFiltered(t *testing.T) {
	s := newSnapshot(t, Options{})

	recs, err := s.Filtered(model.ProviderFilter{Label: model.LabelLegitimate})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "P1", recs[0].Provider)

	_, err = s.Filtered(model.ProviderFilter{MinClaims: -5})
	assert.Error(t, err)
}

func TestLookup_MissingWaterfallIsNotFoundState(t *testing.T) {
	s := newSnapshot(t, Options{})

	res := s.Lookup("P3")
	assert.True(t, res.Found)
	assert.Equal(t, 2, res.Index)
	require.NotNil(t, res.Record)
	assert.Equal(t, "P3", res.Record.Provider)
	assert.False(t, res.WaterfallAvailable)
	assert.Empty(t, res.WaterfallFile)
	assert.Contains(t, res.Message, "not found")
	assert.Contains(t, res.Message, "index 2")
}

func TestLookup_WaterfallAvailable(t *testing.T) {
	s := newSnapshot(t, Options{})

	res := s.Lookup("P2")
	assert.True(t, res.Found)
	assert.Equal(t, 1, res.Index)
	assert.True(t, res.WaterfallAvailable)
	assert.Equal(t, "shap_waterfall_full_1.png", res.WaterfallFile)
	assert.Empty(t, res.Message)
}

func TestLookup_UnknownProvider(t *testing.T) {
	s := newSnapshot(t, Options{})

	res := s.Lookup("P404")
	assert.False(t, res.Found)
	assert.Equal(t, -1, res.Index)
	assert.Nil(t, res.Record)
	assert.Contains(t, res.Message, "P404 not found")
}

func TestLookup_StableAcrossCalls(t *testing.T) {
	s := newSnapshot(t, Options{})
	first := s.Lookup("P3")
	for i := 0; i < 5; i++ {
		assert.Equal(t, first.Index, s.Lookup("P3").Index)
	}
}

func TestLookup_TopContributions(t *testing.T) {
	s := newSnapshot(t, Options{TopFeatures: 1})

	res := s.Lookup("P3")
	require.Len(t, res.Contributions, 1)
	assert.Equal(t, "total_claims", res.Contributions[0].Feature)
	assert.InDelta(t, 0.3, res.Contributions[0].Value, 1e-9)
	assert.Equal(t, insight.TowardFraud, res.Contributions[0].Direction)
}

func TestRender_Explainability(t *testing.T) {
	s := newSnapshot(t, Options{})

	page, err := s.Render(ViewExplainability, Query{})
	require.NoError(t, err)
	assert.Nil(t, page.Explainability.Lookup)
	require.Len(t, page.Explainability.Importance, 2)
	assert.Equal(t, "total_claims", page.Explainability.Importance[0].Feature)
	assert.InDelta(t, 0.2, page.Explainability.Importance[0].MeanAbs, 1e-9)

	page, err = s.Render(ViewExplainability, Query{Provider: "P3"})
	require.NoError(t, err)
	require.NotNil(t, page.Explainability.Lookup)
	assert.Equal(t, 2, page.Explainability.Lookup.Index)
	assert.False(t, page.Explainability.Lookup.WaterfallAvailable)
}

func TestRender_AboutDefault(t *testing.T) {
	s := newSnapshot(t, Options{})
	page, err := s.Render(ViewAbout, Query{})
	require.NoError(t, err)
	assert.Contains(t, page.About.HTML, "Healthcare Fraud Detection Dashboard</h1>")
	assert.Contains(t, page.About.HTML, "<table>")
}
