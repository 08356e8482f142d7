package dashboard

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/artifact"
	"github.com/sells-group/fraud-dashboard/internal/insight"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// MaxPageSize caps the explorer page length.
const MaxPageSize = 1000

// Query carries the read-only controls of a view. Views ignore the fields
// they do not use.
type Query struct {
	Filter   model.ProviderFilter `json:"filter"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	Provider string               `json:"provider,omitempty"`
}

// Page is a rendered view. Exactly one payload field is set, matching View.
type Page struct {
	View  View   `json:"-"`
	Slug  string `json:"view"`
	Title string `json:"title"`

	Overview       *OverviewData       `json:"overview,omitempty"`
	EDA            *EDAData            `json:"eda,omitempty"`
	Explorer       *ExplorerData       `json:"explorer,omitempty"`
	Explainability *ExplainabilityData `json:"explainability,omitempty"`
	About          *AboutData          `json:"about,omitempty"`
}

// PlotStatus is a global plot plus whether its image exists.
type PlotStatus struct {
	artifact.Plot
	Available bool `json:"available"`
}

// OverviewData is the payload of the Overview view.
type OverviewData struct {
	SnapshotID string               `json:"snapshot_id"`
	Balance    insight.ClassBalance `json:"balance"`
	Features   int                  `json:"features"`
	ShapRows   int                  `json:"shap_rows"`
	Aligned    bool                 `json:"aligned"`
	Plots      []PlotStatus         `json:"plots"`
}

// EDAData is the payload of the EDA & Feature Insights view.
type EDAData struct {
	Balance  insight.ClassBalance     `json:"balance"`
	Features []insight.FeatureInsight `json:"features"`
	Plots    []PlotStatus             `json:"plots"`
}

// ExplorerData is the payload of the Provider Explorer view.
type ExplorerData struct {
	Filter  model.ProviderFilter `json:"filter"`
	Total   int                  `json:"total"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
	Records []model.Record       `json:"records"`
}

// ExplainabilityData is the payload of the Model Explainability view.
type ExplainabilityData struct {
	Lookup     *LookupResult        `json:"lookup,omitempty"`
	Importance []insight.Importance `json:"importance"`
	Plots      []PlotStatus         `json:"plots"`
}

// AboutData is the payload of the About / Docs view.
type AboutData struct {
	HTML string `json:"html"`
}

// LookupResult is the outcome of a provider lookup. A provider that is not
// in the table, or whose waterfall image is missing, is reported through
// Message rather than as an error.
type LookupResult struct {
	Provider           string                 `json:"provider"`
	Found              bool                   `json:"found"`
	Index              int                    `json:"index"`
	Record             *model.Record          `json:"record,omitempty"`
	WaterfallFile      string                 `json:"waterfall_file,omitempty"`
	WaterfallAvailable bool                   `json:"waterfall_available"`
	Contributions      []insight.Contribution `json:"contributions"`
	Message            string                 `json:"message,omitempty"`
}

// Render builds the payload of view v.
func (s *Snapshot) Render(v View, q Query) (*Page, error) {
	page := &Page{View: v, Slug: v.Slug(), Title: v.Title()}

	switch v {
	case ViewOverview:
		page.Overview = s.overview()
	case ViewEDA:
		page.EDA = s.eda()
	case ViewExplorer:
		data, err := s.Explore(q)
		if err != nil {
			return nil, err
		}
		page.Explorer = data
	case ViewExplainability:
		page.Explainability = s.explainability(q.Provider)
	case ViewAbout:
		page.About = &AboutData{HTML: string(s.about)}
	default:
		return nil, eris.Wrapf(ErrUnknownView, "dashboard: render %s", v)
	}
	return page, nil
}

func (s *Snapshot) overview() *OverviewData {
	return &OverviewData{
		SnapshotID: s.ID,
		Balance:    s.balance,
		Features:   len(s.Table.Columns),
		ShapRows:   s.Array.Rows,
		Aligned:    s.aligned,
		Plots:      s.plots(),
	}
}

func (s *Snapshot) eda() *EDAData {
	return &EDAData{
		Balance:  s.balance,
		Features: s.features,
		Plots:    s.plots(),
	}
}

func (s *Snapshot) explainability(provider string) *ExplainabilityData {
	data := &ExplainabilityData{
		Importance: s.importance,
		Plots:      s.plots(),
	}
	if strings.TrimSpace(provider) != "" {
		res := s.Lookup(provider)
		data.Lookup = &res
	}
	return data
}

func (s *Snapshot) plots() []PlotStatus {
	missing := make(map[string]bool)
	for _, p := range s.Catalog.MissingGlobal() {
		missing[p.Name] = true
	}
	out := make([]PlotStatus, 0, len(s.Catalog.Global()))
	for _, p := range s.Catalog.Global() {
		out = append(out, PlotStatus{Plot: p, Available: !missing[p.Name]})
	}
	return out
}

// Explore applies the explorer filter and returns one page of matching
// records in table order.
func (s *Snapshot) Explore(q Query) (*ExplorerData, error) {
	if err := q.Filter.Validate(); err != nil {
		return nil, err
	}
	if q.Offset < 0 {
		return nil, eris.Errorf("dashboard: offset must be non-negative, got %d", q.Offset)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = s.opts.PageSize
	}
	limit = min(limit, MaxPageSize)

	idx := model.FilterIndices(s.Table, q.Filter)
	data := &ExplorerData{
		Filter:  q.Filter,
		Total:   len(idx),
		Limit:   limit,
		Offset:  q.Offset,
		Records: []model.Record{},
	}
	if q.Offset >= len(idx) {
		return data, nil
	}
	end := min(q.Offset+limit, len(idx))
	for _, i := range idx[q.Offset:end] {
		data.Records = append(data.Records, s.Table.Record(i))
	}
	return data, nil
}

// Filtered returns every provider that passes f, in table order.
func (s *Snapshot) Filtered(f model.ProviderFilter) ([]model.Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	idx := model.FilterIndices(s.Table, f)
	out := make([]model.Record, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.Table.Record(i))
	}
	return out, nil
}

// Lookup resolves a provider to its row, waterfall image and SHAP
// contributions.
func (s *Snapshot) Lookup(provider string) LookupResult {
	provider = strings.TrimSpace(provider)
	res := LookupResult{Provider: provider, Index: -1, Contributions: []insight.Contribution{}}

	i, ok := s.Table.IndexOf(provider)
	if !ok {
		res.Message = fmt.Sprintf("Provider %s not found in the feature table.", provider)
		return res
	}
	rec := s.Table.Record(i)
	res.Found = true
	res.Index = i
	res.Record = &rec
	if c := insight.TopContributions(s.Array, i, s.opts.TopFeatures); c != nil {
		res.Contributions = c
	}

	if _, err := s.Catalog.Waterfall(i); eris.Is(err, artifact.ErrArtifactNotFound) {
		res.Message = fmt.Sprintf("Waterfall plot not found for provider %s (index %d).", provider, i)
		return res
	}
	res.WaterfallFile = s.Catalog.WaterfallFile(i)
	res.WaterfallAvailable = true
	return res
}
