package model

import "github.com/rotisserie/eris"

// Fraud label values carried by the PotentialFraud column.
const (
	LegitimateLabel = 0
	FraudLabel      = 1
)

// Provider is one row of the Feature Table.
type Provider struct {
	ID       string    `json:"provider"`
	Features []float64 `json:"features"` // aligned with FeatureTable.Columns
	Label    int       `json:"potential_fraud"`
}

// Fraudulent reports whether the provider carries the fraud label.
func (p Provider) Fraudulent() bool {
	return p.Label == FraudLabel
}

// FeatureTable is the ordered provider-level dataset. Row order is the
// source order and defines the positional index shared with the
// Explainability Array. A FeatureTable is never mutated after construction.
type FeatureTable struct {
	Columns      []string
	ClaimsColumn string
	Rows         []Provider

	colIndex   map[string]int
	byProvider map[string]int
	claimsIdx  int
}

// NewFeatureTable builds a FeatureTable with indexed lookups. It enforces
// the table invariants: unique non-empty provider IDs, one value per
// declared column, binary labels and a claims column among the features.
func NewFeatureTable(columns []string, claimsColumn string, rows []Provider) (*FeatureTable, error) {
	t := &FeatureTable{
		Columns:      columns,
		ClaimsColumn: claimsColumn,
		Rows:         rows,
		colIndex:     make(map[string]int, len(columns)),
		byProvider:   make(map[string]int, len(rows)),
		claimsIdx:    -1,
	}
	for i, c := range columns {
		if _, dup := t.colIndex[c]; dup {
			return nil, eris.Errorf("model: duplicate feature column %q", c)
		}
		t.colIndex[c] = i
	}
	idx, ok := t.colIndex[claimsColumn]
	if !ok {
		return nil, eris.Errorf("model: claims column %q not among feature columns", claimsColumn)
	}
	t.claimsIdx = idx

	for i, r := range rows {
		if r.ID == "" {
			return nil, eris.Errorf("model: row %d has an empty provider id", i)
		}
		if len(r.Features) != len(columns) {
			return nil, eris.Errorf("model: provider %s has %d values, want %d", r.ID, len(r.Features), len(columns))
		}
		if r.Label != LegitimateLabel && r.Label != FraudLabel {
			return nil, eris.Errorf("model: provider %s has label %d, want 0 or 1", r.ID, r.Label)
		}
		if _, dup := t.byProvider[r.ID]; dup {
			return nil, eris.Errorf("model: duplicate provider %s", r.ID)
		}
		t.byProvider[r.ID] = i
	}
	return t, nil
}

// Len returns the number of providers.
func (t *FeatureTable) Len() int {
	return len(t.Rows)
}

// IndexOf returns the positional index of the first row whose provider ID
// equals id.
func (t *FeatureTable) IndexOf(id string) (int, bool) {
	i, ok := t.byProvider[id]
	if !ok {
		return -1, false
	}
	return i, true
}

// ColumnIndex returns the position of a feature column.
func (t *FeatureTable) ColumnIndex(name string) (int, bool) {
	i, ok := t.colIndex[name]
	return i, ok
}

// Claims returns the claims count of row i.
func (t *FeatureTable) Claims(i int) float64 {
	return t.Rows[i].Features[t.claimsIdx]
}

// Column returns a copy of all values of one feature column in row order.
func (t *FeatureTable) Column(name string) ([]float64, bool) {
	ci, ok := t.colIndex[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Features[ci]
	}
	return out, true
}

// Labels returns the label of every row as float64, in row order.
func (t *FeatureTable) Labels() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = float64(r.Label)
	}
	return out
}

// FraudCount returns the number of rows labelled fraudulent.
func (t *FeatureTable) FraudCount() int {
	n := 0
	for _, r := range t.Rows {
		if r.Fraudulent() {
			n++
		}
	}
	return n
}

// Record is the JSON projection of one Feature Table row.
type Record struct {
	Index          int                `json:"index"`
	Provider       string             `json:"Provider"`
	PotentialFraud int                `json:"PotentialFraud"`
	Features       map[string]float64 `json:"features"`
}

// Record projects row i.
func (t *FeatureTable) Record(i int) Record {
	r := t.Rows[i]
	feats := make(map[string]float64, len(t.Columns))
	for ci, c := range t.Columns {
		feats[c] = r.Features[ci]
	}
	return Record{
		Index:          i,
		Provider:       r.ID,
		PotentialFraud: r.Label,
		Features:       feats,
	}
}
