package model

import (
	"strings"

	"github.com/rotisserie/eris"
)

// LabelFilter selects providers by fraud label.
type LabelFilter string

const (
	LabelAll        LabelFilter = "all"
	LabelFraudulent LabelFilter = "fraudulent"
	LabelLegitimate LabelFilter = "legitimate"
)

// ParseLabelFilter parses the label control value. Empty means LabelAll.
func ParseLabelFilter(s string) (LabelFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return LabelAll, nil
	case "fraudulent", "fraud", "1", "yes":
		return LabelFraudulent, nil
	case "legitimate", "legit", "0", "no":
		return LabelLegitimate, nil
	default:
		return "", eris.Errorf("model: unknown label filter %q", s)
	}
}

// Matches reports whether a row label passes the filter.
func (f LabelFilter) Matches(label int) bool {
	switch f {
	case LabelFraudulent:
		return label == FraudLabel
	case LabelLegitimate:
		return label == LegitimateLabel
	default:
		return true
	}
}

// ProviderFilter holds the Provider Explorer controls.
type ProviderFilter struct {
	Label     LabelFilter `json:"label"`
	MinClaims int         `json:"min_claims"`
}

// Validate rejects negative thresholds.
func (f ProviderFilter) Validate() error {
	if f.MinClaims < 0 {
		return eris.Errorf("model: min_claims must be non-negative, got %d", f.MinClaims)
	}
	return nil
}

// FilterIndices returns the positional indices of the rows that pass f,
// in source order.
func FilterIndices(t *FeatureTable, f ProviderFilter) []int {
	var out []int
	minClaims := float64(f.MinClaims)
	for i, r := range t.Rows {
		if !f.Label.Matches(r.Label) {
			continue
		}
		if t.Claims(i) < minClaims {
			continue
		}
		out = append(out, i)
	}
	return out
}

// FilterProviders returns the rows that pass f, preserving source order.
func FilterProviders(t *FeatureTable, f ProviderFilter) []Provider {
	idx := FilterIndices(t, f)
	out := make([]Provider, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.Rows[i])
	}
	return out
}
