package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/fraud-dashboard/internal/fetcher"
	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Schema names the special columns of the Feature Table. Every other named
// column is a numeric feature.
type Schema struct {
	IDColumn     string
	LabelColumn  string
	ClaimsColumn string
}

// DefaultSchema matches the upstream provider_features export.
var DefaultSchema = Schema{
	IDColumn:     "Provider",
	LabelColumn:  "PotentialFraud",
	ClaimsColumn: "total_claims",
}

// Parse converts a raw table into a FeatureTable. Pandas index columns
// (blank, "Unnamed: n" or "index" headers) are ignored.
func Parse(raw *fetcher.Table, schema Schema) (*model.FeatureTable, error) {
	if raw == nil || len(raw.Header) == 0 {
		return nil, eris.New("dataset: empty header")
	}

	idCol, labelCol := -1, -1
	var featCols []int
	var featNames []string
	for i, h := range raw.Header {
		switch {
		case h == schema.IDColumn:
			idCol = i
		case h == schema.LabelColumn:
			labelCol = i
		case isIndexColumn(h):
			continue
		default:
			featCols = append(featCols, i)
			featNames = append(featNames, h)
		}
	}
	if idCol < 0 {
		return nil, eris.Errorf("dataset: id column %q not found", schema.IDColumn)
	}
	if labelCol < 0 {
		return nil, eris.Errorf("dataset: label column %q not found", schema.LabelColumn)
	}
	if len(raw.Rows) == 0 {
		return nil, eris.New("dataset: table has no rows")
	}

	rows := make([]model.Provider, 0, len(raw.Rows))
	for n, rec := range raw.Rows {
		line := n + 2 // 1-based, after the header
		if len(rec) != len(raw.Header) {
			return nil, eris.Errorf("dataset: row %d has %d fields, want %d", line, len(rec), len(raw.Header))
		}

		label, err := ParseLabel(rec[labelCol])
		if err != nil {
			return nil, eris.Wrapf(err, "dataset: row %d", line)
		}

		feats := make([]float64, len(featCols))
		for k, ci := range featCols {
			v, err := parseNumber(rec[ci])
			if err != nil {
				return nil, eris.Wrapf(err, "dataset: row %d column %q", line, raw.Header[ci])
			}
			feats[k] = v
		}

		rows = append(rows, model.Provider{
			ID:       strings.TrimSpace(rec[idCol]),
			Features: feats,
			Label:    label,
		})
	}

	tbl, err := model.NewFeatureTable(featNames, schema.ClaimsColumn, rows)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: build table")
	}
	return tbl, nil
}

// ParseLabel accepts 0/1 (also 0.0/1.0), Yes/No and true/false.
func ParseLabel(s string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "1.0", "yes", "y", "true":
		return model.FraudLabel, nil
	case "0", "0.0", "no", "n", "false":
		return model.LegitimateLabel, nil
	default:
		return 0, eris.Errorf("invalid fraud label %q", s)
	}
}

func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, eris.New("missing value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, eris.Errorf("invalid number %q", s)
	}
	if math.IsNaN(v) {
		return 0, eris.New("missing value")
	}
	return v, nil
}

func isIndexColumn(h string) bool {
	return h == "" || h == "index" || h == "level_0" || strings.HasPrefix(h, "Unnamed:")
}
