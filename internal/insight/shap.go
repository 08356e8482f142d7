package insight

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Importance is the mean absolute SHAP value of one feature.
type Importance struct {
	Feature string  `json:"feature"`
	MeanAbs float64 `json:"mean_abs_shap"`
}

// GlobalImportance ranks features by mean |SHAP| over all rows, highest
// first. Ties keep column order.
func GlobalImportance(a *model.ExplainabilityArray) []Importance {
	if a.Rows == 0 {
		return nil
	}
	out := make([]Importance, a.Cols)
	col := make([]float64, a.Rows)
	for j := 0; j < a.Cols; j++ {
		for i := 0; i < a.Rows; i++ {
			col[i] = math.Abs(a.At(i, j))
		}
		out[j] = Importance{Feature: a.Features[j], MeanAbs: stat.Mean(col, nil)}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MeanAbs > out[j].MeanAbs })
	return out
}

// Direction tells which label a SHAP value pushes towards.
type Direction string

const (
	TowardFraud      Direction = "fraud"
	TowardLegitimate Direction = "legitimate"
	Neutral          Direction = "neutral"
)

// Contribution is one feature's attribution for a single provider.
type Contribution struct {
	Feature   string    `json:"feature"`
	Value     float64   `json:"shap_value"`
	Direction Direction `json:"direction"`
}

// TopContributions returns up to n attributions of row index ordered by
// |value|, or nil when the array has no such row. n <= 0 returns all.
func TopContributions(a *model.ExplainabilityArray, index, n int) []Contribution {
	row, ok := a.Row(index)
	if !ok {
		return nil
	}
	out := make([]Contribution, len(row))
	for j, v := range row {
		d := Neutral
		switch {
		case v > 0:
			d = TowardFraud
		case v < 0:
			d = TowardLegitimate
		}
		out[j] = Contribution{Feature: a.Features[j], Value: v, Direction: d}
	}
	sort.SliceStable(out, func(i, j int) bool { return math.Abs(out[i].Value) > math.Abs(out[j].Value) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
