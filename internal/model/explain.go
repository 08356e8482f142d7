package model

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
)

// ExplainabilityArray is a row-major matrix of per-feature attribution
// scores. Row i corresponds positionally to FeatureTable row i.
type ExplainabilityArray struct {
	Rows     int
	Cols     int
	Features []string
	Data     []float64
}

// NewExplainabilityArray checks that data holds rows*cols values. Missing
// feature names are filled with feature_<n>.
func NewExplainabilityArray(rows, cols int, features []string, data []float64) (*ExplainabilityArray, error) {
	if rows < 0 || cols < 0 {
		return nil, eris.Errorf("model: invalid shape (%d, %d)", rows, cols)
	}
	if cols > 0 && rows > math.MaxInt/cols {
		return nil, eris.Errorf("model: shape (%d, %d) overflows", rows, cols)
	}
	if len(data) != rows*cols {
		return nil, eris.Errorf("model: shape (%d, %d) needs %d values, got %d", rows, cols, rows*cols, len(data))
	}
	if len(features) != cols {
		features = GenericFeatureNames(cols)
	}
	return &ExplainabilityArray{Rows: rows, Cols: cols, Features: features, Data: data}, nil
}

// GenericFeatureNames returns feature_0..feature_{n-1}.
func GenericFeatureNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("feature_%d", i)
	}
	return out
}

// Row returns the attribution scores of row i, or false when the array has
// no such row.
func (a *ExplainabilityArray) Row(i int) ([]float64, bool) {
	if i < 0 || i >= a.Rows {
		return nil, false
	}
	return a.Data[i*a.Cols : (i+1)*a.Cols], true
}

// At returns the score of feature j in row i.
func (a *ExplainabilityArray) At(i, j int) float64 {
	return a.Data[i*a.Cols+j]
}

// WithFeatures returns a copy of the array header that uses names for its
// columns. The data slice is shared; neither copy is ever written.
func (a *ExplainabilityArray) WithFeatures(names []string) *ExplainabilityArray {
	if len(names) != a.Cols {
		return a
	}
	cp := *a
	cp.Features = names
	return &cp
}
