// Package insight derives the EDA and explainability summaries shown by
// the dashboard from the loaded artifacts.
package insight

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/rotisserie/eris"
	"gonum.org/v1/gonum/stat"

	"github.com/sells-group/fraud-dashboard/internal/model"
)

// Summary describes the distribution of one feature. Percentiles use the
// nearest-rank method.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	StdDev float64 `json:"std"`
}

// FeatureInsight is the per-feature block of the EDA view.
type FeatureInsight struct {
	Feature    string  `json:"feature"`
	All        Summary `json:"all"`
	Fraudulent Summary `json:"fraudulent"`
	Legitimate Summary `json:"legitimate"`
	// LabelCorrelation is the Pearson correlation with PotentialFraud; nil
	// when undefined (constant feature or a single class).
	LabelCorrelation *float64 `json:"label_correlation,omitempty"`
}

// ClassBalance counts providers per label.
type ClassBalance struct {
	Total      int     `json:"total"`
	Fraudulent int     `json:"fraudulent"`
	Legitimate int     `json:"legitimate"`
	FraudRate  float64 `json:"fraud_rate"`
}

// Balance returns the label counts of t.
func Balance(t *model.FeatureTable) ClassBalance {
	b := ClassBalance{Total: t.Len(), Fraudulent: t.FraudCount()}
	b.Legitimate = b.Total - b.Fraudulent
	if b.Total > 0 {
		b.FraudRate = float64(b.Fraudulent) / float64(b.Total)
	}
	return b
}

// Summarize computes the distribution summary of values. An empty input
// yields a zero Summary.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, nil
	}
	data := stats.Float64Data(values)
	s := Summary{Count: len(values)}

	var err error
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, eris.Wrap(err, "insight: min")
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, eris.Wrap(err, "insight: max")
	}
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, eris.Wrap(err, "insight: mean")
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, eris.Wrap(err, "insight: median")
	}
	if s.P25, err = stats.PercentileNearestRank(data, 25); err != nil {
		return Summary{}, eris.Wrap(err, "insight: p25")
	}
	if s.P75, err = stats.PercentileNearestRank(data, 75); err != nil {
		return Summary{}, eris.Wrap(err, "insight: p75")
	}
	if len(values) > 1 {
		if s.StdDev, err = stats.StandardDeviationSample(data); err != nil {
			return Summary{}, eris.Wrap(err, "insight: std")
		}
	}
	return s, nil
}

// FeatureInsights summarizes every feature column overall and per label,
// in column order.
func FeatureInsights(t *model.FeatureTable) ([]FeatureInsight, error) {
	labels := t.Labels()
	out := make([]FeatureInsight, 0, len(t.Columns))

	for _, name := range t.Columns {
		col, _ := t.Column(name)

		var fraud, legit []float64
		for i, v := range col {
			if t.Rows[i].Fraudulent() {
				fraud = append(fraud, v)
			} else {
				legit = append(legit, v)
			}
		}

		fi := FeatureInsight{Feature: name}
		var err error
		if fi.All, err = Summarize(col); err != nil {
			return nil, eris.Wrapf(err, "insight: feature %s", name)
		}
		if fi.Fraudulent, err = Summarize(fraud); err != nil {
			return nil, eris.Wrapf(err, "insight: feature %s", name)
		}
		if fi.Legitimate, err = Summarize(legit); err != nil {
			return nil, eris.Wrapf(err, "insight: feature %s", name)
		}

		if len(col) > 1 {
			if r := stat.Correlation(col, labels, nil); !math.IsNaN(r) && !math.IsInf(r, 0) {
				fi.LabelCorrelation = &r
			}
		}
		out = append(out, fi)
	}
	return out, nil
}
