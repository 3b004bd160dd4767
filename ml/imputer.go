package ml

import (
	"math"

	"github.com/rotisserie/eris"
)

// Imputer fills NaN cells with the per-column statistic learned at fit time.
type Imputer struct {
	Strategy     string    `json:"strategy"`
	Statistics   []float64 `json:"statistics"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

func (imp *Imputer) validate() error {
	switch imp.Strategy {
	case "mean", "median", "most_frequent", "constant":
	default:
		return eris.Errorf("imputer: unsupported strategy %q", imp.Strategy)
	}
	if len(imp.Statistics) != FeatureCount() {
		return eris.Errorf("imputer: expected %d statistics, got %d", FeatureCount(), len(imp.Statistics))
	}
	if hasNaN(imp.Statistics) {
		return eris.New("imputer: statistics contain NaN")
	}
	if len(imp.FeatureNames) > 0 && !sameColumns(imp.FeatureNames) {
		return eris.Errorf("imputer: fitted on columns %v, want %v", imp.FeatureNames, featureNames)
	}
	return nil
}

// Transform returns a copy of row with NaN cells replaced by the fitted statistics.
func (imp *Imputer) Transform(row []float64) ([]float64, error) {
	if err := checkWidth(row, len(imp.Statistics)); err != nil {
		return nil, eris.Wrap(err, "imputer")
	}
	out := make([]float64, len(row))
	for i, v := range row {
		if math.IsNaN(v) {
			v = imp.Statistics[i]
		}
		out[i] = v
	}
	return out, nil
}
