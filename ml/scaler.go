package ml

import (
	"github.com/rotisserie/eris"
)

// Scaler standardizes each column with the mean and scale learned at fit time.
type Scaler struct {
	Mean         []float64 `json:"mean"`
	Scale        []float64 `json:"scale"`
	FeatureNames []string  `json:"feature_names,omitempty"`
}

func (s *Scaler) validate() error {
	if len(s.Mean) != FeatureCount() || len(s.Scale) != FeatureCount() {
		return eris.Errorf("scaler: expected %d mean/scale values, got %d/%d", FeatureCount(), len(s.Mean), len(s.Scale))
	}
	if hasNaN(s.Mean) || hasNaN(s.Scale) {
		return eris.New("scaler: parameters contain NaN")
	}
	if len(s.FeatureNames) > 0 && !sameColumns(s.FeatureNames) {
		return eris.Errorf("scaler: fitted on columns %v, want %v", s.FeatureNames, featureNames)
	}
	return nil
}

// Transform returns (x - mean) / scale per column. A zero scale counts as 1,
// matching how constant columns are fitted.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if err := checkWidth(row, len(s.Mean)); err != nil {
		return nil, eris.Wrap(err, "scaler")
	}
	out := make([]float64, len(row))
	for i, v := range row {
		scale := s.Scale[i]
		if scale == 0 {
			scale = 1
		}
		out[i] = (v - s.Mean[i]) / scale
	}
	return out, nil
}
