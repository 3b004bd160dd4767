package ml

import "math"

// PatientFeatures is the single-record input the artifacts were fitted on.
type PatientFeatures struct {
	PRG       float64 `json:"PRG"`
	PL        float64 `json:"PL"`
	PR        float64 `json:"PR"`
	SK        float64 `json:"SK"`
	TS        float64 `json:"TS"`
	M11       float64 `json:"M11"`
	BD2       float64 `json:"BD2"`
	Age       float64 `json:"Age"`
	Insurance int     `json:"Insurance"`
}

var featureNames = []string{"PRG", "PL", "PR", "SK", "TS", "M11", "BD2", "Age", "Insurance"}

// FeatureNames returns the column order the imputer and scaler were fitted on.
func FeatureNames() []string {
	return append([]string(nil), featureNames...)
}

// FeatureCount is the width of a row built by Vector.
func FeatureCount() int {
	return len(featureNames)
}

// Vector builds the row in FeatureNames order.
func (f PatientFeatures) Vector() []float64 {
	return []float64{
		f.PRG,
		f.PL,
		f.PR,
		f.SK,
		f.TS,
		f.M11,
		f.BD2,
		f.Age,
		float64(f.Insurance),
	}
}

func sameColumns(names []string) bool {
	if len(names) != len(featureNames) {
		return false
	}
	for i, name := range names {
		if name != featureNames[i] {
			return false
		}
	}
	return true
}

func hasNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
