package prediction

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"sepsisapi/ml"
)

const (
	positiveExplanation = "Sepsis is a life-threatening condition caused by an infection. A positive prediction suggests that the patient might be exhibiting sepsis symptoms and requires immediate medical attention."
	negativeExplanation = "Sepsis is a life-threatening condition caused by an infection. A negative prediction suggests that the patient is not currently exhibiting sepsis symptoms."
)

// FormatStatement builds the human-readable verdict with the probability
// rounded to two decimals.
func FormatStatement(status string, probability float64) string {
	icon, explanation := "✘", negativeExplanation
	if status == StatusPositive {
		icon, explanation = "✔", positiveExplanation
	}
	return fmt.Sprintf("The patient's sepsis status is %s %s with a probability of %s. %s",
		status, icon, strconv.FormatFloat(probability, 'f', 2, 64), explanation)
}

// FormatUserInput echoes the raw record, keys in column order.
func FormatUserInput(f ml.PatientFeatures) string {
	values := f.Vector()
	names := ml.FeatureNames()
	parts := make([]string, len(names))
	for i, name := range names {
		value := formatFloat(values[i])
		if name == "Insurance" {
			value = strconv.Itoa(f.Insurance)
		}
		parts[i] = "'" + name + "': " + value
	}
	return "Please note this is the user-inputted data: {" + strings.Join(parts, ", ") + "}"
}

// formatFloat renders the shortest round-trip form, always with a decimal
// point or exponent: 2.0, 0.5, 1e-05, 1e+16.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err == nil && (exp < -4 || exp >= 16) {
		return sci
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
