package ml

import (
	"math"
	"sort"

	"github.com/rotisserie/eris"
)

// KNeighbors is a fitted k-nearest-neighbour classifier. FitX holds the
// training rows after imputation and scaling.
type KNeighbors struct {
	NNeighbors int         `json:"n_neighbors"`
	Weights    string      `json:"weights"`
	Metric     string      `json:"metric"`
	Classes    []int       `json:"classes"`
	FitX       [][]float64 `json:"fit_x"`
	FitY       []int       `json:"fit_y"`
}

func (knn *KNeighbors) validate() error {
	if knn.Weights == "" {
		knn.Weights = "uniform"
	}
	if knn.Metric == "" {
		knn.Metric = "euclidean"
	}
	switch knn.Weights {
	case "uniform", "distance":
	default:
		return eris.Errorf("kneighbors: unsupported weights %q", knn.Weights)
	}
	switch knn.Metric {
	case "euclidean", "manhattan":
	default:
		return eris.Errorf("kneighbors: unsupported metric %q", knn.Metric)
	}
	if err := validateClasses(knn.Classes); err != nil {
		return eris.Wrap(err, "kneighbors")
	}
	if len(knn.FitX) == 0 || len(knn.FitX) != len(knn.FitY) {
		return eris.Errorf("kneighbors: %d rows for %d labels", len(knn.FitX), len(knn.FitY))
	}
	if knn.NNeighbors <= 0 || knn.NNeighbors > len(knn.FitX) {
		return eris.Errorf("kneighbors: n_neighbors %d out of range for %d rows", knn.NNeighbors, len(knn.FitX))
	}
	for i, row := range knn.FitX {
		if len(row) != FeatureCount() {
			return eris.Errorf("kneighbors: row %d has %d features", i, len(row))
		}
	}
	for i, label := range knn.FitY {
		if classIndex(knn.Classes, label) < 0 {
			return eris.Errorf("kneighbors: label %d at row %d is not a known class", label, i)
		}
	}
	return nil
}

// Predict returns the class with the largest vote share.
func (knn *KNeighbors) Predict(row []float64) (int, error) {
	proba, err := knn.PredictProba(row)
	if err != nil {
		return 0, err
	}
	return knn.Classes[argmax(proba)], nil
}

// PredictProba returns the (weighted) vote share of each class among the
// nearest neighbours.
func (knn *KNeighbors) PredictProba(row []float64) ([]float64, error) {
	if err := checkWidth(row, len(knn.FitX[0])); err != nil {
		return nil, eris.Wrap(err, "kneighbors")
	}

	distances := make([]float64, len(knn.FitX))
	for i, fit := range knn.FitX {
		distances[i] = knn.distance(row, fit)
	}
	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return distances[order[a]] < distances[order[b]]
	})
	nearest := order[:knn.NNeighbors]

	weights := make([]float64, len(nearest))
	exact := false
	for _, idx := range nearest {
		if distances[idx] == 0 {
			exact = true
			break
		}
	}
	for i, idx := range nearest {
		switch {
		case knn.Weights == "uniform":
			weights[i] = 1
		case exact:
			// exact matches take all the weight
			if distances[idx] == 0 {
				weights[i] = 1
			}
		default:
			weights[i] = 1 / distances[idx]
		}
	}

	proba := make([]float64, len(knn.Classes))
	total := 0.0
	for i, idx := range nearest {
		proba[classIndex(knn.Classes, knn.FitY[idx])] += weights[i]
		total += weights[i]
	}
	for i := range proba {
		proba[i] /= total
	}
	return proba, nil
}

func (knn *KNeighbors) distance(a, b []float64) float64 {
	sum := 0.0
	if knn.Metric == "manhattan" {
		for i := range a {
			sum += math.Abs(a[i] - b[i])
		}
		return sum
	}
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func validateClasses(classes []int) error {
	if len(classes) != 2 {
		return eris.Errorf("expected 2 classes, got %d", len(classes))
	}
	if classes[0] >= classes[1] {
		return eris.Errorf("classes must be sorted and distinct: %v", classes)
	}
	return nil
}

func classIndex(classes []int, label int) int {
	for i, c := range classes {
		if c == label {
			return i
		}
	}
	return -1
}

// argmax returns the first index holding the largest value.
func argmax(values []float64) int {
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}
