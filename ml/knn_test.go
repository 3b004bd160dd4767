package ml

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(values ...float64) []float64 {
	out := make([]float64, FeatureCount())
	copy(out, values)
	return out
}

func testKNN(weights string) *KNeighbors {
	return &KNeighbors{
		NNeighbors: 3,
		Weights:    weights,
		Classes:    []int{0, 1},
		FitX: [][]float64{
			row(0),
			row(1),
			row(2),
			row(10),
			row(11),
		},
		FitY: []int{0, 0, 1, 1, 1},
	}
}

func TestKNeighborsUniformVote(t *testing.T) {
	knn := testKNN("uniform")
	require.NoError(t, knn.validate())

	proba, err := knn.PredictProba(row(0.5))
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{2.0 / 3, 1.0 / 3}, proba, 1e-12)

	label, err := knn.Predict(row(0.5))
	require.NoError(t, err)
	assert.Equal(t, 0, label)

	label, err = knn.Predict(row(9))
	require.NoError(t, err)
	assert.Equal(t, 1, label)
}

func TestKNeighborsDistanceWeights(t *testing.T) {
	knn := testKNN("distance")
	require.NoError(t, knn.validate())

	proba, err := knn.PredictProba(row(1.0))
	require.NoError(t, err)
	// exact match on row(1) takes all the weight
	assert.Equal(t, []float64{1, 0}, proba)

	proba, err = knn.PredictProba(row(1.5))
	require.NoError(t, err)
	w0 := 1/1.5 + 1/0.5
	w1 := 1 / 0.5
	assert.InDeltaSlice(t, []float64{w0 / (w0 + w1), w1 / (w0 + w1)}, proba, 1e-12)
}

func TestKNeighborsManhattan(t *testing.T) {
	knn := testKNN("uniform")
	knn.Metric = "manhattan"
	require.NoError(t, knn.validate())
	assert.Equal(t, 4.0, knn.distance(row(1, 1), row(3, -1)))
}

func TestKNeighborsDefaultsAndValidation(t *testing.T) {
	knn := testKNN("")
	require.NoError(t, knn.validate())
	assert.Equal(t, "uniform", knn.Weights)
	assert.Equal(t, "euclidean", knn.Metric)

	bad := testKNN("uniform")
	bad.NNeighbors = 6
	assert.Error(t, bad.validate())

	bad = testKNN("uniform")
	bad.FitY = []int{0, 0, 1, 1, 2}
	assert.Error(t, bad.validate())

	bad = testKNN("uniform")
	bad.Classes = []int{1, 0}
	assert.Error(t, bad.validate())

	bad = testKNN("uniform")
	bad.FitX[2] = []float64{1, 2}
	assert.Error(t, bad.validate())
}

func TestKNeighborsShapeMismatch(t *testing.T) {
	knn := testKNN("uniform")
	require.NoError(t, knn.validate())
	_, err := knn.Predict([]float64{1, 2, 3})
	assert.True(t, eris.Is(err, ErrShapeMismatch))
}

func TestKNeighborsTieGoesToLowerClass(t *testing.T) {
	knn := &KNeighbors{
		NNeighbors: 2,
		Classes:    []int{0, 1},
		FitX:       [][]float64{row(-1), row(1)},
		FitY:       []int{1, 0},
	}
	require.NoError(t, knn.validate())

	proba, err := knn.PredictProba(row(0))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, proba)

	label, err := knn.Predict(row(0))
	require.NoError(t, err)
	assert.Equal(t, 0, label)
}
