package prediction

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sepsisapi/ml"
)

type identity struct {
	calls *[]string
	name  string
}

func (i identity) Transform(row []float64) ([]float64, error) {
	if i.calls != nil {
		*i.calls = append(*i.calls, i.name)
	}
	return row, nil
}

type fakeModel struct {
	label int
	proba []float64
	err   error
	seen  []float64
}

func (f *fakeModel) Predict(row []float64) (int, error) {
	f.seen = row
	return f.label, f.err
}

func (f *fakeModel) PredictProba(row []float64) ([]float64, error) {
	return f.proba, f.err
}

var exampleFeatures = ml.PatientFeatures{PRG: 2, PL: 120, PR: 70, SK: 30, TS: 80, M11: 25.0, BD2: 0.5, Age: 35, Insurance: 1}

func newFakePredictor(model ml.Classifier) *Predictor {
	return NewPredictor(ml.NewArtifacts(identity{}, identity{}, model))
}

func TestPredictPositive(t *testing.T) {
	p := newFakePredictor(&fakeModel{label: 1, proba: []float64{0.2, 0.8}})

	result, err := p.Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, StatusPositive, result.PredictedSepsis)
	assert.Equal(t, 0.8, result.Probability)
	assert.Contains(t, result.Statement, "0.80")
	assert.Contains(t, result.Statement, "Positive ✔")
	assert.Equal(t,
		"Please note this is the user-inputted data: {'PRG': 2.0, 'PL': 120.0, 'PR': 70.0, 'SK': 30.0, 'TS': 80.0, 'M11': 25.0, 'BD2': 0.5, 'Age': 35.0, 'Insurance': 1}",
		result.UserInputStatement)
}

func TestPredictUsesProbabilityOfPredictedClass(t *testing.T) {
	p := newFakePredictor(&fakeModel{label: 0, proba: []float64{0.65, 0.35}})

	result, err := p.Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, StatusNegative, result.PredictedSepsis)
	assert.Equal(t, 0.65, result.Probability)
	assert.Equal(t,
		"The patient's sepsis status is Negative ✘ with a probability of 0.65. "+negativeExplanation,
		result.Statement)
}

func TestPredictKeepsProbabilityUnrounded(t *testing.T) {
	p := newFakePredictor(&fakeModel{label: 1, proba: []float64{1.0 / 3, 2.0 / 3}})

	result, err := p.Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, 2.0/3, result.Probability)
	assert.Contains(t, result.Statement, "probability of 0.67.")
}

func TestPredictAppliesStagesInOrder(t *testing.T) {
	var calls []string
	model := &fakeModel{label: 0, proba: []float64{1, 0}}
	p := NewPredictor(ml.NewArtifacts(
		identity{calls: &calls, name: "imputer"},
		identity{calls: &calls, name: "scaler"},
		model,
	))

	_, err := p.Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, []string{"imputer", "scaler"}, calls)
	assert.Equal(t, exampleFeatures.Vector(), model.seen)
}

func TestPredictNotFitted(t *testing.T) {
	for _, p := range []*Predictor{NewPredictor(ml.Unfitted()), NewPredictor(nil)} {
		_, err := p.Predict(context.Background(), exampleFeatures)
		assert.True(t, eris.Is(err, ErrModelNotFitted))
	}
}

func TestPredictNotFittedFromModel(t *testing.T) {
	p := newFakePredictor(&fakeModel{err: ml.ErrNotFitted})
	_, err := p.Predict(context.Background(), exampleFeatures)
	assert.True(t, eris.Is(err, ErrModelNotFitted))
}

func TestPredictPropagatesOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	p := newFakePredictor(&fakeModel{err: boom})
	_, err := p.Predict(context.Background(), exampleFeatures)
	require.Error(t, err)
	assert.False(t, eris.Is(err, ErrModelNotFitted))

	p = newFakePredictor(&fakeModel{label: 1, proba: []float64{1}})
	_, err = p.Predict(context.Background(), exampleFeatures)
	assert.Error(t, err)

	p = newFakePredictor(&fakeModel{label: 0, proba: []float64{math.NaN(), 1}})
	_, err = p.Predict(context.Background(), exampleFeatures)
	assert.Error(t, err)
}

func TestPredictCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newFakePredictor(&fakeModel{label: 1, proba: []float64{0, 1}}).Predict(ctx, exampleFeatures)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPredictWithFixtureArtifacts(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))
	cfg := ml.DefaultArtifactConfig()
	cfg.Dir = filepath.Join("..", "ml", "testdata", "assets")
	result := ml.LoadArtifacts(cfg)
	require.True(t, result.OK())

	out, err := NewPredictor(result.Artifacts()).Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, StatusNegative, out.PredictedSepsis)
	assert.InDelta(t, 2.0/3, out.Probability, 1e-12)
	assert.Contains(t, out.Statement, "0.67")
}

func TestPredictTieReportsNegative(t *testing.T) {
	knn := &ml.KNeighbors{
		NNeighbors: 2,
		Weights:    "uniform",
		Metric:     "euclidean",
		Classes:    []int{0, 1},
		FitX:       [][]float64{make([]float64, 9), make([]float64, 9)},
		FitY:       []int{1, 0},
	}
	result, err := newFakePredictor(knn).Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)
	assert.Equal(t, StatusNegative, result.PredictedSepsis)
	assert.Equal(t, 0.5, result.Probability)
	assert.Contains(t, result.Statement, "probability of 0.50.")
}

func TestPredictConcurrent(t *testing.T) {
	t.Cleanup(zap.ReplaceGlobals(zap.NewNop()))
	cfg := ml.DefaultArtifactConfig()
	cfg.Dir = filepath.Join("..", "ml", "testdata", "assets")
	loaded := ml.LoadArtifacts(cfg)
	require.True(t, loaded.OK())
	p := NewPredictor(loaded.Artifacts())

	want, err := p.Predict(context.Background(), exampleFeatures)
	require.NoError(t, err)

	const workers = 50
	results := make([]*Result, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = p.Predict(context.Background(), exampleFeatures)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, results[i])
	}
}
