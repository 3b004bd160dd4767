package ml

import "github.com/rotisserie/eris"

var (
	// ErrNotFitted is returned by every stage of a placeholder artifact.
	ErrNotFitted = eris.New("artifact is not fitted")
	// ErrShapeMismatch is returned when a row does not match the fitted width.
	ErrShapeMismatch = eris.New("row width does not match fitted width")
)

// Transformer is a fitted row-wise preprocessing step.
type Transformer interface {
	Transform(row []float64) ([]float64, error)
}

// Classifier is a fitted binary classifier. PredictProba returns one
// probability per class, ordered by class label.
type Classifier interface {
	Predict(row []float64) (int, error)
	PredictProba(row []float64) ([]float64, error)
}

// unfitted stands in for every artifact when loading failed.
type unfitted struct{}

func (unfitted) Transform([]float64) ([]float64, error) { return nil, ErrNotFitted }
func (unfitted) Predict([]float64) (int, error) { return 0, ErrNotFitted }
func (unfitted) PredictProba([]float64) ([]float64, error) { return nil, ErrNotFitted }

func checkWidth(row []float64, width int) error {
	if len(row) != width {
		return eris.Wrapf(ErrShapeMismatch, "expected %d features, got %d", width, len(row))
	}
	return nil
}
