// Package prediction turns one patient record into a sepsis prediction using
// the artifacts loaded at startup.
package prediction

import (
	"context"
	"math"

	"github.com/rotisserie/eris"

	"sepsisapi/ml"
)

// NotFittedMessage is the error payload returned while artifacts are missing.
const NotFittedMessage = "Model has not been fitted. Please fit the model before making predictions."

// ErrModelNotFitted is returned when the artifacts failed to load and the
// placeholders are in use.
var ErrModelNotFitted = eris.New(NotFittedMessage)

const (
	StatusPositive = "Positive"
	StatusNegative = "Negative"
)

// Result is the response for a single prediction.
type Result struct {
	PredictedSepsis    string  `json:"predicted_sepsis"`
	Statement          string  `json:"statement"`
	UserInputStatement string  `json:"user_input_statement"`
	Probability        float64 `json:"probability"`
}

// Predictor applies imputer, scaler and classifier in that order. It holds no
// mutable state and is safe for concurrent use.
type Predictor struct {
	artifacts *ml.Artifacts
}

func NewPredictor(artifacts *ml.Artifacts) *Predictor {
	if artifacts == nil {
		artifacts = ml.Unfitted()
	}
	return &Predictor{artifacts: artifacts}
}

// Predict runs the pipeline on one record. Any stage reporting ml.ErrNotFitted
// yields ErrModelNotFitted; other failures are returned wrapped.
func (p *Predictor) Predict(ctx context.Context, features ml.PatientFeatures) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	label, probability, err := p.classify(features.Vector())
	if err != nil {
		if eris.Is(err, ml.ErrNotFitted) {
			return nil, ErrModelNotFitted
		}
		return nil, err
	}

	status := StatusNegative
	if label == 1 {
		status = StatusPositive
	}
	return &Result{
		PredictedSepsis:    status,
		Statement:          FormatStatement(status, probability),
		UserInputStatement: FormatUserInput(features),
		Probability:        probability,
	}, nil
}

// classify returns the predicted label and the probability of that label.
func (p *Predictor) classify(row []float64) (int, float64, error) {
	imputed, err := p.artifacts.Imputer().Transform(row)
	if err != nil {
		return 0, 0, eris.Wrap(err, "impute")
	}
	scaled, err := p.artifacts.Scaler().Transform(imputed)
	if err != nil {
		return 0, 0, eris.Wrap(err, "scale")
	}

	model := p.artifacts.Model()
	label, err := model.Predict(scaled)
	if err != nil {
		return 0, 0, eris.Wrap(err, "predict")
	}
	proba, err := model.PredictProba(scaled)
	if err != nil {
		return 0, 0, eris.Wrap(err, "predict proba")
	}
	if len(proba) != 2 {
		return 0, 0, eris.Errorf("predict proba: expected 2 probabilities, got %d", len(proba))
	}

	probability := proba[0]
	if label == 1 {
		probability = proba[1]
	}
	if math.IsNaN(probability) {
		return 0, 0, eris.New("predict proba: probability is NaN")
	}
	return label, probability, nil
}
