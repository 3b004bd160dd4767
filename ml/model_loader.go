package ml

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
)

// FailureReason says why an artifact could not be loaded.
type FailureReason string

const (
	ReasonMissing FailureReason = "missing"
	ReasonCorrupt FailureReason = "corrupt"
)

// LoadError describes a single artifact that failed to load.
type LoadError struct {
	Path   string
	Reason FailureReason
	Err    error
}

func (e *LoadError) Error() string {
	return string(e.Reason) + " artifact " + e.Path + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Type string `json:"type"`
}

type validator interface {
	validate() error
}

// LoadImputer reads a simple_imputer artifact.
func LoadImputer(path string) (*Imputer, error) {
	imp := &Imputer{}
	if err := readArtifact(path, "simple_imputer", imp); err != nil {
		return nil, err
	}
	return imp, nil
}

// LoadScaler reads a standard_scaler artifact.
func LoadScaler(path string) (*Scaler, error) {
	scaler := &Scaler{}
	if err := readArtifact(path, "standard_scaler", scaler); err != nil {
		return nil, err
	}
	return scaler, nil
}

// LoadModel reads a serialized classifier, dispatching on its "type" field.
func LoadModel(path string) (Classifier, error) {
	payload, err := readFile(path)
	if err != nil {
		return nil, err
	}
	var head envelope
	if err := json.Unmarshal(payload, &head); err != nil {
		return nil, corrupt(path, eris.Wrap(err, "decode model type"))
	}

	var model interface {
		Classifier
		validator
	}
	switch head.Type {
	case "kneighbors":
		model = &KNeighbors{}
	case "decision_tree":
		model = &DecisionTree{}
	default:
		return nil, corrupt(path, eris.Errorf("unsupported model type %q", head.Type))
	}
	if err := decode(path, payload, model); err != nil {
		return nil, err
	}
	return model, nil
}

func readArtifact(path, wantType string, v validator) error {
	payload, err := readFile(path)
	if err != nil {
		return err
	}
	var head envelope
	if err := json.Unmarshal(payload, &head); err != nil {
		return corrupt(path, eris.Wrap(err, "decode artifact type"))
	}
	if head.Type != wantType {
		return corrupt(path, eris.Errorf("expected %s artifact, found %q", wantType, head.Type))
	}
	return decode(path, payload, v)
}

func readFile(path string) ([]byte, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Path: path, Reason: ReasonMissing, Err: err}
		}
		return nil, corrupt(path, err)
	}
	return payload, nil
}

func decode(path string, payload []byte, v validator) error {
	if err := json.Unmarshal(payload, v); err != nil {
		return corrupt(path, eris.Wrap(err, "decode artifact"))
	}
	if err := v.validate(); err != nil {
		return corrupt(path, err)
	}
	return nil
}

func corrupt(path string, err error) *LoadError {
	return &LoadError{Path: path, Reason: ReasonCorrupt, Err: err}
}
