package ml

import (
	"errors"
	"path/filepath"

	"go.uber.org/zap"
)

// ArtifactConfig locates the three fitted artifacts. File names are
// resolved relative to Dir.
type ArtifactConfig struct {
	Dir     string `yaml:"dir"`
	Imputer string `yaml:"imputer"`
	Scaler  string `yaml:"scaler"`
	Model   string `yaml:"model"`
}

// DefaultArtifactConfig points at assets/ with the standard file names.
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		Dir:     "assets",
		Imputer: "numerical_imputer.json",
		Scaler:  "scaler.json",
		Model:   "final_model.json",
	}
}

// ImputerPath, ScalerPath and ModelPath resolve the artifact files under Dir.
func (c ArtifactConfig) ImputerPath() string { return filepath.Join(c.Dir, c.Imputer) }
func (c ArtifactConfig) ScalerPath() string { return filepath.Join(c.Dir, c.Scaler) }
func (c ArtifactConfig) ModelPath() string { return filepath.Join(c.Dir, c.Model) }

// Artifacts is the read-only set of fitted stages shared by all requests.
type Artifacts struct {
	imputer Transformer
	scaler  Transformer
	model   Classifier
}

// NewArtifacts bundles fitted stages into a read-only handle.
func NewArtifacts(imputer, scaler Transformer, model Classifier) *Artifacts {
	return &Artifacts{imputer: imputer, scaler: scaler, model: model}
}

// Unfitted returns placeholders whose every stage fails with ErrNotFitted.
func Unfitted() *Artifacts {
	return NewArtifacts(unfitted{}, unfitted{}, unfitted{})
}

// Imputer, Scaler and Model return the fitted stages.
func (a *Artifacts) Imputer() Transformer { return a.imputer }
func (a *Artifacts) Scaler() Transformer { return a.scaler }
func (a *Artifacts) Model() Classifier { return a.model }

// LoadResult is the outcome of LoadArtifacts: either every artifact loaded or
// none did.
type LoadResult struct {
	artifacts *Artifacts
	err       *LoadError
}

// OK reports whether all three artifacts loaded.
func (r LoadResult) OK() bool {
	return r.err == nil && r.artifacts != nil
}

// Err is nil when loading succeeded.
func (r LoadResult) Err() error {
	if r.err == nil {
		return nil
	}
	return r.err
}

// Reason is empty when loading succeeded.
func (r LoadResult) Reason() FailureReason {
	if r.err == nil {
		return ""
	}
	return r.err.Reason
}

// Artifacts returns the loaded artifacts, or unfitted placeholders when
// loading failed.
func (r LoadResult) Artifacts() *Artifacts {
	if !r.OK() {
		return Unfitted()
	}
	return r.artifacts
}

// LoadArtifacts reads the imputer, scaler and model. Failures never escape:
// they are logged once and reported through the result.
func LoadArtifacts(cfg ArtifactConfig) LoadResult {
	log := zap.L().With(zap.String("dir", cfg.Dir))

	imputer, err := LoadImputer(cfg.ImputerPath())
	if err != nil {
		return failed(log, err)
	}
	scaler, err := LoadScaler(cfg.ScalerPath())
	if err != nil {
		return failed(log, err)
	}
	model, err := LoadModel(cfg.ModelPath())
	if err != nil {
		return failed(log, err)
	}

	log.Info("artifacts loaded",
		zap.String("imputer", cfg.ImputerPath()),
		zap.String("scaler", cfg.ScalerPath()),
		zap.String("model", cfg.ModelPath()),
	)
	return LoadResult{artifacts: NewArtifacts(imputer, scaler, model)}
}

func failed(log *zap.Logger, err error) LoadResult {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		loadErr = corrupt("", err)
	}
	switch loadErr.Reason {
	case ReasonMissing:
		log.Error("artifact not found, make sure the file paths are correct",
			zap.String("path", loadErr.Path), zap.Error(loadErr.Err))
	default:
		log.Error("an error occurred while loading the artifacts",
			zap.String("path", loadErr.Path), zap.Error(loadErr.Err))
	}
	return LoadResult{err: loadErr}
}
