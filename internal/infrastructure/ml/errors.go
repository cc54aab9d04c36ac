package ml

import "errors"

// Fit/transform usage errors
var (
	ErrVectorizerNotFitted = errors.New("vectorizer not fitted: call Fit before Transform")
	ErrScalerNotFitted     = errors.New("scaler not fitted: call Fit before Transform")
	ErrForestNotFitted     = errors.New("forest not fitted: call Fit before Predict")
	ErrNoTrainingData      = errors.New("no training data")
	ErrNoSamples           = errors.New("no samples to evaluate")
	ErrEmptyVocabulary     = errors.New("vocabulary is empty after frequency filtering")
)

// Artifact errors
var (
	ErrDimensionMismatch     = errors.New("feature width does not match schema")
	ErrIncompatibleArtifacts = errors.New("model artifacts are inconsistent")
)
