package ml

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names inside a model directory
const (
	ForestFile      = "forest.json"
	VectorizerFile  = "vectorizer.json"
	ScalerFile      = "scaler.json"
	SchemaFile      = "schema.json"
	MetricsFile     = "model_metrics.json"
	FullMetricsFile = "full_metrics.json"
)

const trainedAtFormat = "20060102_150405"

// Artifacts bundles everything inference needs
type Artifacts struct {
	Schema     *Schema
	Scaler     *Scaler
	Vectorizer *Vectorizer
	Forest     *Forest
}

// Check validates that the pieces agree with each other. It runs on
// save and on load, so a serving process never starts on mismatched
// artifacts.
func (a *Artifacts) Check() error {
	if a.Schema == nil || a.Scaler == nil || a.Vectorizer == nil || a.Forest == nil {
		return fmt.Errorf("%w: missing component", ErrIncompatibleArtifacts)
	}
	if err := a.Schema.Check(); err != nil {
		return err
	}
	if !a.Scaler.Fitted() || !a.Vectorizer.Fitted() || !a.Forest.Fitted() {
		return fmt.Errorf("%w: unfitted component", ErrIncompatibleArtifacts)
	}
	if len(a.Scaler.Mean) != len(a.Schema.Statistical) {
		return fmt.Errorf("%w: scaler covers %d columns, schema has %d",
			ErrIncompatibleArtifacts, len(a.Scaler.Mean), len(a.Schema.Statistical))
	}
	if len(a.Vectorizer.Vocabulary) != len(a.Schema.Vocabulary) {
		return fmt.Errorf("%w: vectorizer has %d terms, schema has %d",
			ErrIncompatibleArtifacts, len(a.Vectorizer.Vocabulary), len(a.Schema.Vocabulary))
	}
	if a.Forest.NumFeatures != a.Schema.Width() {
		return fmt.Errorf("%w: forest expects %d features, schema has %d",
			ErrIncompatibleArtifacts, a.Forest.NumFeatures, a.Schema.Width())
	}
	return nil
}

// SaveArtifacts writes the four model files into dir, creating it if
// needed.
func SaveArtifacts(dir string, a *Artifacts) error {
	if err := a.Check(); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}
	files := []struct {
		name string
		v    any
	}{
		{SchemaFile, a.Schema},
		{ScalerFile, a.Scaler},
		{VectorizerFile, a.Vectorizer},
		{ForestFile, a.Forest},
	}
	for _, f := range files {
		if err := writeJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return err
		}
	}
	return nil
}

// LoadArtifacts reads a model directory and cross-checks the pieces
func LoadArtifacts(dir string) (*Artifacts, error) {
	a := &Artifacts{
		Schema:     &Schema{},
		Scaler:     &Scaler{},
		Vectorizer: &Vectorizer{},
		Forest:     &Forest{},
	}
	files := []struct {
		name string
		v    any
	}{
		{SchemaFile, a.Schema},
		{ScalerFile, a.Scaler},
		{VectorizerFile, a.Vectorizer},
		{ForestFile, a.Forest},
	}
	for _, f := range files {
		if err := readJSON(filepath.Join(dir, f.name), f.v); err != nil {
			return nil, err
		}
	}
	if err := a.Check(); err != nil {
		return nil, err
	}
	return a, nil
}

// SaveMetrics writes the flat metrics summary and the full evaluation
// next to the artifacts.
func SaveMetrics(dir string, ev *Evaluation, modelType string) error {
	summary := map[string]any{
		"model_type":      modelType,
		"timestamp":       time.Now().Format(trainedAtFormat),
		"accuracy":        ev.Accuracy,
		"precision":       ev.Precision,
		"recall":          ev.Recall,
		"f1_score":        ev.F1Score,
		"roc_auc":         ev.ROCAUC,
		"true_negatives":  ev.TrueNegatives,
		"false_positives": ev.FalsePositives,
		"false_negatives": ev.FalseNegatives,
		"true_positives":  ev.TruePositives,
	}
	if err := writeJSON(filepath.Join(dir, MetricsFile), summary); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, FullMetricsFile), ev)
}

// LoadMetricsDocument reads the flat metrics summary for serving
func LoadMetricsDocument(dir string) (map[string]any, error) {
	doc := map[string]any{}
	if err := readJSON(filepath.Join(dir, MetricsFile), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}
