package ml

import (
	"context"
	"fmt"

	"fake-review-detector/internal/domain/review"
)

// Predictor serves a trained model. Artifacts are read-only after load,
// so any number of concurrent calls may share one Predictor without
// locking.
type Predictor struct {
	pipeline *Pipeline
	forest   *Forest
	version  string
}

// NewPredictor wraps a fitted pipeline and forest
func NewPredictor(pipeline *Pipeline, forest *Forest, version string) *Predictor {
	return &Predictor{
		pipeline: pipeline,
		forest:   forest,
		version:  version,
	}
}

// LoadPredictor reads a model directory and prepares it for serving.
// A failure here is fatal to the serving process; there is no degraded
// mode without a model.
func LoadPredictor(dir, version string) (*Predictor, error) {
	a, err := LoadArtifacts(dir)
	if err != nil {
		return nil, fmt.Errorf("load model artifacts: %w", err)
	}
	return NewPredictor(FromArtifacts(a), a.Forest, version), nil
}

func (p *Predictor) ModelVersion() string {
	return p.version
}

// Schema exposes the served feature layout
func (p *Predictor) Schema() *Schema {
	return p.pipeline.Schema
}

// Classify scores one review
func (p *Predictor) Classify(ctx context.Context, r *review.Review) (*review.ClassifierOutput, error) {
	outs, err := p.ClassifyBatch(ctx, []*review.Review{r})
	if err != nil {
		return nil, err
	}
	return outs[0], nil
}

// ClassifyBatch scores a whole batch in one matrix pass
func (p *Predictor) ClassifyBatch(ctx context.Context, rs []*review.Review) ([]*review.ClassifierOutput, error) {
	x, err := p.pipeline.Transform(ctx, rs)
	if err != nil {
		return nil, err
	}
	probs, err := p.forest.PredictProba(x)
	if err != nil {
		return nil, err
	}
	outs := make([]*review.ClassifierOutput, len(probs))
	for i, pr := range probs {
		outs[i] = &review.ClassifierOutput{
			Fake:               pr[1] > pr[0],
			FakeProbability:    pr[1],
			GenuineProbability: pr[0],
		}
	}
	return outs, nil
}
