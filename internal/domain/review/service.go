package review

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ClassifierOutput is the raw model verdict for one review
type ClassifierOutput struct {
	Fake               bool
	FakeProbability    float64
	GenuineProbability float64
}

// Classifier is the trained-model boundary. Implementations must be safe
// for concurrent use; the service never mutates model state.
type Classifier interface {
	Classify(ctx context.Context, r *Review) (*ClassifierOutput, error)
	ClassifyBatch(ctx context.Context, rs []*Review) ([]*ClassifierOutput, error)
	ModelVersion() string
}

// Service applies the classifier, decision policy, and risk explainer to
// incoming reviews.
type Service struct {
	classifier Classifier
	policy     Policy
}

// NewService creates a review classification service with the default
// decision policy.
func NewService(classifier Classifier) *Service {
	return &Service{
		classifier: classifier,
		policy:     DefaultPolicy(),
	}
}

// SetPolicy overrides the decision thresholds
func (s *Service) SetPolicy(p Policy) {
	s.policy = p
}

func (s *Service) Policy() Policy {
	return s.policy
}

// ModelVersion reports the version of the loaded model
func (s *Service) ModelVersion() string {
	if s.classifier == nil {
		return ""
	}
	return s.classifier.ModelVersion()
}

// Classify runs one review through the model and decision policy
func (s *Service) Classify(ctx context.Context, r *Review) (*Prediction, error) {
	start := time.Now()

	if err := validateRecord(r); err != nil {
		return nil, err
	}
	if s.classifier == nil {
		return nil, ErrModelUnavailable
	}

	out, err := s.classifier.Classify(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("classify review: %w", err)
	}

	p := s.buildPrediction(r, out)
	p.LatencyMs = time.Since(start).Milliseconds()
	return p, nil
}

// ClassifyBatch scores a slice of reviews in one model pass. Every
// record must already be valid; a single bad record fails the whole
// call, so callers isolate per-row validation beforehand.
func (s *Service) ClassifyBatch(ctx context.Context, rs []*Review) ([]*Prediction, error) {
	start := time.Now()

	for _, r := range rs {
		if err := validateRecord(r); err != nil {
			return nil, err
		}
	}
	if s.classifier == nil {
		return nil, ErrModelUnavailable
	}

	outs, err := s.classifier.ClassifyBatch(ctx, rs)
	if err != nil {
		return nil, fmt.Errorf("classify batch: %w", err)
	}
	if len(outs) != len(rs) {
		return nil, fmt.Errorf("classifier returned %d results for %d reviews", len(outs), len(rs))
	}

	latency := time.Since(start).Milliseconds()
	preds := make([]*Prediction, len(rs))
	for i, out := range outs {
		p := s.buildPrediction(rs[i], out)
		p.LatencyMs = latency
		preds[i] = p
	}
	return preds, nil
}

func (s *Service) buildPrediction(r *Review, out *ClassifierOutput) *Prediction {
	label := LabelGenuine
	if out.Fake {
		label = LabelFake
	}

	fakeProb := decimal.NewFromFloat(out.FakeProbability)
	genuineProb := decimal.NewFromFloat(out.GenuineProbability)

	p := NewPrediction(label, s.policy.Status(label, fakeProb), fakeProb, genuineProb)
	p.RiskFactors = s.policy.RiskFactors(r, fakeProb)
	p.ModelVersion = s.classifier.ModelVersion()
	p.AttachReview(r)
	return p
}

func validateRecord(r *Review) error {
	if r == nil {
		return ErrMissingReviewData
	}
	return r.Validate()
}
