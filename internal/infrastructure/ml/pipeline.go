package ml

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"fake-review-detector/internal/domain/review"
)

// parallelThreshold is the batch size above which feature extraction
// fans out across cores.
const parallelThreshold = 64

// Pipeline owns the full feature path: normalization, the statistical
// block, scaling, TF-IDF, and assembly into the schema's column order.
type Pipeline struct {
	Extractor  *FeatureExtractor
	Scaler     *Scaler
	Vectorizer *Vectorizer
	Schema     *Schema
}

// NewPipeline creates an unfitted pipeline bounded to maxVocabulary
// lexical terms.
func NewPipeline(maxVocabulary int) *Pipeline {
	return &Pipeline{
		Extractor:  NewFeatureExtractor(),
		Scaler:     NewScaler(),
		Vectorizer: NewVectorizer(maxVocabulary),
	}
}

// FromArtifacts rebuilds a fitted pipeline from loaded artifacts
func FromArtifacts(a *Artifacts) *Pipeline {
	return &Pipeline{
		Extractor:  NewFeatureExtractor(),
		Scaler:     a.Scaler,
		Vectorizer: a.Vectorizer,
		Schema:     a.Schema,
	}
}

// FitTransform fits the scaler and vectorizer on the training records,
// freezes the schema, and returns the assembled training matrix.
func (p *Pipeline) FitTransform(ctx context.Context, records []*review.Review) ([][]float64, error) {
	if len(records) == 0 {
		return nil, ErrNoTrainingData
	}
	stats, texts := p.extractAll(ctx, records)
	if err := p.Vectorizer.Fit(texts); err != nil {
		return nil, err
	}
	if err := p.Scaler.Fit(stats); err != nil {
		return nil, err
	}
	p.Schema = NewSchema(p.Vectorizer.Vocabulary)
	return p.assemble(stats, texts)
}

// Transform maps records onto the fitted feature space. Calling it on
// an unfitted pipeline is a usage error.
func (p *Pipeline) Transform(ctx context.Context, records []*review.Review) ([][]float64, error) {
	stats, texts := p.extractAll(ctx, records)
	return p.assemble(stats, texts)
}

func (p *Pipeline) assemble(stats [][]float64, texts []string) ([][]float64, error) {
	lexical, err := p.Vectorizer.TransformAll(texts)
	if err != nil {
		return nil, err
	}
	scaled, err := p.Scaler.Transform(stats)
	if err != nil {
		return nil, err
	}
	if p.Schema == nil {
		return nil, fmt.Errorf("%w: schema missing", ErrIncompatibleArtifacts)
	}
	rows := make([][]float64, len(scaled))
	for i := range scaled {
		row, err := p.Schema.Assemble(scaled[i], lexical[i])
		if err != nil {
			return nil, err
		}
		rows[i] = row
	}
	return rows, nil
}

// extractAll computes the statistical block and normalized text for
// every record. Extraction is pure, so large batches fan out across
// cores without coordination.
func (p *Pipeline) extractAll(ctx context.Context, records []*review.Review) ([][]float64, []string) {
	stats := make([][]float64, len(records))
	texts := make([]string, len(records))
	fill := func(i int) {
		stats[i] = p.Extractor.Extract(ctx, records[i]).ToVector()
		texts[i] = NormalizeText(records[i].TextValue())
	}

	if len(records) < parallelThreshold {
		for i := range records {
			fill(i)
		}
		return stats, texts
	}

	g, _ := errgroup.WithContext(ctx)
	workers := runtime.GOMAXPROCS(0)
	chunk := (len(records) + workers - 1) / workers
	for start := 0; start < len(records); start += chunk {
		end := min(start+chunk, len(records))
		g.Go(func() error {
			for i := start; i < end; i++ {
				fill(i)
			}
			return nil
		})
	}
	_ = g.Wait()
	return stats, texts
}
