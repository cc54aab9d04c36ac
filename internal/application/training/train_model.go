package training

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"fake-review-detector/internal/domain/dataset"
	"fake-review-detector/internal/infrastructure/ml"
)

// TrainModelInput carries one training run's settings
type TrainModelInput struct {
	ModelDir      string
	TestFraction  float64
	SplitSeed     int64
	MaxVocabulary int
	Forest        ml.ForestParams
}

// TrainModelOutput summarizes a completed run
type TrainModelOutput struct {
	TrainSamples int
	TestSamples  int
	Features     int
	Evaluation   *ml.Evaluation
	ModelDir     string
	Duration     time.Duration
}

// TrainModelUseCase fits the feature pipeline and forest on a labeled
// dataset, evaluates on a held-out split, and persists the artifacts.
type TrainModelUseCase struct {
	repo   dataset.Repository
	logger *zap.Logger
}

func NewTrainModelUseCase(repo dataset.Repository, logger *zap.Logger) *TrainModelUseCase {
	return &TrainModelUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute runs the full training pipeline: load, split, fit, evaluate,
// persist.
func (uc *TrainModelUseCase) Execute(ctx context.Context, input TrainModelInput) (*TrainModelOutput, error) {
	start := time.Now()

	ds, err := uc.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	genuine, fake := ds.ClassCounts()
	uc.logger.Info("dataset loaded",
		zap.Int("records", ds.Len()),
		zap.Int("genuine", genuine),
		zap.Int("fake", fake))

	train, test, err := dataset.StratifiedSplit(ds, input.TestFraction, input.SplitSeed)
	if err != nil {
		return nil, fmt.Errorf("split dataset: %w", err)
	}

	pipeline := ml.NewPipeline(input.MaxVocabulary)
	xTrain, err := pipeline.FitTransform(ctx, train.Records)
	if err != nil {
		return nil, fmt.Errorf("fit feature pipeline: %w", err)
	}
	uc.logger.Info("feature pipeline fitted",
		zap.Int("features", pipeline.Schema.Width()),
		zap.Int("vocabulary", len(pipeline.Vectorizer.Vocabulary)))

	forest := ml.NewForest(input.Forest)
	if err := forest.Fit(ctx, xTrain, train.Targets); err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	xTest, err := pipeline.Transform(ctx, test.Records)
	if err != nil {
		return nil, fmt.Errorf("transform test set: %w", err)
	}
	probs, err := forest.PredictProba(xTest)
	if err != nil {
		return nil, fmt.Errorf("score test set: %w", err)
	}
	predicted := make([]int, len(probs))
	scores := make([]float64, len(probs))
	for i, p := range probs {
		scores[i] = p[1]
		if p[1] > p[0] {
			predicted[i] = 1
		}
	}

	evaluation, err := ml.Evaluate(test.Targets, predicted, scores)
	if err != nil {
		return nil, fmt.Errorf("evaluate model: %w", err)
	}
	evaluation.FeatureImportance = ml.RankImportances(pipeline.Schema.ColumnNames(), forest.Importances)

	artifacts := &ml.Artifacts{
		Schema:     pipeline.Schema,
		Scaler:     pipeline.Scaler,
		Vectorizer: pipeline.Vectorizer,
		Forest:     forest,
	}
	if err := ml.SaveArtifacts(input.ModelDir, artifacts); err != nil {
		return nil, fmt.Errorf("save artifacts: %w", err)
	}
	if err := ml.SaveMetrics(input.ModelDir, evaluation, "random_forest"); err != nil {
		return nil, fmt.Errorf("save metrics: %w", err)
	}

	uc.logger.Info("model trained",
		zap.Float64("accuracy", evaluation.Accuracy),
		zap.Float64("roc_auc", evaluation.ROCAUC),
		zap.Duration("duration", time.Since(start)))

	return &TrainModelOutput{
		TrainSamples: train.Len(),
		TestSamples:  test.Len(),
		Features:     pipeline.Schema.Width(),
		Evaluation:   evaluation,
		ModelDir:     input.ModelDir,
		Duration:     time.Since(start),
	}, nil
}
