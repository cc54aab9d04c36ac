package main

import (
	"context"
	"flag"
	"log"
	"time"

	"fake-review-detector/internal/application/training"
	"fake-review-detector/internal/infrastructure/dataset"
	"fake-review-detector/internal/infrastructure/ml"
	"fake-review-detector/internal/pkg/config"
	"fake-review-detector/internal/pkg/logger"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	dataPath := flag.String("data", "", "Path to the labeled review CSV (overrides config)")
	outDir := flag.String("out", "", "Directory for model artifacts (overrides config)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Warning: Could not load config file, using defaults: %v", err)
		cfg = config.DefaultConfig()
	}
	if *dataPath != "" {
		cfg.Training.DataPath = *dataPath
	}
	if *outDir != "" {
		cfg.Model.Dir = *outDir
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer zlog.Sync()

	log.Printf("Training on %s", cfg.Training.DataPath)

	repo := dataset.NewCSVRepository(cfg.Training.DataPath)
	useCase := training.NewTrainModelUseCase(repo, zlog)

	result, err := useCase.Execute(context.Background(), training.TrainModelInput{
		ModelDir:      cfg.Model.Dir,
		TestFraction:  cfg.Training.TestFraction,
		SplitSeed:     cfg.Training.Seed,
		MaxVocabulary: cfg.Training.MaxVocabulary,
		Forest: ml.ForestParams{
			Trees:           cfg.Training.Trees,
			MaxDepth:        cfg.Training.MaxDepth,
			MinSamplesSplit: cfg.Training.MinSamplesSplit,
			MinSamplesLeaf:  cfg.Training.MinSamplesLeaf,
			FeatureFraction: cfg.Training.FeatureFraction,
			Seed:            cfg.Training.Seed,
		},
	})
	if err != nil {
		log.Fatalf("Training failed: %v", err)
	}

	ev := result.Evaluation
	log.Printf("Training complete in %s", result.Duration.Round(time.Millisecond))
	log.Printf("Samples: %d train / %d test, %d features", result.TrainSamples, result.TestSamples, result.Features)
	log.Printf("Accuracy: %.4f  Precision: %.4f  Recall: %.4f  F1: %.4f  ROC-AUC: %.4f",
		ev.Accuracy, ev.Precision, ev.Recall, ev.F1Score, ev.ROCAUC)
	log.Printf("Artifacts written to %s", result.ModelDir)
}
