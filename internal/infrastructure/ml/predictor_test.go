package ml_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/domain/review"
	"fake-review-detector/internal/infrastructure/ml"
)

func fakeTrainingReview() *review.Review {
	return &review.Review{
		Text:              strPtr("Amazing product! Best purchase ever! Buy now!"),
		Rating:            floatPtr(5.0),
		VerifiedPurchase:  false,
		DaysAfterPurchase: 0,
		UserReviewCount:   60,
	}
}

func genuineTrainingReview() *review.Review {
	return &review.Review{
		Text:              strPtr("The kettle works well and heats water quickly. No complaints after two months of daily use."),
		Rating:            floatPtr(4.0),
		OrderID:           "ORD-1",
		PurchaseID:        "PUR-1",
		VerifiedPurchase:  true,
		DaysAfterPurchase: 20,
		UserReviewCount:   3,
	}
}

// trainPredictor fits a small end-to-end model on two well-separated
// review populations.
func trainPredictor(t *testing.T) (*ml.Predictor, *ml.Pipeline, *ml.Forest) {
	t.Helper()
	ctx := context.Background()

	var records []*review.Review
	var targets []int
	for i := 0; i < 30; i++ {
		records = append(records, fakeTrainingReview())
		targets = append(targets, 1)
		records = append(records, genuineTrainingReview())
		targets = append(targets, 0)
	}

	pipe := ml.NewPipeline(40)
	x, err := pipe.FitTransform(ctx, records)
	require.NoError(t, err)

	forest := ml.NewForest(ml.ForestParams{
		Trees:           5,
		MaxDepth:        4,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		FeatureFraction: 0.7,
		Seed:            42,
	})
	require.NoError(t, forest.Fit(ctx, x, targets))

	return ml.NewPredictor(pipe, forest, "1.0.0"), pipe, forest
}

func TestPredictor_Classify(t *testing.T) {
	pred, _, _ := trainPredictor(t)
	ctx := context.Background()

	t.Run("flags the fake population", func(t *testing.T) {
		out, err := pred.Classify(ctx, fakeTrainingReview())
		require.NoError(t, err)

		assert.True(t, out.Fake)
		assert.Greater(t, out.FakeProbability, 0.5)
		assert.InDelta(t, 1.0, out.FakeProbability+out.GenuineProbability, 1e-9)
	})

	t.Run("passes the genuine population", func(t *testing.T) {
		out, err := pred.Classify(ctx, genuineTrainingReview())
		require.NoError(t, err)

		assert.False(t, out.Fake)
		assert.Greater(t, out.GenuineProbability, 0.5)
	})

	t.Run("batch output matches single calls", func(t *testing.T) {
		fakeOut, err := pred.Classify(ctx, fakeTrainingReview())
		require.NoError(t, err)
		genuineOut, err := pred.Classify(ctx, genuineTrainingReview())
		require.NoError(t, err)

		outs, err := pred.ClassifyBatch(ctx, []*review.Review{fakeTrainingReview(), genuineTrainingReview()})
		require.NoError(t, err)
		require.Len(t, outs, 2)
		assert.Equal(t, fakeOut.FakeProbability, outs[0].FakeProbability)
		assert.Equal(t, genuineOut.GenuineProbability, outs[1].GenuineProbability)
	})

	t.Run("exposes version and schema", func(t *testing.T) {
		assert.Equal(t, "1.0.0", pred.ModelVersion())
		require.NotNil(t, pred.Schema())
		assert.Greater(t, pred.Schema().Width(), 18)
	})
}

func TestLoadPredictor(t *testing.T) {
	t.Run("serves the same verdicts after a disk round trip", func(t *testing.T) {
		pred, pipe, forest := trainPredictor(t)
		ctx := context.Background()

		dir := t.TempDir()
		require.NoError(t, ml.SaveArtifacts(dir, &ml.Artifacts{
			Schema:     pipe.Schema,
			Scaler:     pipe.Scaler,
			Vectorizer: pipe.Vectorizer,
			Forest:     forest,
		}))

		loaded, err := ml.LoadPredictor(dir, "2.0.0")
		require.NoError(t, err)
		assert.Equal(t, "2.0.0", loaded.ModelVersion())

		want, err := pred.Classify(ctx, fakeTrainingReview())
		require.NoError(t, err)
		got, err := loaded.Classify(ctx, fakeTrainingReview())
		require.NoError(t, err)

		assert.Equal(t, want.Fake, got.Fake)
		assert.Equal(t, want.FakeProbability, got.FakeProbability)
		assert.Equal(t, want.GenuineProbability, got.GenuineProbability)
	})

	t.Run("missing model directory is reported", func(t *testing.T) {
		_, err := ml.LoadPredictor(t.TempDir(), "1.0.0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "load model artifacts")
	})
}
