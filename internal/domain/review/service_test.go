package review_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/domain/review"
)

// --- Mock implementations ---

type mockClassifier struct {
	classifyFunc      func(ctx context.Context, r *review.Review) (*review.ClassifierOutput, error)
	classifyBatchFunc func(ctx context.Context, rs []*review.Review) ([]*review.ClassifierOutput, error)
	version           string
}

func (m *mockClassifier) Classify(ctx context.Context, r *review.Review) (*review.ClassifierOutput, error) {
	if m.classifyFunc != nil {
		return m.classifyFunc(ctx, r)
	}
	return &review.ClassifierOutput{Fake: false, FakeProbability: 0.1, GenuineProbability: 0.9}, nil
}

func (m *mockClassifier) ClassifyBatch(ctx context.Context, rs []*review.Review) ([]*review.ClassifierOutput, error) {
	if m.classifyBatchFunc != nil {
		return m.classifyBatchFunc(ctx, rs)
	}
	outs := make([]*review.ClassifierOutput, len(rs))
	for i := range rs {
		outs[i] = &review.ClassifierOutput{Fake: false, FakeProbability: 0.1, GenuineProbability: 0.9}
	}
	return outs, nil
}

func (m *mockClassifier) ModelVersion() string {
	return m.version
}

// --- Tests ---

func TestService_Classify(t *testing.T) {
	t.Run("fake verdict carries label, status, and confidence", func(t *testing.T) {
		classifier := &mockClassifier{
			version: "1.0.0",
			classifyFunc: func(_ context.Context, _ *review.Review) (*review.ClassifierOutput, error) {
				return &review.ClassifierOutput{Fake: true, FakeProbability: 0.9, GenuineProbability: 0.1}, nil
			},
		}
		svc := review.NewService(classifier)

		p, err := svc.Classify(context.Background(), cleanReview())

		require.NoError(t, err)
		assert.Equal(t, review.LabelFake, p.Label)
		assert.Equal(t, review.StatusFake, p.Status)
		assert.True(t, decimal.NewFromFloat(0.9).Equal(p.Confidence))
		assert.True(t, decimal.NewFromFloat(0.9).Equal(p.FakeProbability))
		assert.True(t, decimal.NewFromFloat(0.1).Equal(p.GenuineProbability))
		assert.Equal(t, "1.0.0", p.ModelVersion)
		assert.True(t, p.IsFake())
		assert.True(t, p.NeedsAttention())
	})

	t.Run("borderline genuine verdict is marked suspicious", func(t *testing.T) {
		classifier := &mockClassifier{
			version: "1.0.0",
			classifyFunc: func(_ context.Context, _ *review.Review) (*review.ClassifierOutput, error) {
				return &review.ClassifierOutput{Fake: false, FakeProbability: 0.35, GenuineProbability: 0.65}, nil
			},
		}
		svc := review.NewService(classifier)

		p, err := svc.Classify(context.Background(), cleanReview())

		require.NoError(t, err)
		assert.Equal(t, review.LabelGenuine, p.Label)
		assert.Equal(t, review.StatusSuspicious, p.Status)
		assert.True(t, decimal.NewFromFloat(0.65).Equal(p.Confidence))
		assert.False(t, p.IsFake())
		assert.True(t, p.NeedsAttention())
	})

	t.Run("prediction keeps the review context for analytics", func(t *testing.T) {
		svc := review.NewService(&mockClassifier{version: "1.0.0"})
		r := cleanReview()

		p, err := svc.Classify(context.Background(), r)

		require.NoError(t, err)
		assert.Equal(t, r.TextValue(), p.TextExcerpt)
		assert.Equal(t, "Kitchen", p.Category)
		assert.Equal(t, 4.0, p.Rating)
		assert.True(t, p.VerifiedPurchase)
		assert.Equal(t, 14, p.DaysAfterPurchase)
		assert.Equal(t, "user_123", p.UserID)
		assert.NotEqual(t, uuid.Nil, p.ID)
	})

	t.Run("risk factors come from the decision policy", func(t *testing.T) {
		classifier := &mockClassifier{
			version: "1.0.0",
			classifyFunc: func(_ context.Context, _ *review.Review) (*review.ClassifierOutput, error) {
				return &review.ClassifierOutput{Fake: true, FakeProbability: 0.85, GenuineProbability: 0.15}, nil
			},
		}
		svc := review.NewService(classifier)
		r := cleanReview()
		r.VerifiedPurchase = false

		p, err := svc.Classify(context.Background(), r)

		require.NoError(t, err)
		assert.Contains(t, p.RiskFactors, "Unverified purchase - IDs do not match")
		assert.Contains(t, p.RiskFactors, "High fake probability (85.0%)")
	})

	t.Run("nil review is rejected", func(t *testing.T) {
		svc := review.NewService(&mockClassifier{})

		_, err := svc.Classify(context.Background(), nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, review.ErrMissingReviewData)
	})

	t.Run("invalid review is rejected before the model runs", func(t *testing.T) {
		called := false
		classifier := &mockClassifier{
			classifyFunc: func(_ context.Context, _ *review.Review) (*review.ClassifierOutput, error) {
				called = true
				return nil, nil
			},
		}
		svc := review.NewService(classifier)

		_, err := svc.Classify(context.Background(), &review.Review{Rating: floatPtr(4.0)})

		require.Error(t, err)
		assert.ErrorIs(t, err, review.ErrMissingText)
		assert.False(t, called)
	})

	t.Run("missing model reports unavailable", func(t *testing.T) {
		svc := review.NewService(nil)

		_, err := svc.Classify(context.Background(), cleanReview())

		require.Error(t, err)
		assert.ErrorIs(t, err, review.ErrModelUnavailable)
	})

	t.Run("classifier failure is wrapped", func(t *testing.T) {
		classifier := &mockClassifier{
			classifyFunc: func(_ context.Context, _ *review.Review) (*review.ClassifierOutput, error) {
				return nil, errors.New("feature width mismatch")
			},
		}
		svc := review.NewService(classifier)

		_, err := svc.Classify(context.Background(), cleanReview())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "classify review")
		assert.Contains(t, err.Error(), "feature width mismatch")
	})
}

func TestService_ClassifyBatch(t *testing.T) {
	t.Run("scores every review in one pass", func(t *testing.T) {
		classifier := &mockClassifier{
			version: "1.0.0",
			classifyBatchFunc: func(_ context.Context, rs []*review.Review) ([]*review.ClassifierOutput, error) {
				outs := make([]*review.ClassifierOutput, len(rs))
				for i := range rs {
					if i%2 == 0 {
						outs[i] = &review.ClassifierOutput{Fake: true, FakeProbability: 0.8, GenuineProbability: 0.2}
					} else {
						outs[i] = &review.ClassifierOutput{Fake: false, FakeProbability: 0.1, GenuineProbability: 0.9}
					}
				}
				return outs, nil
			},
		}
		svc := review.NewService(classifier)

		preds, err := svc.ClassifyBatch(context.Background(), []*review.Review{cleanReview(), cleanReview(), cleanReview()})

		require.NoError(t, err)
		require.Len(t, preds, 3)
		assert.Equal(t, review.LabelFake, preds[0].Label)
		assert.Equal(t, review.LabelGenuine, preds[1].Label)
		assert.Equal(t, review.LabelFake, preds[2].Label)
		assert.Equal(t, preds[0].LatencyMs, preds[1].LatencyMs)
	})

	t.Run("one invalid record fails the whole batch", func(t *testing.T) {
		svc := review.NewService(&mockClassifier{})
		batch := []*review.Review{cleanReview(), {Text: strPtr("no rating")}, cleanReview()}

		_, err := svc.ClassifyBatch(context.Background(), batch)

		require.Error(t, err)
		assert.ErrorIs(t, err, review.ErrMissingRating)
	})

	t.Run("result count mismatch is an error", func(t *testing.T) {
		classifier := &mockClassifier{
			classifyBatchFunc: func(_ context.Context, _ []*review.Review) ([]*review.ClassifierOutput, error) {
				return []*review.ClassifierOutput{}, nil
			},
		}
		svc := review.NewService(classifier)

		_, err := svc.ClassifyBatch(context.Background(), []*review.Review{cleanReview()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "returned 0 results for 1 reviews")
	})
}

func TestService_ModelVersion(t *testing.T) {
	assert.Equal(t, "2.1.0", review.NewService(&mockClassifier{version: "2.1.0"}).ModelVersion())
	assert.Equal(t, "", review.NewService(nil).ModelVersion())
}
