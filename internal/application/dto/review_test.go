package dto_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/application/dto"
	"fake-review-detector/internal/domain/review"
)

func strPtr(s string) *string    { return &s }
func floatPtr(f float64) *float64 { return &f }
func intPtr(n int) *int          { return &n }
func boolPtr(b bool) *bool       { return &b }

func TestPredictReviewRequest_ToRecord(t *testing.T) {
	t.Run("applies the documented defaults to absent metadata", func(t *testing.T) {
		req := dto.PredictReviewRequest{
			Text:   strPtr("Sturdy table, easy to assemble."),
			Rating: floatPtr(4.0),
		}

		rec, err := req.ToRecord()
		require.NoError(t, err)

		assert.Equal(t, review.DefaultUserID, rec.UserID)
		assert.Equal(t, review.DefaultDaysAfterPurchase, rec.DaysAfterPurchase)
		assert.Equal(t, review.DefaultUserReviewCount, rec.UserReviewCount)
		assert.Equal(t, review.DefaultCategory, rec.Category)
		assert.False(t, rec.VerifiedPurchase)
		assert.Equal(t, "", rec.OrderID)
	})

	t.Run("explicit values override the defaults", func(t *testing.T) {
		req := dto.PredictReviewRequest{
			Text:              strPtr("Sturdy table, easy to assemble."),
			Rating:            floatPtr(4.0),
			OrderID:           "ORD-7",
			PurchaseID:        "PUR-7",
			VerifiedPurchase:  boolPtr(true),
			UserID:            "user_7",
			DaysAfterPurchase: intPtr(90),
			UserReviewCount:   intPtr(12),
			Category:          "Furniture",
		}

		rec, err := req.ToRecord()
		require.NoError(t, err)

		assert.Equal(t, "ORD-7", rec.OrderID)
		assert.Equal(t, "PUR-7", rec.PurchaseID)
		assert.True(t, rec.VerifiedPurchase)
		assert.Equal(t, "user_7", rec.UserID)
		assert.Equal(t, 90, rec.DaysAfterPurchase)
		assert.Equal(t, 12, rec.UserReviewCount)
		assert.Equal(t, "Furniture", rec.Category)
	})

	t.Run("an explicit zero is not the same as absent", func(t *testing.T) {
		req := dto.PredictReviewRequest{
			Text:              strPtr("Arrived today."),
			Rating:            floatPtr(3.0),
			DaysAfterPurchase: intPtr(0),
			UserReviewCount:   intPtr(0),
		}

		rec, err := req.ToRecord()
		require.NoError(t, err)

		assert.Equal(t, 0, rec.DaysAfterPurchase)
		assert.Equal(t, 0, rec.UserReviewCount)
	})

	t.Run("missing text is rejected", func(t *testing.T) {
		req := dto.PredictReviewRequest{Rating: floatPtr(4.0)}

		_, err := req.ToRecord()
		assert.ErrorIs(t, err, review.ErrMissingText)
	})

	t.Run("missing rating is rejected", func(t *testing.T) {
		req := dto.PredictReviewRequest{Text: strPtr("Fine.")}

		_, err := req.ToRecord()
		assert.ErrorIs(t, err, review.ErrMissingRating)
	})

	t.Run("absent json keys decode to nil and fail validation", func(t *testing.T) {
		var req dto.PredictReviewRequest
		require.NoError(t, json.Unmarshal([]byte(`{"rating": 4}`), &req))

		assert.Nil(t, req.Text)
		_, err := req.ToRecord()
		assert.ErrorIs(t, err, review.ErrMissingText)
	})

	t.Run("empty json text is present and valid", func(t *testing.T) {
		var req dto.PredictReviewRequest
		require.NoError(t, json.Unmarshal([]byte(`{"text": "", "rating": 4}`), &req))

		rec, err := req.ToRecord()
		require.NoError(t, err)
		assert.Equal(t, "", rec.TextValue())
	})
}
