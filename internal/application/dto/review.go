package dto

import "fake-review-detector/internal/domain/review"

// PredictReviewRequest is the JSON body for single and batch
// prediction. Text and Rating use pointers so an absent key can be told
// apart from a zero value.
type PredictReviewRequest struct {
	Text              *string  `json:"text" validate:"required"`
	Rating            *float64 `json:"rating" validate:"required"`
	OrderID           string   `json:"order_id,omitempty"`
	PurchaseID        string   `json:"purchase_id,omitempty"`
	VerifiedPurchase  *bool    `json:"verified_purchase,omitempty"`
	UserID            string   `json:"user_id,omitempty"`
	DaysAfterPurchase *int     `json:"days_after_purchase,omitempty"`
	UserReviewCount   *int     `json:"user_review_count,omitempty"`
	Category          string   `json:"category,omitempty"`
}

// ToRecord validates the required fields and applies the documented
// defaults to absent metadata.
func (r *PredictReviewRequest) ToRecord() (*review.Review, error) {
	rec := &review.Review{
		Text:              r.Text,
		Rating:            r.Rating,
		OrderID:           r.OrderID,
		PurchaseID:        r.PurchaseID,
		UserID:            review.DefaultUserID,
		DaysAfterPurchase: review.DefaultDaysAfterPurchase,
		UserReviewCount:   review.DefaultUserReviewCount,
		Category:          review.DefaultCategory,
	}
	if r.VerifiedPurchase != nil {
		rec.VerifiedPurchase = *r.VerifiedPurchase
	}
	if r.UserID != "" {
		rec.UserID = r.UserID
	}
	if r.DaysAfterPurchase != nil {
		rec.DaysAfterPurchase = *r.DaysAfterPurchase
	}
	if r.UserReviewCount != nil {
		rec.UserReviewCount = *r.UserReviewCount
	}
	if r.Category != "" {
		rec.Category = r.Category
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// BatchPredictRequest wraps the reviews of one batch call
type BatchPredictRequest struct {
	Reviews []PredictReviewRequest `json:"reviews" validate:"required"`
}
