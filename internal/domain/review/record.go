package review

// Defaults applied to optional metadata when a caller omits it
const (
	DefaultUserID            = "UNKNOWN"
	DefaultDaysAfterPurchase = 30
	DefaultUserReviewCount   = 1
	DefaultCategory          = "General"

	// FallbackRating substitutes for an absent rating during feature
	// extraction. It is never applied at the API boundary, where a
	// missing rating is a validation error.
	FallbackRating = 3.0
)

// Review is a single product review submitted for classification.
// Text and Rating use pointers so an absent value can be told apart
// from an empty or zero one; both are required at the boundary.
// Order and purchase IDs count as missing when empty.
type Review struct {
	Text              *string
	Rating            *float64
	OrderID           string
	PurchaseID        string
	VerifiedPurchase  bool
	UserID            string
	DaysAfterPurchase int
	UserReviewCount   int
	Category          string
}

// Validate checks the required fields. Empty text is valid; absent text
// is not.
func (r *Review) Validate() error {
	if r.Text == nil {
		return ErrMissingText
	}
	if r.Rating == nil {
		return ErrMissingRating
	}
	return nil
}

// TextValue returns the raw review text, or "" when absent.
func (r *Review) TextValue() string {
	if r.Text == nil {
		return ""
	}
	return *r.Text
}

// RatingValue returns the star rating, or FallbackRating when absent.
func (r *Review) RatingValue() float64 {
	if r.Rating == nil {
		return FallbackRating
	}
	return *r.Rating
}

func (r *Review) HasOrderID() bool {
	return r.OrderID != ""
}

func (r *Review) HasPurchaseID() bool {
	return r.PurchaseID != ""
}
