package review

import "errors"

// Validation errors
var (
	ErrMissingReviewData = errors.New("missing review data")
	ErrMissingText       = errors.New("review text is required")
	ErrMissingRating     = errors.New("review rating is required")
)

// Model errors
var (
	ErrModelUnavailable = errors.New("classification model unavailable")
)

// History errors
var (
	ErrPredictionNotFound = errors.New("prediction not found")
)

// Bulk result errors
var (
	ErrBulkResultNotFound = errors.New("file not found or expired")
)
