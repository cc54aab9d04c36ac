package ml

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"fake-review-detector/internal/domain/review"
)

// Cutoffs for the derived metadata flags. Fixed constants, not learned;
// the risk explainer mirrors them in its plain-language factors.
const (
	veryLateReviewDays = 365
	highReviewCountMin = 50
)

var sentencePattern = regexp.MustCompile(`[.!?]+`)

// Features is the fixed statistical and metadata block extracted from
// one review. Field order matches the column order of the model schema.
type Features struct {
	ReviewLength      float64 `json:"review_length"`
	WordCount         float64 `json:"word_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	SentenceCount     float64 `json:"sentence_count"`
	ExclamationCount  float64 `json:"exclamation_count"`
	QuestionCount     float64 `json:"question_count"`
	CapsRatio         float64 `json:"caps_ratio"`
	UniqueWordRatio   float64 `json:"unique_word_ratio"`
	VerifiedPurchase  float64 `json:"verified_purchase"`    // 0 or 1
	OrderIDMissing    float64 `json:"order_id_missing"`     // 0 or 1
	PurchaseIDMissing float64 `json:"purchase_id_missing"`  // 0 or 1
	DaysAfterPurchase float64 `json:"days_after_purchase"`
	NegativeDays      float64 `json:"negative_days"`        // 0 or 1
	VeryLateReview    float64 `json:"very_late_review"`     // 0 or 1
	UserReviewCount   float64 `json:"user_review_count"`
	HighReviewCount   float64 `json:"high_review_count"`    // 0 or 1
	Rating            float64 `json:"rating"`
	ExtremeRating     float64 `json:"extreme_rating"`       // 0 or 1
}

// ToVector flattens the block in schema column order
func (f *Features) ToVector() []float64 {
	return []float64{
		f.ReviewLength,
		f.WordCount,
		f.AvgWordLength,
		f.SentenceCount,
		f.ExclamationCount,
		f.QuestionCount,
		f.CapsRatio,
		f.UniqueWordRatio,
		f.VerifiedPurchase,
		f.OrderIDMissing,
		f.PurchaseIDMissing,
		f.DaysAfterPurchase,
		f.NegativeDays,
		f.VeryLateReview,
		f.UserReviewCount,
		f.HighReviewCount,
		f.Rating,
		f.ExtremeRating,
	}
}

// statFeatureNames lists the block's columns in vector order
func statFeatureNames() []string {
	return []string{
		"review_length",
		"word_count",
		"avg_word_length",
		"sentence_count",
		"exclamation_count",
		"question_count",
		"caps_ratio",
		"unique_word_ratio",
		"verified_purchase",
		"order_id_missing",
		"purchase_id_missing",
		"days_after_purchase",
		"negative_days",
		"very_late_review",
		"user_review_count",
		"high_review_count",
		"rating",
		"extreme_rating",
	}
}

// FeatureExtractor turns raw reviews into the statistical block. It is
// stateless; identical reviews always yield identical features.
type FeatureExtractor struct{}

func NewFeatureExtractor() *FeatureExtractor {
	return &FeatureExtractor{}
}

// Extract computes text statistics on the normalized text plus the
// metadata flags on the raw record.
func (e *FeatureExtractor) Extract(_ context.Context, r *review.Review) *Features {
	f := &Features{}
	e.textStatistics(f, NormalizeText(r.TextValue()))
	e.metadata(f, r)
	return f
}

// textStatistics fills the eight text columns. Empty text leaves the
// block at zero; this branch is explicit rather than a by-product of
// division guards.
func (e *FeatureExtractor) textStatistics(f *Features, text string) {
	if text == "" {
		return
	}

	f.ReviewLength = float64(len(text))

	words := splitWords(text)
	f.WordCount = float64(len(words))
	if len(words) > 0 {
		total := 0
		seen := make(map[string]struct{}, len(words))
		for _, w := range words {
			total += len(w)
			seen[w] = struct{}{}
		}
		f.AvgWordLength = float64(total) / float64(len(words))
		f.UniqueWordRatio = float64(len(seen)) / float64(len(words))
	}

	f.SentenceCount = float64(countSentences(text))
	f.ExclamationCount = float64(strings.Count(text, "!"))
	f.QuestionCount = float64(strings.Count(text, "?"))
	// Always 0 after lowercasing; the column is kept so the schema keeps
	// its width.
	f.CapsRatio = capsRatio(text)
}

func (e *FeatureExtractor) metadata(f *Features, r *review.Review) {
	if r.VerifiedPurchase {
		f.VerifiedPurchase = 1
	}
	if !r.HasOrderID() {
		f.OrderIDMissing = 1
	}
	if !r.HasPurchaseID() {
		f.PurchaseIDMissing = 1
	}

	days := r.DaysAfterPurchase
	f.DaysAfterPurchase = float64(days)
	if days < 0 {
		f.NegativeDays = 1
	}
	if days > veryLateReviewDays {
		f.VeryLateReview = 1
	}

	count := r.UserReviewCount
	f.UserReviewCount = float64(count)
	if count > highReviewCountMin {
		f.HighReviewCount = 1
	}

	rating := r.RatingValue()
	f.Rating = rating
	if rating == 1.0 || rating == 5.0 {
		f.ExtremeRating = 1
	}
}

// splitWords tokenizes on whitespace and punctuation boundaries
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// countSentences counts the non-blank segments between ., !, and ?
// runs. Text without a terminator still counts as one sentence.
func countSentences(text string) int {
	n := 0
	for _, seg := range sentencePattern.Split(text, -1) {
		if strings.TrimSpace(seg) != "" {
			n++
		}
	}
	return n
}

func capsRatio(text string) float64 {
	if len(text) == 0 {
		return 0
	}
	caps := 0
	for _, r := range text {
		if unicode.IsUpper(r) {
			caps++
		}
	}
	return float64(caps) / float64(len(text))
}
