package review

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Metadata cutoffs for risk explanations. The feature extractor derives
// its flag columns from the same values.
const (
	veryLateReviewDays = 365
	botReviewCount     = 50
)

// riskCheck inspects one aspect of a review and reports a plain-language
// factor when it fires.
type riskCheck func(p Policy, r *Review, fakeProb decimal.Decimal) (string, bool)

// riskChecks run in a fixed order so explanations are stable for
// identical input. Checks are independent; every applicable factor is
// emitted, not just the first.
var riskChecks = []riskCheck{
	checkOrderID,
	checkPurchaseID,
	checkVerification,
	checkTiming,
	checkReviewVolume,
	checkExtremeRating,
	checkTextLength,
	checkHighProbability,
}

// RiskFactors explains why a review looks risky. Checks read the raw
// record, not the engineered features.
func (p Policy) RiskFactors(r *Review, fakeProb decimal.Decimal) []string {
	factors := make([]string, 0, 4)
	for _, check := range riskChecks {
		if factor, ok := check(p, r, fakeProb); ok {
			factors = append(factors, factor)
		}
	}
	return factors
}

func checkOrderID(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if !r.HasOrderID() {
		return "Missing order ID", true
	}
	return "", false
}

func checkPurchaseID(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if !r.HasPurchaseID() {
		return "Missing purchase ID", true
	}
	return "", false
}

func checkVerification(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if !r.VerifiedPurchase {
		return "Unverified purchase - IDs do not match", true
	}
	return "", false
}

// checkTiming emits at most one factor; a review cannot be both earlier
// than its purchase and very late.
func checkTiming(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if r.DaysAfterPurchase < 0 {
		return "Review posted before purchase (impossible timing)", true
	}
	if r.DaysAfterPurchase > veryLateReviewDays {
		return fmt.Sprintf("Review posted %d days after purchase (very late)", r.DaysAfterPurchase), true
	}
	return "", false
}

func checkReviewVolume(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if r.UserReviewCount > botReviewCount {
		return fmt.Sprintf("User has posted %d reviews (potential bot)", r.UserReviewCount), true
	}
	return "", false
}

func checkExtremeRating(_ Policy, r *Review, _ decimal.Decimal) (string, bool) {
	rating := r.RatingValue()
	if rating == 1.0 || rating == 5.0 {
		return fmt.Sprintf("Extreme rating (%.1f stars)", rating), true
	}
	return "", false
}

func checkTextLength(p Policy, r *Review, _ decimal.Decimal) (string, bool) {
	if utf8.RuneCountInString(r.TextValue()) < p.ShortTextLength {
		return "Very short review (low detail)", true
	}
	return "", false
}

func checkHighProbability(p Policy, _ *Review, fakeProb decimal.Decimal) (string, bool) {
	if fakeProb.GreaterThan(p.HighProbThreshold) {
		pct := fakeProb.Mul(decimal.NewFromInt(100)).InexactFloat64()
		return fmt.Sprintf("High fake probability (%.1f%%)", pct), true
	}
	return "", false
}
