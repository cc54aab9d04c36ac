package review

import "github.com/shopspring/decimal"

// Policy holds the decision thresholds applied on top of the raw
// classifier probabilities.
type Policy struct {
	// SuspiciousThreshold marks genuine-labeled reviews SUSPICIOUS when
	// the fake probability still exceeds it.
	SuspiciousThreshold decimal.Decimal

	// HighProbThreshold is the fake probability above which the risk
	// explainer calls the probability itself out as a factor.
	HighProbThreshold decimal.Decimal

	// ShortTextLength is the raw text length below which a review is
	// flagged as low detail.
	ShortTextLength int
}

// DefaultPolicy returns the thresholds the shipped model was tuned with
func DefaultPolicy() Policy {
	return Policy{
		SuspiciousThreshold: decimal.NewFromFloat(0.3),
		HighProbThreshold:   decimal.NewFromFloat(0.7),
		ShortTextLength:     50,
	}
}

// Status maps a hard label and fake probability to a decision.
// A FAKE label always wins; probabilities never downgrade it.
func (p Policy) Status(label Label, fakeProb decimal.Decimal) Status {
	if label == LabelFake {
		return StatusFake
	}
	if fakeProb.GreaterThan(p.SuspiciousThreshold) {
		return StatusSuspicious
	}
	return StatusGenuine
}
