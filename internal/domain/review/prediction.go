package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Label is the classifier's hard verdict for a review
type Label string

const (
	LabelFake    Label = "FAKE"
	LabelGenuine Label = "GENUINE"
)

// Status is the decision attached to a prediction once policy thresholds
// are applied. A review can be labeled GENUINE yet flagged SUSPICIOUS.
type Status string

const (
	StatusFake       Status = "FAKE"
	StatusSuspicious Status = "SUSPICIOUS"
	StatusGenuine    Status = "GENUINE"
)

const maxExcerptLength = 500

// Prediction is the full outcome of classifying one review
type Prediction struct {
	ID                 uuid.UUID       `json:"id"`
	Label              Label           `json:"prediction"`
	Status             Status          `json:"status"`
	Confidence         decimal.Decimal `json:"confidence"`
	FakeProbability    decimal.Decimal `json:"fake_probability"`
	GenuineProbability decimal.Decimal `json:"genuine_probability"`
	RiskFactors        []string        `json:"risk_factors"`
	ModelVersion       string          `json:"model_version"`

	// Review context kept for the analytics aggregations
	TextExcerpt       string  `json:"text_excerpt"`
	Category          string  `json:"category"`
	Rating            float64 `json:"rating"`
	VerifiedPurchase  bool    `json:"verified_purchase"`
	DaysAfterPurchase int     `json:"days_after_purchase"`
	UserID            string  `json:"user_id"`

	LatencyMs   int64     `json:"latency_ms"`
	ProcessedAt time.Time `json:"processed_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewPrediction creates a prediction with a generated ID. Confidence is
// the larger of the two class probabilities.
func NewPrediction(label Label, status Status, fakeProb, genuineProb decimal.Decimal) *Prediction {
	now := time.Now()
	return &Prediction{
		ID:                 uuid.New(),
		Label:              label,
		Status:             status,
		Confidence:         decimal.Max(fakeProb, genuineProb),
		FakeProbability:    fakeProb,
		GenuineProbability: genuineProb,
		RiskFactors:        []string{},
		ProcessedAt:        now,
		CreatedAt:          now,
	}
}

// AttachReview copies the review fields analytics queries group by.
func (p *Prediction) AttachReview(r *Review) {
	p.TextExcerpt = excerpt(r.TextValue(), maxExcerptLength)
	p.Category = r.Category
	p.Rating = r.RatingValue()
	p.VerifiedPurchase = r.VerifiedPurchase
	p.DaysAfterPurchase = r.DaysAfterPurchase
	p.UserID = r.UserID
}

// AddRiskFactor appends a plain-language risk explanation
func (p *Prediction) AddRiskFactor(factor string) {
	p.RiskFactors = append(p.RiskFactors, factor)
}

// IsFake reports whether the hard label is FAKE
func (p *Prediction) IsFake() bool {
	return p.Label == LabelFake
}

// NeedsAttention reports whether the review warrants a second look
func (p *Prediction) NeedsAttention() bool {
	return p.Status != StatusGenuine
}

func excerpt(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
