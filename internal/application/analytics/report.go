package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"fake-review-detector/internal/domain/review"
	"fake-review-detector/internal/infrastructure/ml"
)

// ErrUnknownFilter rejects list filters outside all/fake/genuine/suspicious
var ErrUnknownFilter = errors.New("unknown filter")

// List paging bounds
const (
	DefaultPerPage = 50
	MaxPerPage     = 200
)

// Summary totals the prediction history
type Summary struct {
	TotalPredictions int64   `json:"total_predictions"`
	Fake             int64   `json:"fake"`
	Genuine          int64   `json:"genuine"`
	Suspicious       int64   `json:"suspicious"`
	FakeRate         float64 `json:"fake_rate"`
}

// CategoryReport aggregates one product category
type CategoryReport struct {
	Category string  `json:"category"`
	Total    int64   `json:"total"`
	Fake     int64   `json:"fake"`
	FakeRate float64 `json:"fake_rate"`
}

// TimingReport aggregates one review-timing bucket
type TimingReport struct {
	Bucket string `json:"bucket"`
	Total  int64  `json:"total"`
	Fake   int64  `json:"fake"`
}

// VerificationGroup is one side of the verified/unverified split
type VerificationGroup struct {
	Total    int64   `json:"total"`
	Fake     int64   `json:"fake"`
	FakeRate float64 `json:"fake_rate"`
}

// VerificationReport splits the history by purchase verification
type VerificationReport struct {
	Verified   VerificationGroup `json:"verified"`
	Unverified VerificationGroup `json:"unverified"`
}

// HistoryItem is one stored prediction in list responses
type HistoryItem struct {
	ID                string          `json:"id"`
	TextExcerpt       string          `json:"text_excerpt"`
	Category          string          `json:"category"`
	Rating            float64         `json:"rating"`
	Prediction        string          `json:"prediction"`
	Status            string          `json:"status"`
	Confidence        decimal.Decimal `json:"confidence"`
	FakeProbability   decimal.Decimal `json:"fake_probability"`
	VerifiedPurchase  bool            `json:"verified_purchase"`
	DaysAfterPurchase int             `json:"days_after_purchase"`
	CreatedAt         time.Time       `json:"created_at"`
}

// HistoryPage is one page of stored predictions
type HistoryPage struct {
	Items   []HistoryItem `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Pages   int64         `json:"pages"`
}

// ReportUseCase serves the dashboard aggregations from the history
// store and the persisted training metrics.
type ReportUseCase struct {
	history  review.HistoryRepository
	modelDir string
}

func NewReportUseCase(history review.HistoryRepository, modelDir string) *ReportUseCase {
	return &ReportUseCase{
		history:  history,
		modelDir: modelDir,
	}
}

// Summary totals the history by status
func (uc *ReportUseCase) Summary(ctx context.Context) (*Summary, error) {
	counts, err := uc.history.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	s := &Summary{
		Fake:       counts[review.StatusFake],
		Genuine:    counts[review.StatusGenuine],
		Suspicious: counts[review.StatusSuspicious],
	}
	s.TotalPredictions = s.Fake + s.Genuine + s.Suspicious
	if s.TotalPredictions > 0 {
		s.FakeRate = float64(s.Fake) / float64(s.TotalPredictions)
	}
	return s, nil
}

// Categories breaks the history down by product category
func (uc *ReportUseCase) Categories(ctx context.Context) ([]CategoryReport, error) {
	stats, err := uc.history.CategoryBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]CategoryReport, len(stats))
	for i, s := range stats {
		reports[i] = CategoryReport{
			Category: s.Category,
			Total:    s.Total,
			Fake:     s.Fake,
			FakeRate: s.FakeRate,
		}
	}
	return reports, nil
}

// Timing breaks the history down by days-after-purchase range. Every
// bucket appears in display order, empty ones included.
func (uc *ReportUseCase) Timing(ctx context.Context) ([]TimingReport, error) {
	rows, err := uc.history.TimingBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	byBucket := make(map[string]review.TimingBucket, len(rows))
	for _, row := range rows {
		byBucket[row.Bucket] = row
	}
	reports := make([]TimingReport, len(review.TimingBuckets))
	for i, bucket := range review.TimingBuckets {
		row := byBucket[bucket]
		reports[i] = TimingReport{
			Bucket: bucket,
			Total:  row.Total,
			Fake:   row.Fake,
		}
	}
	return reports, nil
}

// Verification splits the history by purchase verification
func (uc *ReportUseCase) Verification(ctx context.Context) (*VerificationReport, error) {
	stats, err := uc.history.VerificationBreakdown(ctx)
	if err != nil {
		return nil, err
	}
	return &VerificationReport{
		Verified:   toGroup(stats.Verified),
		Unverified: toGroup(stats.Unverified),
	}, nil
}

// Reviews pages through stored predictions, optionally filtered by
// status.
func (uc *ReportUseCase) Reviews(ctx context.Context, page, perPage int, filter string) (*HistoryPage, error) {
	status, err := parseFilter(filter)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	predictions, total, err := uc.history.List(ctx, review.ListFilter{
		Status:  status,
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, len(predictions))
	for i, p := range predictions {
		items[i] = HistoryItem{
			ID:                p.ID.String(),
			TextExcerpt:       p.TextExcerpt,
			Category:          p.Category,
			Rating:            p.Rating,
			Prediction:        string(p.Label),
			Status:            string(p.Status),
			Confidence:        p.Confidence,
			FakeProbability:   p.FakeProbability,
			VerifiedPurchase:  p.VerifiedPurchase,
			DaysAfterPurchase: p.DaysAfterPurchase,
			CreatedAt:         p.CreatedAt,
		}
	}
	pages := (total + int64(perPage) - 1) / int64(perPage)
	return &HistoryPage{
		Items:   items,
		Total:   total,
		Page:    page,
		PerPage: perPage,
		Pages:   pages,
	}, nil
}

// ModelPerformance serves the persisted training metrics document
func (uc *ReportUseCase) ModelPerformance() (map[string]any, error) {
	return ml.LoadMetricsDocument(uc.modelDir)
}

func toGroup(g review.GroupStats) VerificationGroup {
	group := VerificationGroup{Total: g.Total, Fake: g.Fake}
	if g.Total > 0 {
		group.FakeRate = float64(g.Fake) / float64(g.Total)
	}
	return group
}

func parseFilter(filter string) (*review.Status, error) {
	switch filter {
	case "", "all":
		return nil, nil
	case "fake":
		status := review.StatusFake
		return &status, nil
	case "genuine":
		status := review.StatusGenuine
		return &status, nil
	case "suspicious":
		status := review.StatusSuspicious
		return &status, nil
	default:
		return nil, ErrUnknownFilter
	}
}
