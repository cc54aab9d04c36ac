package review

import "context"

// ListFilter narrows and pages the prediction history
type ListFilter struct {
	Status  *Status
	Page    int
	PerPage int
}

// CategoryStats aggregates predictions for one product category
type CategoryStats struct {
	Category string
	Total    int64
	Fake     int64
	FakeRate float64
}

// TimingBucket aggregates predictions by review-timing range
type TimingBucket struct {
	Bucket string
	Total  int64
	Fake   int64
}

// GroupStats is a total/fake pair for one verification group
type GroupStats struct {
	Total int64
	Fake  int64
}

// VerificationStats splits predictions by purchase verification
type VerificationStats struct {
	Verified   GroupStats
	Unverified GroupStats
}

// TimingBuckets lists the review-timing ranges in display order
var TimingBuckets = []string{
	"Before Purchase",
	"0-7 days",
	"8-30 days",
	"31-90 days",
	"91-180 days",
	"181-365 days",
	"365+ days",
}

// TimingBucketFor places a days-after-purchase value in its bucket
func TimingBucketFor(days int) string {
	switch {
	case days < 0:
		return TimingBuckets[0]
	case days <= 7:
		return TimingBuckets[1]
	case days <= 30:
		return TimingBuckets[2]
	case days <= 90:
		return TimingBuckets[3]
	case days <= 180:
		return TimingBuckets[4]
	case days <= 365:
		return TimingBuckets[5]
	default:
		return TimingBuckets[6]
	}
}

// HistoryRepository persists prediction outcomes and serves the
// analytics aggregations over them.
type HistoryRepository interface {
	Save(ctx context.Context, p *Prediction) error
	List(ctx context.Context, filter ListFilter) ([]*Prediction, int64, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	CategoryBreakdown(ctx context.Context) ([]CategoryStats, error)
	TimingBreakdown(ctx context.Context) ([]TimingBucket, error)
	VerificationBreakdown(ctx context.Context) (*VerificationStats, error)
}
