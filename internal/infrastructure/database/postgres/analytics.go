package postgres

import (
	"context"

	"fake-review-detector/internal/domain/review"
)

// timingBucketExpr mirrors review.TimingBucketFor so SQL and Go agree
// on bucket boundaries.
const timingBucketExpr = `CASE
	WHEN days_after_purchase < 0 THEN 'Before Purchase'
	WHEN days_after_purchase <= 7 THEN '0-7 days'
	WHEN days_after_purchase <= 30 THEN '8-30 days'
	WHEN days_after_purchase <= 90 THEN '31-90 days'
	WHEN days_after_purchase <= 180 THEN '91-180 days'
	WHEN days_after_purchase <= 365 THEN '181-365 days'
	ELSE '365+ days'
END`

// CountByStatus totals stored predictions per decision status
func (r *HistoryRepository) CountByStatus(ctx context.Context) (map[review.Status]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&PredictionModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[review.Status]int64, len(rows))
	for _, row := range rows {
		counts[review.Status(row.Status)] = row.Count
	}
	return counts, nil
}

// CategoryBreakdown aggregates the history per product category,
// busiest categories first.
func (r *HistoryRepository) CategoryBreakdown(ctx context.Context) ([]review.CategoryStats, error) {
	var rows []struct {
		Category string
		Total    int64
		Fake     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&PredictionModel{}).
		Select("category, count(*) as total, sum(case when prediction = ? then 1 else 0 end) as fake", string(review.LabelFake)).
		Group("category").
		Order("total DESC, category ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make([]review.CategoryStats, len(rows))
	for i, row := range rows {
		stats[i] = review.CategoryStats{
			Category: row.Category,
			Total:    row.Total,
			Fake:     row.Fake,
		}
		if row.Total > 0 {
			stats[i].FakeRate = float64(row.Fake) / float64(row.Total)
		}
	}
	return stats, nil
}

// TimingBreakdown aggregates the history by days-after-purchase range.
// Empty buckets are absent from the result; callers fill them in.
func (r *HistoryRepository) TimingBreakdown(ctx context.Context) ([]review.TimingBucket, error) {
	var rows []struct {
		Bucket string
		Total  int64
		Fake   int64
	}
	if err := r.db.WithContext(ctx).
		Model(&PredictionModel{}).
		Select(timingBucketExpr+" as bucket, count(*) as total, sum(case when prediction = ? then 1 else 0 end) as fake", string(review.LabelFake)).
		Group("bucket").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	buckets := make([]review.TimingBucket, len(rows))
	for i, row := range rows {
		buckets[i] = review.TimingBucket{
			Bucket: row.Bucket,
			Total:  row.Total,
			Fake:   row.Fake,
		}
	}
	return buckets, nil
}

// VerificationBreakdown splits the history by purchase verification
func (r *HistoryRepository) VerificationBreakdown(ctx context.Context) (*review.VerificationStats, error) {
	var rows []struct {
		Verified bool
		Total    int64
		Fake     int64
	}
	if err := r.db.WithContext(ctx).
		Model(&PredictionModel{}).
		Select("verified_purchase as verified, count(*) as total, sum(case when prediction = ? then 1 else 0 end) as fake", string(review.LabelFake)).
		Group("verified_purchase").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := &review.VerificationStats{}
	for _, row := range rows {
		group := review.GroupStats{Total: row.Total, Fake: row.Fake}
		if row.Verified {
			stats.Verified = group
		} else {
			stats.Unverified = group
		}
	}
	return stats, nil
}
