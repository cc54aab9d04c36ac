package review

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"fake-review-detector/internal/application/dto"
	"fake-review-detector/internal/domain/review"
)

const recordTimeout = 5 * time.Second

// PredictReviewOutput is the wire shape of one prediction
type PredictReviewOutput struct {
	ID                 string          `json:"id"`
	Prediction         string          `json:"prediction"`
	Status             string          `json:"status"`
	Confidence         decimal.Decimal `json:"confidence"`
	FakeProbability    decimal.Decimal `json:"fake_probability"`
	GenuineProbability decimal.Decimal `json:"genuine_probability"`
	RiskFactors        []string        `json:"risk_factors"`
	ModelVersion       string          `json:"model_version"`
	LatencyMs          int64           `json:"latency_ms"`
	ProcessedAt        time.Time       `json:"processed_at"`
}

// BatchItem carries either a prediction or a row error, never both
type BatchItem struct {
	Index      int                  `json:"index"`
	Prediction *PredictReviewOutput `json:"prediction,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// BatchSummary aggregates one batch run
type BatchSummary struct {
	Total        int   `json:"total"`
	Fake         int   `json:"fake"`
	Genuine      int   `json:"genuine"`
	Suspicious   int   `json:"suspicious"`
	Errors       int   `json:"errors"`
	AvgLatencyMs int64 `json:"avg_latency_ms"`
}

// BatchOutput is the wire shape of one batch run
type BatchOutput struct {
	Results []BatchItem  `json:"results"`
	Summary BatchSummary `json:"summary"`
}

// PredictReviewUseCase orchestrates single and batch review
// classification and records outcomes to the history store.
type PredictReviewUseCase struct {
	service *review.Service
	history review.HistoryRepository
	logger  *zap.Logger
}

// NewPredictReviewUseCase wires the classification service with an
// optional history repository; pass nil history to skip persistence.
func NewPredictReviewUseCase(service *review.Service, history review.HistoryRepository, logger *zap.Logger) *PredictReviewUseCase {
	return &PredictReviewUseCase{
		service: service,
		history: history,
		logger:  logger,
	}
}

// Execute classifies one review and records the outcome
func (uc *PredictReviewUseCase) Execute(ctx context.Context, rec *review.Review) (*PredictReviewOutput, error) {
	prediction, err := uc.service.Classify(ctx, rec)
	if err != nil {
		return nil, err
	}
	uc.record(prediction)
	return outputFromPrediction(prediction), nil
}

// ExecuteBatch scores many requests in one model pass. A row that fails
// validation becomes an error entry and never aborts its neighbors.
func (uc *PredictReviewUseCase) ExecuteBatch(ctx context.Context, requests []dto.PredictReviewRequest) (*BatchOutput, error) {
	out := &BatchOutput{
		Results: make([]BatchItem, len(requests)),
	}
	out.Summary.Total = len(requests)

	records := make([]*review.Review, 0, len(requests))
	indexes := make([]int, 0, len(requests))
	for i := range requests {
		rec, err := requests[i].ToRecord()
		if err != nil {
			out.Results[i] = BatchItem{Index: i, Error: err.Error()}
			out.Summary.Errors++
			continue
		}
		records = append(records, rec)
		indexes = append(indexes, i)
	}

	if len(records) > 0 {
		predictions, err := uc.service.ClassifyBatch(ctx, records)
		if err != nil {
			return nil, err
		}
		var totalLatency int64
		for k, p := range predictions {
			out.Results[indexes[k]] = BatchItem{
				Index:      indexes[k],
				Prediction: outputFromPrediction(p),
			}
			totalLatency += p.LatencyMs
			switch p.Status {
			case review.StatusFake:
				out.Summary.Fake++
			case review.StatusSuspicious:
				out.Summary.Suspicious++
			default:
				out.Summary.Genuine++
			}
		}
		out.Summary.AvgLatencyMs = totalLatency / int64(len(predictions))
		uc.record(predictions...)
	}
	return out, nil
}

// record persists outcomes without blocking or failing the request
func (uc *PredictReviewUseCase) record(predictions ...*review.Prediction) {
	if uc.history == nil || len(predictions) == 0 {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()
		for _, p := range predictions {
			if err := uc.history.Save(ctx, p); err != nil {
				uc.logger.Warn("failed to record prediction",
					zap.String("prediction_id", p.ID.String()),
					zap.Error(err))
			}
		}
	}()
}

func outputFromPrediction(p *review.Prediction) *PredictReviewOutput {
	return &PredictReviewOutput{
		ID:                 p.ID.String(),
		Prediction:         string(p.Label),
		Status:             string(p.Status),
		Confidence:         p.Confidence,
		FakeProbability:    p.FakeProbability,
		GenuineProbability: p.GenuineProbability,
		RiskFactors:        p.RiskFactors,
		ModelVersion:       p.ModelVersion,
		LatencyMs:          p.LatencyMs,
		ProcessedAt:        p.ProcessedAt,
	}
}
