package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fake-review-detector/internal/domain/review"
)

// PredictionModel is the database model for stored predictions
type PredictionModel struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Prediction         string          `gorm:"type:varchar(20);index;not null"`
	Status             string          `gorm:"type:varchar(20);index;not null"`
	Confidence         decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	FakeProbability    decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	GenuineProbability decimal.Decimal `gorm:"type:decimal(5,4);not null"`
	RiskFactors        string          `gorm:"type:jsonb"`
	ModelVersion       string          `gorm:"type:varchar(50)"`
	TextExcerpt        string          `gorm:"type:text"`
	Category           string          `gorm:"type:varchar(100);index"`
	Rating             float64         `gorm:"not null"`
	VerifiedPurchase   bool            `gorm:"index;not null"`
	DaysAfterPurchase  int             `gorm:"not null"`
	UserID             string          `gorm:"type:varchar(100);index"`
	ProcessedAt        time.Time       `gorm:"not null"`
	LatencyMs          int64           `gorm:"not null"`
	CreatedAt          time.Time       `gorm:"index;not null"`
}

// TableName returns the table name for stored predictions
func (PredictionModel) TableName() string {
	return "review_predictions"
}

// HistoryRepository implements review.HistoryRepository
type HistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(client *Client) *HistoryRepository {
	return &HistoryRepository{db: client.DB()}
}

// Save stores a prediction outcome
func (r *HistoryRepository) Save(ctx context.Context, p *review.Prediction) error {
	riskFactors, _ := json.Marshal(p.RiskFactors)

	model := &PredictionModel{
		ID:                 p.ID,
		Prediction:         string(p.Label),
		Status:             string(p.Status),
		Confidence:         p.Confidence,
		FakeProbability:    p.FakeProbability,
		GenuineProbability: p.GenuineProbability,
		RiskFactors:        string(riskFactors),
		ModelVersion:       p.ModelVersion,
		TextExcerpt:        p.TextExcerpt,
		Category:           p.Category,
		Rating:             p.Rating,
		VerifiedPurchase:   p.VerifiedPurchase,
		DaysAfterPurchase:  p.DaysAfterPurchase,
		UserID:             p.UserID,
		ProcessedAt:        p.ProcessedAt,
		LatencyMs:          p.LatencyMs,
		CreatedAt:          p.CreatedAt,
	}

	return r.db.WithContext(ctx).Create(model).Error
}

// List pages stored predictions newest first, optionally filtered by
// status, and returns the total matching count alongside the page.
func (r *HistoryRepository) List(ctx context.Context, filter review.ListFilter) ([]*review.Prediction, int64, error) {
	query := r.db.WithContext(ctx).Model(&PredictionModel{})
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []PredictionModel
	if err := query.
		Order("created_at DESC").
		Limit(filter.PerPage).
		Offset((filter.Page - 1) * filter.PerPage).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	predictions := make([]*review.Prediction, len(models))
	for i, m := range models {
		predictions[i] = modelToPrediction(&m)
	}
	return predictions, total, nil
}

// GetByID retrieves a stored prediction
func (r *HistoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*review.Prediction, error) {
	var model PredictionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, review.ErrPredictionNotFound
		}
		return nil, err
	}
	return modelToPrediction(&model), nil
}

func modelToPrediction(m *PredictionModel) *review.Prediction {
	var riskFactors []string
	json.Unmarshal([]byte(m.RiskFactors), &riskFactors)

	return &review.Prediction{
		ID:                 m.ID,
		Label:              review.Label(m.Prediction),
		Status:             review.Status(m.Status),
		Confidence:         m.Confidence,
		FakeProbability:    m.FakeProbability,
		GenuineProbability: m.GenuineProbability,
		RiskFactors:        riskFactors,
		ModelVersion:       m.ModelVersion,
		TextExcerpt:        m.TextExcerpt,
		Category:           m.Category,
		Rating:             m.Rating,
		VerifiedPurchase:   m.VerifiedPurchase,
		DaysAfterPurchase:  m.DaysAfterPurchase,
		UserID:             m.UserID,
		ProcessedAt:        m.ProcessedAt,
		LatencyMs:          m.LatencyMs,
		CreatedAt:          m.CreatedAt,
	}
}
