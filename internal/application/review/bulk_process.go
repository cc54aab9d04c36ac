package review

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"fake-review-detector/internal/application/dto"
)

// Bulk errors
var (
	ErrNoResultStore = errors.New("bulk processing unavailable: result store not connected")
	ErrFileTooLarge  = errors.New("file exceeds the row limit")
	ErrEmptyFile     = errors.New("file contains no reviews")
)

// previewLimit caps how many per-row results ride along in the upload
// response; the full set is in the downloadable file.
const previewLimit = 100

// ResultStore keeps rendered bulk results addressable by download ID
// for a bounded time.
type ResultStore interface {
	Put(ctx context.Context, id string, data []byte) error
	Get(ctx context.Context, id string) ([]byte, error)
	TTL() time.Duration
}

// BulkOutput summarizes one processed CSV upload
type BulkOutput struct {
	Message          string       `json:"message"`
	DownloadID       string       `json:"download_id"`
	FileName         string       `json:"file_name"`
	Summary          BatchSummary `json:"summary"`
	Preview          []BatchItem  `json:"results_preview"`
	ExpiresInSeconds int64        `json:"expires_in_seconds"`
}

// BulkProcessUseCase runs a whole uploaded CSV through batch prediction
// and stores a downloadable result file.
type BulkProcessUseCase struct {
	predict *PredictReviewUseCase
	store   ResultStore
	logger  *zap.Logger
	maxRows int
}

// NewBulkProcessUseCase wires batch prediction with a result store;
// pass nil store when the cache is down and Execute degrades to
// ErrNoResultStore.
func NewBulkProcessUseCase(predict *PredictReviewUseCase, store ResultStore, logger *zap.Logger, maxRows int) *BulkProcessUseCase {
	return &BulkProcessUseCase{
		predict: predict,
		store:   store,
		logger:  logger,
		maxRows: maxRows,
	}
}

// Execute parses the CSV, scores every row in one batch, and stores the
// rendered result file under a fresh download ID.
func (uc *BulkProcessUseCase) Execute(ctx context.Context, fileName string, file io.Reader) (*BulkOutput, error) {
	if uc.store == nil {
		return nil, ErrNoResultStore
	}
	requests, err := parseUploadCSV(file, uc.maxRows)
	if err != nil {
		return nil, err
	}

	batch, err := uc.predict.ExecuteBatch(ctx, requests)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	data, err := renderResultCSV(requests, batch)
	if err != nil {
		return nil, fmt.Errorf("render bulk result: %w", err)
	}
	if err := uc.store.Put(ctx, id, data); err != nil {
		return nil, fmt.Errorf("store bulk result: %w", err)
	}

	uc.logger.Info("bulk file processed",
		zap.String("file", fileName),
		zap.String("download_id", id),
		zap.Int("rows", batch.Summary.Total),
		zap.Int("errors", batch.Summary.Errors))

	preview := batch.Results
	if len(preview) > previewLimit {
		preview = preview[:previewLimit]
	}
	return &BulkOutput{
		Message:          fmt.Sprintf("Processed %d reviews", batch.Summary.Total),
		DownloadID:       id,
		FileName:         fileName,
		Summary:          batch.Summary,
		Preview:          preview,
		ExpiresInSeconds: int64(uc.store.TTL().Seconds()),
	}, nil
}

// Download fetches a stored result file by its download ID
func (uc *BulkProcessUseCase) Download(ctx context.Context, id string) ([]byte, error) {
	if uc.store == nil {
		return nil, ErrNoResultStore
	}
	return uc.store.Get(ctx, id)
}

// parseUploadCSV reads an uploaded review file into prediction
// requests. Cells that fail to parse leave their field unset so the
// row surfaces as a per-row validation error instead of failing the
// whole upload.
func parseUploadCSV(file io.Reader, maxRows int) ([]dto.PredictReviewRequest, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read upload header: %w", err)
	}
	pos := make(map[string]int, len(header))
	for i, name := range header {
		pos[strings.TrimSpace(name)] = i
	}
	col := func(record []string, name string) string {
		i, ok := pos[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var requests []dto.PredictReviewRequest
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read upload row %d: %w", len(requests)+2, err)
		}
		if len(requests) >= maxRows {
			return nil, fmt.Errorf("%w: more than %d rows", ErrFileTooLarge, maxRows)
		}

		req := dto.PredictReviewRequest{
			OrderID:    col(record, "order_id"),
			PurchaseID: col(record, "purchase_id"),
			UserID:     col(record, "user_id"),
			Category:   col(record, "category"),
		}
		if text, ok := pos["text_"]; ok && text < len(record) {
			value := strings.TrimSpace(record[text])
			req.Text = &value
		}
		if raw := col(record, "rating"); raw != "" {
			if rating, err := strconv.ParseFloat(raw, 64); err == nil {
				req.Rating = &rating
			}
		}
		if raw := col(record, "verified_purchase"); raw != "" {
			if verified, err := strconv.ParseBool(strings.ToLower(raw)); err == nil {
				req.VerifiedPurchase = &verified
			}
		}
		if raw := col(record, "days_after_purchase"); raw != "" {
			if days, err := strconv.Atoi(raw); err == nil {
				req.DaysAfterPurchase = &days
			}
		}
		if raw := col(record, "user_review_count"); raw != "" {
			if count, err := strconv.Atoi(raw); err == nil {
				req.UserReviewCount = &count
			}
		}
		requests = append(requests, req)
	}
	if len(requests) == 0 {
		return nil, ErrEmptyFile
	}
	return requests, nil
}

// renderResultCSV writes one row per input with its prediction or error
func renderResultCSV(requests []dto.PredictReviewRequest, batch *BatchOutput) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{
		"row", "text_preview", "rating", "prediction", "status",
		"confidence", "fake_probability", "genuine_probability",
		"risk_factors", "error",
	}); err != nil {
		return nil, err
	}

	for i, item := range batch.Results {
		row := []string{strconv.Itoa(i + 1), textPreview(requests[i].Text), ratingCell(requests[i].Rating)}
		if item.Prediction != nil {
			p := item.Prediction
			row = append(row,
				p.Prediction,
				p.Status,
				p.Confidence.String(),
				p.FakeProbability.String(),
				p.GenuineProbability.String(),
				strings.Join(p.RiskFactors, "; "),
				"",
			)
		} else {
			row = append(row, "", "", "", "", "", "", item.Error)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func textPreview(text *string) string {
	if text == nil {
		return ""
	}
	runes := []rune(*text)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return *text
}

func ratingCell(rating *float64) string {
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}
