package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fake-review-detector/internal/domain/review"
)

// bulkKeyPrefix namespaces stored bulk result files
const bulkKeyPrefix = "bulk:result:"

// BulkResultStore keeps rendered bulk result files in Redis so they can
// be downloaded after the upload response returns. Entries expire on
// their own; there is no explicit cleanup job.
type BulkResultStore struct {
	client *Client
	ttl    time.Duration
}

// NewBulkResultStore creates a bulk result store with the given retention
func NewBulkResultStore(client *Client, ttl time.Duration) *BulkResultStore {
	return &BulkResultStore{client: client, ttl: ttl}
}

// Put stores a result file under its download ID
func (s *BulkResultStore) Put(ctx context.Context, id string, data []byte) error {
	if err := s.client.Set(ctx, bulkKeyPrefix+id, data, s.ttl); err != nil {
		return fmt.Errorf("failed to store bulk result: %w", err)
	}
	return nil
}

// Get fetches a result file by download ID. Expired and unknown IDs
// both come back as review.ErrBulkResultNotFound.
func (s *BulkResultStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.GetBytes(ctx, bulkKeyPrefix+id)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, review.ErrBulkResultNotFound
		}
		return nil, fmt.Errorf("failed to fetch bulk result: %w", err)
	}
	return data, nil
}

// TTL reports how long stored results stay downloadable
func (s *BulkResultStore) TTL() time.Duration {
	return s.ttl
}
