package dataset

import "context"

// Repository loads labeled reviews for training
type Repository interface {
	Load(ctx context.Context) (*Dataset, error)
}
