package dataset

import "errors"

// Load errors
var (
	ErrEmptyDataset  = errors.New("dataset contains no records")
	ErrUnknownLabel  = errors.New("unknown label")
	ErrMissingColumn = errors.New("missing required column")
)

// Split errors
var (
	ErrInvalidSplit = errors.New("test fraction must be between 0 and 1")
)
