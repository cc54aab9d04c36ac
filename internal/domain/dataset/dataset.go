package dataset

import (
	"fmt"

	"fake-review-detector/internal/domain/review"
)

// Raw label values as they appear in labeled review data
const (
	RawLabelFake    = "CG" // computer generated
	RawLabelGenuine = "OR" // original review
)

// Binary targets the raw labels map to
const (
	TargetGenuine = 0
	TargetFake    = 1
)

// ParseLabel maps a raw dataset label to its binary target
func ParseLabel(raw string) (int, error) {
	switch raw {
	case RawLabelFake:
		return TargetFake, nil
	case RawLabelGenuine:
		return TargetGenuine, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, raw)
	}
}

// Dataset pairs reviews with their binary targets. Index i of Targets
// labels index i of Records.
type Dataset struct {
	Records []*review.Review
	Targets []int
}

// New creates an empty dataset with room for n records
func New(n int) *Dataset {
	return &Dataset{
		Records: make([]*review.Review, 0, n),
		Targets: make([]int, 0, n),
	}
}

// Append adds one labeled review
func (d *Dataset) Append(r *review.Review, target int) {
	d.Records = append(d.Records, r)
	d.Targets = append(d.Targets, target)
}

func (d *Dataset) Len() int {
	return len(d.Records)
}

// ClassCounts returns how many genuine and fake records the set holds
func (d *Dataset) ClassCounts() (genuine, fake int) {
	for _, t := range d.Targets {
		if t == TargetFake {
			fake++
		} else {
			genuine++
		}
	}
	return genuine, fake
}
