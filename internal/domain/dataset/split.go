package dataset

import (
	"math"
	"math/rand"
	"sort"
)

// StratifiedSplit partitions the dataset into train and test sets while
// preserving the class balance of Targets. The same seed always yields
// the same partition.
func StratifiedSplit(d *Dataset, testFraction float64, seed int64) (train, test *Dataset, err error) {
	if d == nil || d.Len() == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, ErrInvalidSplit
	}

	groups := make(map[int][]int)
	for i, t := range d.Targets {
		groups[t] = append(groups[t], i)
	}
	classes := make([]int, 0, len(groups))
	for class := range groups {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	rng := rand.New(rand.NewSource(seed))
	train = New(d.Len())
	test = New(d.Len())

	for _, class := range classes {
		idx := groups[class]
		rng.Shuffle(len(idx), func(i, j int) {
			idx[i], idx[j] = idx[j], idx[i]
		})
		nTest := int(math.Round(float64(len(idx)) * testFraction))
		for k, i := range idx {
			if k < nTest {
				test.Append(d.Records[i], d.Targets[i])
			} else {
				train.Append(d.Records[i], d.Targets[i])
			}
		}
	}
	return train, test, nil
}
