package ml

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// ForestParams are the ensemble's training settings. The defaults are
// deliberately shallow and heavily regularized so the model generalizes
// instead of memorizing its training set.
type ForestParams struct {
	Trees           int     `json:"trees"`
	MaxDepth        int     `json:"max_depth"`
	MinSamplesSplit int     `json:"min_samples_split"`
	MinSamplesLeaf  int     `json:"min_samples_leaf"`
	FeatureFraction float64 `json:"feature_fraction"`
	Seed            int64   `json:"seed"`
}

func DefaultForestParams() ForestParams {
	return ForestParams{
		Trees:           25,
		MaxDepth:        8,
		MinSamplesSplit: 40,
		MinSamplesLeaf:  20,
		FeatureFraction: 0.5,
		Seed:            42,
	}
}

// Forest is a random-forest classifier over the binary review label
type Forest struct {
	Params      ForestParams `json:"params"`
	NumFeatures int          `json:"num_features"`
	Trees       []*Tree      `json:"trees"`
	Importances []float64    `json:"feature_importances"`
}

func NewForest(params ForestParams) *Forest {
	return &Forest{Params: params}
}

// Fitted reports whether the ensemble has been trained or loaded
func (f *Forest) Fitted() bool {
	return len(f.Trees) > 0
}

// Fit grows the ensemble. Per-tree seeds are drawn from the root seed
// up front, so the forest is reproducible no matter how tree building
// is scheduled across cores.
func (f *Forest) Fit(ctx context.Context, x [][]float64, y []int) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return ErrNoTrainingData
	}
	if len(x) != len(y) {
		return fmt.Errorf("got %d rows and %d targets", len(x), len(y))
	}
	f.NumFeatures = len(x[0])

	root := rand.New(rand.NewSource(f.Params.Seed))
	seeds := make([]int64, f.Params.Trees)
	for i := range seeds {
		seeds[i] = root.Int63()
	}

	trees := make([]*Tree, f.Params.Trees)
	imps := make([][]float64, f.Params.Trees)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range trees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trees[i], imps[i] = growTree(x, y, f.Params, seeds[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.Trees = trees
	f.Importances = averageImportances(imps, f.NumFeatures)
	return nil
}

// PredictProba returns the two-class probability pair for every row,
// averaged over the per-tree leaf distributions. Each pair sums to 1.
func (f *Forest) PredictProba(x [][]float64) ([][]float64, error) {
	if !f.Fitted() {
		return nil, ErrForestNotFitted
	}
	out := make([][]float64, len(x))
	for i, row := range x {
		if len(row) != f.NumFeatures {
			return nil, fmt.Errorf("%w: row has %d features, forest expects %d",
				ErrDimensionMismatch, len(row), f.NumFeatures)
		}
		probs := make([]float64, 2)
		for _, t := range f.Trees {
			leafProbs := t.PredictProba(row)
			probs[0] += leafProbs[0]
			probs[1] += leafProbs[1]
		}
		floats.Scale(1/float64(len(f.Trees)), probs)
		out[i] = probs
	}
	return out, nil
}

// Predict returns the most likely class per row; ties go to class 0
func (f *Forest) Predict(x [][]float64) ([]int, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return nil, err
	}
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p[1] > p[0] {
			labels[i] = 1
		}
	}
	return labels, nil
}

func averageImportances(imps [][]float64, cols int) []float64 {
	avg := make([]float64, cols)
	for _, imp := range imps {
		floats.Add(avg, imp)
	}
	if len(imps) > 0 {
		floats.Scale(1/float64(len(imps)), avg)
	}
	return avg
}
