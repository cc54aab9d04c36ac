package ml

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Node is one decision-tree node. Internal nodes carry a split; leaves
// carry the class distribution of the training rows that reached them.
type Node struct {
	Feature       int       `json:"feature"` // -1 on leaves
	Threshold     float64   `json:"threshold,omitempty"`
	Left          *Node     `json:"left,omitempty"`
	Right         *Node     `json:"right,omitempty"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

// Tree is a single CART classifier grown on a bootstrap sample
type Tree struct {
	Root *Node `json:"root"`
}

// PredictProba walks a feature row down to its leaf distribution
func (t *Tree) PredictProba(row []float64) []float64 {
	node := t.Root
	for node.Feature >= 0 {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probabilities
}

// growTree fits one tree on a bootstrap sample drawn with its own seed
// and returns the tree with its normalized per-feature impurity
// decrease.
func growTree(x [][]float64, y []int, p ForestParams, seed int64) (*Tree, []float64) {
	rng := rand.New(rand.NewSource(seed))
	n := len(x)
	sample := make([]int, n)
	for i := range sample {
		sample[i] = rng.Intn(n)
	}

	b := &treeBuilder{
		x:          x,
		y:          y,
		maxDepth:   p.MaxDepth,
		minSplit:   p.MinSamplesSplit,
		minLeaf:    p.MinSamplesLeaf,
		maxFeats:   splitFeatureCount(len(x[0]), p.FeatureFraction),
		rng:        rng,
		total:      n,
		importance: make([]float64, len(x[0])),
	}
	root := b.build(sample, 0)
	if sum := floats.Sum(b.importance); sum > 0 {
		floats.Scale(1/sum, b.importance)
	}
	return &Tree{Root: root}, b.importance
}

// splitFeatureCount truncates the feature fraction, keeping at least one
func splitFeatureCount(total int, fraction float64) int {
	m := int(fraction * float64(total))
	if m < 1 {
		m = 1
	}
	if m > total {
		m = total
	}
	return m
}

// treeBuilder grows one tree with the forest's regularization settings
type treeBuilder struct {
	x          [][]float64
	y          []int
	maxDepth   int
	minSplit   int
	minLeaf    int
	maxFeats   int
	rng        *rand.Rand
	total      int // bootstrap sample size, for importance weighting
	importance []float64
}

func (b *treeBuilder) build(indices []int, depth int) *Node {
	counts := b.classCounts(indices)
	if depth >= b.maxDepth || len(indices) < b.minSplit || counts[0] == 0 || counts[1] == 0 {
		return leaf(counts)
	}

	feature, threshold, gain, ok := b.bestSplit(indices, counts)
	if !ok {
		return leaf(counts)
	}
	b.importance[feature] += float64(len(indices)) / float64(b.total) * gain

	left, right := b.partition(indices, feature, threshold)
	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      b.build(left, depth+1),
		Right:     b.build(right, depth+1),
	}
}

// bestSplit scans a fresh random feature subset for the split with the
// largest Gini gain that leaves at least minLeaf rows on each side.
func (b *treeBuilder) bestSplit(indices []int, parent [2]int) (feature int, threshold, gain float64, ok bool) {
	n := len(indices)
	parentGini := gini(parent, n)

	bestGain := 0.0
	bestFeature := -1
	var bestThreshold float64

	order := make([]int, n)
	for _, feat := range b.rng.Perm(len(b.x[0]))[:b.maxFeats] {
		copy(order, indices)
		sort.Slice(order, func(i, j int) bool {
			return b.x[order[i]][feat] < b.x[order[j]][feat]
		})

		var left [2]int
		right := parent
		for i := 1; i < n; i++ {
			cls := b.y[order[i-1]]
			left[cls]++
			right[cls]--

			prev, cur := b.x[order[i-1]][feat], b.x[order[i]][feat]
			if prev == cur {
				continue
			}
			if i < b.minLeaf || n-i < b.minLeaf {
				continue
			}
			g := parentGini -
				float64(i)/float64(n)*gini(left, i) -
				float64(n-i)/float64(n)*gini(right, n-i)
			if g > bestGain {
				bestGain = g
				bestFeature = feat
				bestThreshold = (prev + cur) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0, false
	}
	return bestFeature, bestThreshold, bestGain, true
}

func (b *treeBuilder) partition(indices []int, feature int, threshold float64) (left, right []int) {
	for _, i := range indices {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return left, right
}

func (b *treeBuilder) classCounts(indices []int) [2]int {
	var counts [2]int
	for _, i := range indices {
		counts[b.y[i]]++
	}
	return counts
}

func leaf(counts [2]int) *Node {
	n := counts[0] + counts[1]
	probs := []float64{0, 0}
	if n > 0 {
		probs[0] = float64(counts[0]) / float64(n)
		probs[1] = float64(counts[1]) / float64(n)
	}
	return &Node{Feature: -1, Probabilities: probs}
}

func gini(counts [2]int, n int) float64 {
	if n == 0 {
		return 0
	}
	p0 := float64(counts[0]) / float64(n)
	p1 := float64(counts[1]) / float64(n)
	return 1 - p0*p0 - p1*p1
}
