package pipeline

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ForestConfig holds the random forest hyperparameters. The defaults mirror a
// class-imbalance-compensated ensemble: many shallow-ish trees, bootstrap
// sampling, sqrt feature subsampling for diversity and balanced class weights.
type ForestConfig struct {
	NumTrees        int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// DefaultForestConfig returns the standard training configuration.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		NumTrees:        200,
		MaxDepth:        15,
		MinSamplesSplit: 5,
		MinSamplesLeaf:  2,
		Seed:            42,
	}
}

// TreeNode is one node of a fitted decision tree. Leaves carry the weighted
// positive-class fraction observed during training.
type TreeNode struct {
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
	IsLeaf    bool
	Positive  float64
}

// RandomForest is an ensemble of decision trees voting on the positive class.
// Once fitted it is read-only: Predict and Proba never mutate the trees, so a
// single fitted forest is safe for concurrent use.
type RandomForest struct {
	Config      ForestConfig
	Trees       []*TreeNode
	NumFeatures int
}

// NewRandomForest creates an unfitted forest with the given configuration.
func NewRandomForest(cfg ForestConfig) *RandomForest {
	return &RandomForest{Config: cfg}
}

// Fit trains the ensemble on a clean numeric matrix and a 0/1 label vector.
// Class weights are balanced so the minority class is not drowned out.
func (f *RandomForest) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return fmt.Errorf("no training data provided")
	}
	if len(X) != len(y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ", len(X), len(y))
	}

	f.NumFeatures = len(X[0])
	weights := balancedWeights(y)
	rng := rand.New(rand.NewSource(f.Config.Seed))

	f.Trees = make([]*TreeNode, f.Config.NumTrees)
	for t := 0; t < f.Config.NumTrees; t++ {
		indices := bootstrap(len(X), rng)
		f.Trees[t] = f.buildTree(X, y, weights, indices, 0, rng)
	}
	return nil
}

// balancedWeights assigns each sample the weight n / (2 * n_class), so both
// classes contribute equally to the impurity criterion.
func balancedWeights(y []float64) []float64 {
	var nPos, nNeg float64
	for _, label := range y {
		if label == 1 {
			nPos++
		} else {
			nNeg++
		}
	}
	n := float64(len(y))
	wPos, wNeg := 1.0, 1.0
	if nPos > 0 {
		wPos = n / (2 * nPos)
	}
	if nNeg > 0 {
		wNeg = n / (2 * nNeg)
	}

	weights := make([]float64, len(y))
	for i, label := range y {
		if label == 1 {
			weights[i] = wPos
		} else {
			weights[i] = wNeg
		}
	}
	return weights
}

func bootstrap(n int, rng *rand.Rand) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = rng.Intn(n)
	}
	return indices
}

func (f *RandomForest) buildTree(X [][]float64, y, weights []float64, indices []int, depth int, rng *rand.Rand) *TreeNode {
	if depth >= f.Config.MaxDepth || len(indices) < f.Config.MinSamplesSplit || isHomogeneous(y, indices) {
		return f.leaf(y, weights, indices)
	}

	feature, threshold, gain := f.findBestSplit(X, y, weights, indices, rng)
	if gain <= 0 {
		return f.leaf(y, weights, indices)
	}

	left := make([]int, 0, len(indices))
	right := make([]int, 0, len(indices))
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) < f.Config.MinSamplesLeaf || len(right) < f.Config.MinSamplesLeaf {
		return f.leaf(y, weights, indices)
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      f.buildTree(X, y, weights, left, depth+1, rng),
		Right:     f.buildTree(X, y, weights, right, depth+1, rng),
	}
}

func (f *RandomForest) leaf(y, weights []float64, indices []int) *TreeNode {
	var total, positive float64
	for _, i := range indices {
		total += weights[i]
		if y[i] == 1 {
			positive += weights[i]
		}
	}
	frac := 0.0
	if total > 0 {
		frac = positive / total
	}
	return &TreeNode{IsLeaf: true, Positive: frac}
}

// findBestSplit evaluates a random sqrt-sized feature subset and the quartile
// thresholds of each candidate feature, keeping the split with the best
// weighted gini gain.
func (f *RandomForest) findBestSplit(X [][]float64, y, weights []float64, indices []int, rng *rand.Rand) (int, float64, float64) {
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	parentImpurity, parentWeight := weightedGini(X, y, weights, indices, -1, 0, false)

	numCandidates := int(math.Ceil(math.Sqrt(float64(f.NumFeatures))))
	candidates := rng.Perm(f.NumFeatures)[:numCandidates]

	values := make([]float64, len(indices))
	for _, feature := range candidates {
		for k, i := range indices {
			values[k] = X[i][feature]
		}
		for _, threshold := range quartiles(values) {
			leftImpurity, leftWeight := weightedGini(X, y, weights, indices, feature, threshold, true)
			rightWeight := parentWeight - leftWeight
			if leftWeight == 0 || rightWeight == 0 {
				continue
			}
			rightImpurity, _ := weightedGiniRight(X, y, weights, indices, feature, threshold)

			gain := parentImpurity -
				(leftWeight/parentWeight)*leftImpurity -
				(rightWeight/parentWeight)*rightImpurity
			if gain > bestGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, 0
	}
	return bestFeature, bestThreshold, bestGain
}

// quartiles returns up to three distinct split candidates from the node's
// value distribution.
func quartiles(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	out := make([]float64, 0, 3)
	for _, p := range []float64{0.25, 0.5, 0.75} {
		q := sorted[int(p*float64(len(sorted)-1))]
		duplicate := false
		for _, existing := range out {
			if existing == q {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, q)
		}
	}
	return out
}

// weightedGini computes the weighted gini impurity of either the whole node
// (feature < 0) or its left partition.
func weightedGini(X [][]float64, y, weights []float64, indices []int, feature int, threshold float64, leftOnly bool) (float64, float64) {
	var total, positive float64
	for _, i := range indices {
		if leftOnly && X[i][feature] > threshold {
			continue
		}
		total += weights[i]
		if y[i] == 1 {
			positive += weights[i]
		}
	}
	return giniFromCounts(positive, total), total
}

func weightedGiniRight(X [][]float64, y, weights []float64, indices []int, feature int, threshold float64) (float64, float64) {
	var total, positive float64
	for _, i := range indices {
		if X[i][feature] <= threshold {
			continue
		}
		total += weights[i]
		if y[i] == 1 {
			positive += weights[i]
		}
	}
	return giniFromCounts(positive, total), total
}

func giniFromCounts(positive, total float64) float64 {
	if total == 0 {
		return 0
	}
	p := positive / total
	return 1 - p*p - (1-p)*(1-p)
}

func isHomogeneous(y []float64, indices []int) bool {
	if len(indices) == 0 {
		return true
	}
	first := y[indices[0]]
	for _, i := range indices[1:] {
		if y[i] != first {
			return false
		}
	}
	return true
}

// Proba returns the positive-class probability for one row: the mean leaf
// positive fraction across all trees.
func (f *RandomForest) Proba(row []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("forest is not fitted")
	}
	sum := 0.0
	for _, tree := range f.Trees {
		sum += predictNode(tree, row)
	}
	return sum / float64(len(f.Trees)), nil
}

// Predict returns the binary class for one row.
func (f *RandomForest) Predict(row []float64) (int, error) {
	p, err := f.Proba(row)
	if err != nil {
		return 0, err
	}
	if p >= 0.5 {
		return 1, nil
	}
	return 0, nil
}

func predictNode(node *TreeNode, row []float64) float64 {
	for !node.IsLeaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Positive
}
