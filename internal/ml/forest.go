// internal/ml/forest.go
// Feature scaling and a bagged decision-tree ensemble, the learned
// half of the scoring engine. Trained offline, immutable at request
// time.

package ml

import (
	"errors"
	"math"
	"math/rand"
	"sort"
)

// StandardScaler centers features to zero mean and unit variance.
// Scaling parameters are fit once at training time and applied
// verbatim at inference, never re-fit per query.
type StandardScaler struct {
	Mean []float64
	Std  []float64
}

// Fitted reports whether scaling parameters are present.
func (s *StandardScaler) Fitted() bool {
	return len(s.Mean) > 0
}

// Fit computes per-column mean and standard deviation.
func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: empty training matrix")
	}

	dim := len(X[0])
	s.Mean = make([]float64, dim)
	s.Std = make([]float64, dim)

	for _, row := range X {
		for j, v := range row {
			s.Mean[j] += v
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= float64(len(X))
	}

	for _, row := range X {
		for j, v := range row {
			diff := v - s.Mean[j]
			s.Std[j] += diff * diff
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / float64(len(X)))
		if s.Std[j] == 0 {
			s.Std[j] = 1 // constant column, leave centered values as-is
		}
	}

	return nil
}

// Transform applies the stored scaling to a batch.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		scaled := make([]float64, len(row))
		for j, v := range row {
			scaled[j] = (v - s.Mean[j]) / s.Std[j]
		}
		out[i] = scaled
	}
	return out
}

// TreeNode is one node of a fitted decision tree. Exported fields for
// gob encoding.
type TreeNode struct {
	Leaf      bool
	Prob      float64
	Feature   int
	Threshold float64
	Left      *TreeNode
	Right     *TreeNode
}

// RandomForest is a bagged ensemble of depth-limited trees for binary
// outcomes. The ensemble probability is the mean of per-tree leaf
// probabilities.
type RandomForest struct {
	NumTrees int
	MaxDepth int
	Seed     int64
	Trees    []*TreeNode
}

func NewRandomForest(numTrees, maxDepth int, seed int64) *RandomForest {
	return &RandomForest{NumTrees: numTrees, MaxDepth: maxDepth, Seed: seed}
}

// Fitted reports whether the forest carries trained trees.
func (f *RandomForest) Fitted() bool {
	return len(f.Trees) > 0
}

// Fit grows NumTrees trees on bootstrap samples of (X, y), considering
// a random sqrt(dim) feature subset at each split.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("forest: empty training matrix")
	}
	if len(X) != len(y) {
		return errors.New("forest: sample and label counts differ")
	}

	dim := len(X[0])
	featureSubset := int(math.Ceil(math.Sqrt(float64(dim))))
	rng := rand.New(rand.NewSource(f.Seed))

	f.Trees = make([]*TreeNode, f.NumTrees)
	for t := 0; t < f.NumTrees; t++ {
		indices := make([]int, len(X))
		for i := range indices {
			indices[i] = rng.Intn(len(X))
		}
		f.Trees[t] = growTree(X, y, indices, f.MaxDepth, featureSubset, rng)
	}

	return nil
}

// PredictProba returns the probability of the positive class for each
// row. An unfitted forest or mismatched row width yields 0 for that
// row rather than an error: the caller treats it as "no prediction"
// and falls back.
func (f *RandomForest) PredictProba(X [][]float64) []float64 {
	probs := make([]float64, len(X))
	if !f.Fitted() {
		return probs
	}

	for i, row := range X {
		sum := 0.0
		for _, tree := range f.Trees {
			sum += predictTree(tree, row)
		}
		probs[i] = sum / float64(len(f.Trees))
	}

	return probs
}

// Predict thresholds PredictProba at 0.5.
func (f *RandomForest) Predict(X [][]float64) []int {
	probs := f.PredictProba(X)
	labels := make([]int, len(probs))
	for i, p := range probs {
		if p >= 0.5 {
			labels[i] = 1
		}
	}
	return labels
}

func growTree(X [][]float64, y []int, indices []int, depth, featureSubset int, rng *rand.Rand) *TreeNode {
	positives := 0
	for _, i := range indices {
		positives += y[i]
	}
	prob := float64(positives) / float64(len(indices))

	if depth == 0 || positives == 0 || positives == len(indices) || len(indices) < 2 {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	feature, threshold, ok := bestSplit(X, y, indices, featureSubset, rng)
	if !ok {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	var left, right []int
	for _, i := range indices {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &TreeNode{Leaf: true, Prob: prob}
	}

	return &TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      growTree(X, y, left, depth-1, featureSubset, rng),
		Right:     growTree(X, y, right, depth-1, featureSubset, rng),
	}
}

// bestSplit scans a random feature subset for the split minimizing
// weighted Gini impurity.
func bestSplit(X [][]float64, y []int, indices []int, featureSubset int, rng *rand.Rand) (int, float64, bool) {
	dim := len(X[0])
	features := rng.Perm(dim)
	if featureSubset < dim {
		features = features[:featureSubset]
	}

	bestGini := math.Inf(1)
	bestFeature := -1
	bestThreshold := 0.0

	values := make([]float64, 0, len(indices))
	for _, feature := range features {
		values = values[:0]
		for _, i := range indices {
			values = append(values, X[i][feature])
		}
		sort.Float64s(values)

		for k := 0; k+1 < len(values); k++ {
			if values[k] == values[k+1] {
				continue
			}
			threshold := (values[k] + values[k+1]) / 2

			leftPos, leftN, rightPos, rightN := 0, 0, 0, 0
			for _, i := range indices {
				if X[i][feature] <= threshold {
					leftN++
					leftPos += y[i]
				} else {
					rightN++
					rightPos += y[i]
				}
			}

			gini := weightedGini(leftPos, leftN, rightPos, rightN)
			if gini < bestGini {
				bestGini = gini
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

func weightedGini(leftPos, leftN, rightPos, rightN int) float64 {
	total := float64(leftN + rightN)
	return float64(leftN)/total*gini(leftPos, leftN) +
		float64(rightN)/total*gini(rightPos, rightN)
}

func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

func predictTree(node *TreeNode, row []float64) float64 {
	for !node.Leaf {
		if node.Feature >= len(row) {
			return 0
		}
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Prob
}
