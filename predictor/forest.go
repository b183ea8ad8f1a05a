package predictor

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// forestOptions controls ensemble fitting. Defaults follow the 200-tree
// configuration the dataset size calls for.
type forestOptions struct {
	trees    int
	minLeaf  int
	maxDepth int
	seed     int64
}

// forest is a bootstrap-aggregated ensemble of variance-minimizing
// regression trees.
type forest struct {
	trees []*treeNode
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// fitForest trains the ensemble on feature rows X and targets y. Each tree
// sees one bootstrap resample of the data.
func fitForest(X [][]float64, y []float64, o forestOptions) *forest {
	rng := rand.New(rand.NewSource(o.seed))
	n := len(y)

	f := &forest{trees: make([]*treeNode, 0, o.trees)}
	for t := 0; t < o.trees; t++ {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(X, y, idx, 0, o))
	}
	return f
}

// predict averages the per-tree predictions for one feature row.
func (f *forest) predict(x []float64) float64 {
	var sum float64
	for _, t := range f.trees {
		sum += t.predict(x)
	}
	return sum / float64(len(f.trees))
}

func (n *treeNode) predict(x []float64) float64 {
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func buildTree(X [][]float64, y []float64, idx []int, depth int, o forestOptions) *treeNode {
	vals := make([]float64, len(idx))
	for i, j := range idx {
		vals[i] = y[j]
	}
	mean := stat.Mean(vals, nil)

	if depth >= o.maxDepth || len(idx) < 2*o.minLeaf || stat.Variance(vals, nil) == 0 {
		return &treeNode{leaf: true, value: mean}
	}

	feature, threshold, ok := bestSplit(X, y, idx, o.minLeaf)
	if !ok {
		return &treeNode{leaf: true, value: mean}
	}

	var left, right []int
	for _, j := range idx {
		if X[j][feature] <= threshold {
			left = append(left, j)
		} else {
			right = append(right, j)
		}
	}
	if len(left) < o.minLeaf || len(right) < o.minLeaf {
		return &treeNode{leaf: true, value: mean}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(X, y, left, depth+1, o),
		right:     buildTree(X, y, right, depth+1, o),
	}
}

// bestSplit scans every feature for the threshold minimizing the summed
// squared error of the two children, using prefix sums over the sorted
// feature values.
func bestSplit(X [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	nFeatures := len(X[idx[0]])
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, len(idx))
	for feature := 0; feature < nFeatures; feature++ {
		copy(sorted, idx)
		f := feature
		sort.Slice(sorted, func(a, b int) bool {
			return X[sorted[a]][f] < X[sorted[b]][f]
		})

		n := len(sorted)
		prefixSum := make([]float64, n+1)
		prefixSq := make([]float64, n+1)
		for i, j := range sorted {
			prefixSum[i+1] = prefixSum[i] + y[j]
			prefixSq[i+1] = prefixSq[i] + y[j]*y[j]
		}
		totalSum, totalSq := prefixSum[n], prefixSq[n]

		for s := minLeaf; s <= n-minLeaf; s++ {
			lo, hi := X[sorted[s-1]][feature], X[sorted[s]][feature]
			if lo == hi {
				continue
			}

			nl, nr := float64(s), float64(n-s)
			sseLeft := prefixSq[s] - prefixSum[s]*prefixSum[s]/nl
			sseRight := (totalSq - prefixSq[s]) - (totalSum-prefixSum[s])*(totalSum-prefixSum[s])/nr

			if score := sseLeft + sseRight; score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (lo + hi) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}
