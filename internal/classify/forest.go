package classify

import (
	"math"
	"math/rand"
)

// Random-forest parameters. Fixed seed keeps training reproducible across
// process restarts.
const (
	forestTrees = 100
	forestSeed  = 42
	minLeafSize = 2
)

// Forest is a random-forest classifier over dense feature vectors. Class
// labels are indices into an external class list.
type Forest struct {
	trees      []*treeNode
	numClasses int
}

type treeNode struct {
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
	counts    []int // leaf class distribution; nil for internal nodes
}

// TrainForest fits the ensemble on the given samples. Each tree sees a
// bootstrap resample and considers sqrt(d) random features per split.
func TrainForest(x [][]float64, y []int, numClasses int) *Forest {
	rng := rand.New(rand.NewSource(forestSeed))
	f := &Forest{
		trees:      make([]*treeNode, 0, forestTrees),
		numClasses: numClasses,
	}
	n := len(x)
	if n == 0 {
		return f
	}
	dims := len(x[0])
	mtry := int(math.Sqrt(float64(dims)))
	if mtry < 1 {
		mtry = 1
	}

	for t := 0; t < forestTrees; t++ {
		sampleIdx := make([]int, n)
		for i := range sampleIdx {
			sampleIdx[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, buildTree(x, y, sampleIdx, numClasses, mtry, rng))
	}
	return f
}

func buildTree(x [][]float64, y []int, idx []int, numClasses, mtry int, rng *rand.Rand) *treeNode {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	if len(idx) < minLeafSize || isPure(counts) {
		return &treeNode{counts: counts}
	}

	bestGini := math.Inf(1)
	bestFeature := -1
	var bestThreshold float64

	dims := len(x[0])
	for k := 0; k < mtry; k++ {
		feature := rng.Intn(dims)
		for _, i := range idx {
			threshold := x[i][feature]
			g := splitGini(x, y, idx, feature, threshold, numClasses)
			if g < bestGini {
				bestGini = g
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	if bestFeature < 0 {
		return &treeNode{counts: counts}
	}

	var left, right []int
	for _, i := range idx {
		if x[i][bestFeature] <= bestThreshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{counts: counts}
	}

	return &treeNode{
		feature:   bestFeature,
		threshold: bestThreshold,
		left:      buildTree(x, y, left, numClasses, mtry, rng),
		right:     buildTree(x, y, right, numClasses, mtry, rng),
	}
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

// splitGini computes the weighted Gini impurity of splitting idx on
// feature <= threshold.
func splitGini(x [][]float64, y, idx []int, feature int, threshold float64, numClasses int) float64 {
	leftCounts := make([]int, numClasses)
	rightCounts := make([]int, numClasses)
	var nl, nr int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftCounts[y[i]]++
			nl++
		} else {
			rightCounts[y[i]]++
			nr++
		}
	}
	if nl == 0 || nr == 0 {
		return math.Inf(1)
	}
	total := float64(nl + nr)
	return float64(nl)/total*gini(leftCounts, nl) + float64(nr)/total*gini(rightCounts, nr)
}

func gini(counts []int, n int) float64 {
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		g -= p * p
	}
	return g
}

// Predict returns the majority class index and its averaged probability
// across all trees.
func (f *Forest) Predict(vec []float64) (class int, probability float64) {
	if len(f.trees) == 0 {
		return 0, 0
	}
	probs := make([]float64, f.numClasses)
	for _, tree := range f.trees {
		leaf := tree
		for leaf.counts == nil {
			if vec[leaf.feature] <= leaf.threshold {
				leaf = leaf.left
			} else {
				leaf = leaf.right
			}
		}
		total := 0
		for _, c := range leaf.counts {
			total += c
		}
		if total == 0 {
			continue
		}
		for ci, c := range leaf.counts {
			probs[ci] += float64(c) / float64(total)
		}
	}
	best := 0
	for ci := range probs {
		probs[ci] /= float64(len(f.trees))
		if probs[ci] > probs[best] {
			best = ci
		}
	}
	return best, probs[best]
}
