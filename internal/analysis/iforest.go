package analysis

import (
	"math"
	"math/rand"
	"sort"
)

const eulerGamma = 0.5772156649015329

// isolationForest is an ensemble of random isolation trees. Points that are isolated
// after few splits score close to 1.
type isolationForest struct {
	trees []*isoNode
	psi   int
}

type isoNode struct {
	leaf    bool
	size    int
	feature int
	split   float64
	left    *isoNode
	right   *isoNode
}

// fitIsolationForest grows trees on random sub-samples of x without replacement.
func fitIsolationForest(x [][]float64, trees, maxSamples int, rng *rand.Rand) *isolationForest {
	n := len(x)
	psi := maxSamples
	if psi > n {
		psi = n
	}
	limit := int(math.Ceil(math.Log2(math.Max(float64(psi), 2))))
	f := &isolationForest{psi: psi, trees: make([]*isoNode, 0, trees)}
	for i := 0; i < trees; i++ {
		sample := rng.Perm(n)[:psi]
		f.trees = append(f.trees, growIsoTree(x, sample, 0, limit, rng))
	}
	return f
}

func growIsoTree(x [][]float64, idx []int, depth, limit int, rng *rand.Rand) *isoNode {
	if depth >= limit || len(idx) <= 1 {
		return &isoNode{leaf: true, size: len(idx)}
	}
	for _, feat := range rng.Perm(len(x[idx[0]])) {
		lo, hi := x[idx[0]][feat], x[idx[0]][feat]
		for _, r := range idx[1:] {
			v := x[r][feat]
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
		if hi <= lo {
			continue
		}
		split := lo + rng.Float64()*(hi-lo)
		var left, right []int
		for _, r := range idx {
			if x[r][feat] < split {
				left = append(left, r)
			} else {
				right = append(right, r)
			}
		}
		return &isoNode{
			feature: feat,
			split:   split,
			left:    growIsoTree(x, left, depth+1, limit, rng),
			right:   growIsoTree(x, right, depth+1, limit, rng),
		}
	}
	// every feature is constant on this node
	return &isoNode{leaf: true, size: len(idx)}
}

func (nd *isoNode) pathLength(row []float64, depth int) float64 {
	for !nd.leaf {
		if row[nd.feature] < nd.split {
			nd = nd.left
		} else {
			nd = nd.right
		}
		depth++
	}
	return float64(depth) + avgPathLength(nd.size)
}

// scores returns the anomaly score 2^(-E[h(x)]/c(psi)) for each row.
func (f *isolationForest) scores(x [][]float64) []float64 {
	norm := avgPathLength(f.psi)
	out := make([]float64, len(x))
	for i, row := range x {
		var sum float64
		for _, tr := range f.trees {
			sum += tr.pathLength(row, 0)
		}
		mean := sum / float64(len(f.trees))
		if norm == 0 {
			out[i] = 0.5
			continue
		}
		out[i] = math.Pow(2, -mean/norm)
	}
	return out
}

// avgPathLength is the average path length of an unsuccessful BST search over n points.
func avgPathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	fn := float64(n)
	return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
}

// quantile interpolates linearly between closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

func sortedCopy(vals []float64) []float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return cp
}
