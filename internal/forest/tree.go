package forest

import (
	"sort"
)

// featureThreshold 같은 값으로 취급하는 최소 간격
const featureThreshold = 1e-7

// node 트리 노드 (left < 0 이면 리프)
type node struct {
	feature   int
	threshold float64
	left      int
	right     int
	value     float64
}

// Tree CART 회귀 트리 (분산 감소 기준)
type Tree struct {
	nodes []node
}

// TreeParams 트리 성장 제한
type TreeParams struct {
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
}

// fitTree grows a regression tree on the rows of x selected by idx
// (duplicates allowed, as produced by bootstrap sampling).
func fitTree(x [][]float64, y []float64, idx []int, params TreeParams) *Tree {
	t := &Tree{}
	t.grow(x, y, idx, 0, params)
	return t
}

func (t *Tree) grow(x [][]float64, y []float64, idx []int, depth int, params TreeParams) int {
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{left: -1, right: -1, value: meanOf(y, idx)})

	if depth >= params.MaxDepth || len(idx) < params.MinSamplesSplit || len(idx) < 2*params.MinSamplesLeaf {
		return id
	}
	if sse(y, idx) <= 1e-12 {
		return id
	}

	feature, threshold, ok := bestSplit(x, y, idx, params.MinSamplesLeaf)
	if !ok {
		return id
	}

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if x[i][feature] <= threshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	left := t.grow(x, y, leftIdx, depth+1, params)
	right := t.grow(x, y, rightIdx, depth+1, params)

	t.nodes[id].feature = feature
	t.nodes[id].threshold = threshold
	t.nodes[id].left = left
	t.nodes[id].right = right
	return id
}

// bestSplit scans every feature for the split with the lowest total SSE
func bestSplit(x [][]float64, y []float64, idx []int, minLeaf int) (int, float64, bool) {
	n := len(idx)
	nFeatures := len(x[idx[0]])

	bestFeature := -1
	bestThreshold := 0.0
	bestCost := 0.0

	sorted := make([]int, n)
	for f := 0; f < nFeatures; f++ {
		copy(sorted, idx)
		sort.SliceStable(sorted, func(a, b int) bool {
			return x[sorted[a]][f] < x[sorted[b]][f]
		})

		var totalSum, totalSq float64
		for _, i := range sorted {
			totalSum += y[i]
			totalSq += y[i] * y[i]
		}

		var leftSum, leftSq float64
		for k := 1; k < n; k++ {
			prev := sorted[k-1]
			leftSum += y[prev]
			leftSq += y[prev] * y[prev]

			lo, hi := x[prev][f], x[sorted[k]][f]
			if hi <= lo+featureThreshold {
				continue
			}
			if k < minLeaf || n-k < minLeaf {
				continue
			}

			nl, nr := float64(k), float64(n-k)
			rightSum, rightSq := totalSum-leftSum, totalSq-leftSq
			cost := (leftSq - leftSum*leftSum/nl) + (rightSq - rightSum*rightSum/nr)

			if bestFeature < 0 || cost < bestCost {
				bestFeature = f
				bestCost = cost
				bestThreshold = lo + (hi-lo)/2
				if bestThreshold >= hi {
					bestThreshold = lo
				}
			}
		}
	}

	return bestFeature, bestThreshold, bestFeature >= 0
}

// Predict walks the tree for one feature vector
func (t *Tree) Predict(v []float64) float64 {
	id := 0
	for {
		nd := t.nodes[id]
		if nd.left < 0 {
			return nd.value
		}
		if v[nd.feature] <= nd.threshold {
			id = nd.left
		} else {
			id = nd.right
		}
	}
}

// Depth returns the depth of the deepest leaf
func (t *Tree) Depth() int {
	var walk func(id int) int
	walk = func(id int) int {
		nd := t.nodes[id]
		if nd.left < 0 {
			return 0
		}
		l, r := walk(nd.left), walk(nd.right)
		if l > r {
			return l + 1
		}
		return r + 1
	}
	return walk(0)
}

func meanOf(y []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	sum := 0.0
	for _, i := range idx {
		sum += y[i]
	}
	return sum / float64(len(idx))
}

func sse(y []float64, idx []int) float64 {
	m := meanOf(y, idx)
	s := 0.0
	for _, i := range idx {
		d := y[i] - m
		s += d * d
	}
	return s
}
