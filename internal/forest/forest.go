package forest

import (
	"errors"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ErrNoSamples 학습 데이터 없음
var ErrNoSamples = errors.New("random forest: no training samples")

// Config 랜덤 포레스트 하이퍼파라미터
type Config struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	Seed            int64
}

// DefaultConfig 고정 기본값 (50 trees, depth 5, split 2, seed 42)
func DefaultConfig() Config {
	return Config{
		NEstimators:     50,
		MaxDepth:        5,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		Seed:            42,
	}
}

// Forest bootstrap-aggregated regression trees
type Forest struct {
	config Config
	trees  []*Tree
}

// Fit trains a forest on x (rows × features) and y.
// 같은 시드 → 같은 트리 (재현성)
func Fit(x [][]float64, y []float64, config Config) (*Forest, error) {
	n := len(x)
	if n == 0 {
		return nil, ErrNoSamples
	}
	if len(y) != n {
		return nil, fmt.Errorf("random forest: %d rows but %d targets", n, len(y))
	}
	width := len(x[0])
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("random forest: row %d has %d features, want %d", i, len(row), width)
		}
	}

	rng := rand.New(rand.NewSource(config.Seed))
	params := TreeParams{
		MaxDepth:        config.MaxDepth,
		MinSamplesSplit: config.MinSamplesSplit,
		MinSamplesLeaf:  config.MinSamplesLeaf,
	}

	f := &Forest{config: config, trees: make([]*Tree, 0, config.NEstimators)}
	for t := 0; t < config.NEstimators; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		f.trees = append(f.trees, fitTree(x, y, sample, params))
	}
	return f, nil
}

// Predict averages the trees' predictions for one feature vector
func (f *Forest) Predict(v []float64) float64 {
	sum := 0.0
	for _, t := range f.trees {
		sum += t.Predict(v)
	}
	return sum / float64(len(f.trees))
}

// PredictAll predicts every row of x
func (f *Forest) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = f.Predict(row)
	}
	return out
}

// Score returns the coefficient of determination R² on (x, y).
// A constant target scores 1 when predicted exactly, 0 otherwise.
func (f *Forest) Score(x [][]float64, y []float64) float64 {
	pred := f.PredictAll(x)
	mean := stat.Mean(y, nil)

	var ssRes, ssTot float64
	for i := range y {
		r := y[i] - pred[i]
		ssRes += r * r
		d := y[i] - mean
		ssTot += d * d
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// Trees returns the number of fitted trees
func (f *Forest) Trees() int {
	return len(f.trees)
}

// MaxTreeDepth returns the deepest tree in the forest
func (f *Forest) MaxTreeDepth() int {
	depths := make([]float64, len(f.trees))
	for i, t := range f.trees {
		depths[i] = float64(t.Depth())
	}
	if len(depths) == 0 {
		return 0
	}
	return int(floats.Max(depths))
}
