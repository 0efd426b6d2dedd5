package stattest

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// seasonalStrengthThreshold Wang, Smith & Hyndman (2006) 기준
const seasonalStrengthThreshold = 0.64

// SeasonalStrength measures seasonality as 1 - Var(R)/Var(S+R) from a
// classical additive decomposition with period m. Returns 0 when the
// series is shorter than two full cycles.
func SeasonalStrength(x []float64, m int) float64 {
	n := len(x)
	if m < 2 || n < 2*m {
		return 0
	}

	trend := centeredMA(x, m)

	// 계절 위치별 평균 (추세 제거 후)
	sums := make([]float64, m)
	counts := make([]int, m)
	for i, tr := range trend {
		if math.IsNaN(tr) {
			continue
		}
		sums[i%m] += x[i] - tr
		counts[i%m]++
	}
	seasonal := make([]float64, m)
	mean := 0.0
	for j := range seasonal {
		if counts[j] > 0 {
			seasonal[j] = sums[j] / float64(counts[j])
		}
		mean += seasonal[j]
	}
	mean /= float64(m)
	for j := range seasonal {
		seasonal[j] -= mean
	}

	var remainder, detrended []float64
	for i, tr := range trend {
		if math.IsNaN(tr) {
			continue
		}
		d := x[i] - tr
		detrended = append(detrended, d)
		remainder = append(remainder, d-seasonal[i%m])
	}
	if len(detrended) < 2 {
		return 0
	}

	vd := stat.Variance(detrended, nil)
	if vd == 0 {
		return 0
	}
	return math.Max(0, 1-stat.Variance(remainder, nil)/vd)
}

// NSDiffs returns 1 when the seasonal strength exceeds the threshold
func NSDiffs(x []float64, m int) int {
	if SeasonalStrength(x, m) > seasonalStrengthThreshold {
		return 1
	}
	return 0
}

// centeredMA is the m-period centred moving average (2×m for even m).
// Positions without a full window are NaN.
func centeredMA(x []float64, m int) []float64 {
	n := len(x)
	out := make([]float64, n)
	half := m / 2
	for i := range out {
		out[i] = math.NaN()
		if i-half < 0 || i+half >= n {
			continue
		}
		if m%2 == 1 {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += x[j]
			}
			out[i] = sum / float64(m)
			continue
		}
		sum := 0.5*x[i-half] + 0.5*x[i+half]
		for j := i - half + 1; j <= i+half-1; j++ {
			sum += x[j]
		}
		out[i] = sum / float64(m)
	}
	return out
}
