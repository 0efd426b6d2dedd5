package stattest

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// KPSS 임계값 테이블 (level stationarity, Kwiatkowski et al. 1992)
var (
	kpssTableP    = []float64{0.10, 0.05, 0.025, 0.01}
	kpssTableStat = []float64{0.347, 0.463, 0.574, 0.739}
)

// KPSSResult level-stationarity KPSS 결과
type KPSSResult struct {
	Statistic float64
	PValue    float64 // table interpolation, clamped to [0.01, 0.10]
	Lags      int
}

// KPSS tests the null of level stationarity.
// The bandwidth uses the short rule trunc(3·sqrt(n)/13).
func KPSS(x []float64) KPSSResult {
	n := len(x)
	lags := int(math.Trunc(3 * math.Sqrt(float64(n)) / 13))
	if lags > n-1 {
		lags = n - 1
	}

	mean := stat.Mean(x, nil)
	resid := make([]float64, n)
	for i, v := range x {
		resid[i] = v - mean
	}

	// 부분합 제곱합
	cum := make([]float64, n)
	floats.CumSum(cum, resid)
	eta := floats.Dot(cum, cum) / float64(n*n)

	// Newey-West 장기분산
	s2 := floats.Dot(resid, resid)
	for l := 1; l <= lags; l++ {
		w := 1 - float64(l)/float64(lags+1)
		s2 += 2 * w * floats.Dot(resid[l:], resid[:n-l])
	}
	s2 /= float64(n)

	statistic := 0.0
	if s2 > 0 {
		statistic = eta / s2
	}

	return KPSSResult{
		Statistic: statistic,
		PValue:    kpssPValue(statistic),
		Lags:      lags,
	}
}

// ShouldDiff reports whether level stationarity is rejected at alpha
func (r KPSSResult) ShouldDiff(alpha float64) bool {
	return r.PValue < alpha
}

func kpssPValue(statistic float64) float64 {
	last := len(kpssTableStat) - 1
	if statistic <= kpssTableStat[0] {
		return kpssTableP[0]
	}
	if statistic >= kpssTableStat[last] {
		return kpssTableP[last]
	}
	for i := 1; i <= last; i++ {
		if statistic <= kpssTableStat[i] {
			lo, hi := kpssTableStat[i-1], kpssTableStat[i]
			frac := (statistic - lo) / (hi - lo)
			return kpssTableP[i-1] + frac*(kpssTableP[i]-kpssTableP[i-1])
		}
	}
	return kpssTableP[last]
}

// NDiffs returns the number of first differences needed for level
// stationarity, capped at maxD.
func NDiffs(x []float64, alpha float64, maxD int) int {
	d := 0
	cur := x
	for d < maxD {
		if len(cur) < 3 || floats.Max(cur) == floats.Min(cur) {
			return d
		}
		if !KPSS(cur).ShouldDiff(alpha) {
			return d
		}
		cur = Diff(cur, 1)
		d++
	}
	return d
}

// Diff returns the lag-`lag` difference of x
func Diff(x []float64, lag int) []float64 {
	if len(x) <= lag {
		return nil
	}
	out := make([]float64, len(x)-lag)
	for i := range out {
		out[i] = x[i+lag] - x[i]
	}
	return out
}
