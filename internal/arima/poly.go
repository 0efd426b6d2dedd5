package arima

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// 다항식은 lag 연산자 B의 계수를 오름차순으로 저장: p[0] + p[1]·B + ...

// polyMul multiplies two lag polynomials
func polyMul(a, b []float64) []float64 {
	out := make([]float64, len(a)+len(b)-1)
	for i, x := range a {
		if x == 0 {
			continue
		}
		for j, y := range b {
			out[i+j] += x * y
		}
	}
	return out
}

// arPoly builds 1 - c1·B^s - c2·B^2s - ...
func arPoly(coef []float64, s int) []float64 {
	p := make([]float64, len(coef)*s+1)
	p[0] = 1
	for i, c := range coef {
		p[(i+1)*s] = -c
	}
	return p
}

// maPoly builds 1 + c1·B^s + c2·B^2s + ...
func maPoly(coef []float64, s int) []float64 {
	p := make([]float64, len(coef)*s+1)
	p[0] = 1
	for i, c := range coef {
		p[(i+1)*s] = c
	}
	return p
}

// diffPoly builds (1 - B^s)^k
func diffPoly(k, s int) []float64 {
	p := []float64{1}
	for i := 0; i < k; i++ {
		p = polyMul(p, arPoly([]float64{1}, s))
	}
	return p
}

// unitCircleMargin 근이 단위원에 이만큼 가까우면 비정상으로 취급
const unitCircleMargin = 1e-6

// stableRecursion reports whether x_t = c1·x_{t-1} + ... + ck·x_{t-k}
// is stable, i.e. every companion-matrix eigenvalue lies strictly inside
// the unit circle. This is equivalent to every root of 1 - c1·z - ... - ck·z^k
// lying outside it.
func stableRecursion(c []float64) bool {
	k := len(c)
	for k > 0 && c[k-1] == 0 {
		k--
	}
	switch k {
	case 0:
		return true
	case 1:
		return math.Abs(c[0]) < 1-unitCircleMargin
	}

	companion := mat.NewDense(k, k, nil)
	for j := 0; j < k; j++ {
		companion.Set(0, j, c[j])
	}
	for i := 1; i < k; i++ {
		companion.Set(i, i-1, 1)
	}

	var eig mat.Eigen
	if ok := eig.Factorize(companion, mat.EigenNone); !ok {
		return false
	}
	for _, v := range eig.Values(nil) {
		if cmplx.Abs(v) >= 1-unitCircleMargin {
			return false
		}
	}
	return true
}

// invertible reports whether 1 + c1·z + ... + ck·z^k has every root outside the unit circle
func invertible(c []float64) bool {
	neg := make([]float64, len(c))
	for i, v := range c {
		neg[i] = -v
	}
	return stableRecursion(neg)
}
