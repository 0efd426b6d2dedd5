package stattest

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrSingular the design matrix is rank deficient
var ErrSingular = errors.New("singular design matrix")

// olsResult 최소자승 회귀 결과
type olsResult struct {
	beta   []float64
	stdErr []float64
	ssr    float64
	nobs   int
}

// aic follows the Gaussian log-likelihood used by statsmodels OLS
func (r olsResult) aic() float64 {
	n := float64(r.nobs)
	llf := -n / 2 * (math.Log(2*math.Pi) + math.Log(r.ssr/n) + 1)
	return -2*llf + 2*float64(len(r.beta))
}

// tstat returns beta[i] / se[i]
func (r olsResult) tstat(i int) float64 {
	return r.beta[i] / r.stdErr[i]
}

// ols fits y = X·beta by least squares
func ols(x *mat.Dense, y []float64) (olsResult, error) {
	n, k := x.Dims()
	if n <= k {
		return olsResult{}, ErrSingular
	}

	var xtx mat.Dense
	xtx.Mul(x.T(), x)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		return olsResult{}, ErrSingular
	}

	yv := mat.NewVecDense(n, y)
	var xty mat.VecDense
	xty.MulVec(x.T(), yv)

	var beta mat.VecDense
	beta.MulVec(&inv, &xty)

	var fitted mat.VecDense
	fitted.MulVec(x, &beta)

	ssr := 0.0
	for i := 0; i < n; i++ {
		e := y[i] - fitted.AtVec(i)
		ssr += e * e
	}

	sigma2 := ssr / float64(n-k)
	res := olsResult{
		beta:   make([]float64, k),
		stdErr: make([]float64, k),
		ssr:    ssr,
		nobs:   n,
	}
	for i := 0; i < k; i++ {
		res.beta[i] = beta.AtVec(i)
		res.stdErr[i] = math.Sqrt(sigma2 * inv.At(i, i))
	}
	return res, nil
}
