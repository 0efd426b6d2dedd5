package stattest

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrConstant the series has no variation
	ErrConstant = errors.New("invalid input, series is constant")
	// ErrTooShort the series cannot support the regression
	ErrTooShort = errors.New("sample size is too short to use selected regression component")
)

// ADFResult augmented Dickey-Fuller 결과 (상수항 포함 회귀)
type ADFResult struct {
	Statistic float64
	PValue    float64
	UsedLag   int
	NObs      int
}

// Stationary reports whether the unit root is rejected at alpha
func (r ADFResult) Stationary(alpha float64) bool {
	return r.PValue < alpha
}

// ADF runs the augmented Dickey-Fuller test with a constant term.
// The lag order is picked by AIC up to ceil(12·(n/100)^¼).
func ADF(x []float64) (ADFResult, error) {
	nobs := len(x)
	if nobs == 0 {
		return ADFResult{}, ErrTooShort
	}
	if floats.Max(x) == floats.Min(x) {
		return ADFResult{}, ErrConstant
	}

	maxlag := int(math.Ceil(12 * math.Pow(float64(nobs)/100, 0.25)))
	// 상수항 1개 → nobs/2 - 2
	if limit := nobs/2 - 2; limit < maxlag {
		maxlag = limit
	}
	if maxlag < 0 {
		return ADFResult{}, ErrTooShort
	}

	diff := make([]float64, nobs-1)
	for i := range diff {
		diff[i] = x[i+1] - x[i]
	}

	// 동일 표본에서 AIC로 래그 선택
	bestLag := 0
	bestAIC := math.Inf(1)
	for lag := 0; lag <= maxlag; lag++ {
		design, y := adfDesign(x, diff, maxlag, lag)
		res, err := ols(design, y)
		if err != nil {
			continue
		}
		if aic := res.aic(); aic < bestAIC {
			bestAIC = aic
			bestLag = lag
		}
	}

	// 선택된 래그로 전체 표본 재추정
	design, y := adfDesign(x, diff, bestLag, bestLag)
	res, err := ols(design, y)
	if err != nil {
		return ADFResult{}, fmt.Errorf("adf regression: %w", err)
	}

	stat := res.tstat(1)
	return ADFResult{
		Statistic: stat,
		PValue:    MacKinnonP(stat),
		UsedLag:   bestLag,
		NObs:      len(y),
	}, nil
}

// adfDesign builds [const, y_{t-1}, Δy_{t-1..t-lags}] on the sample trimmed by trim
func adfDesign(x, diff []float64, trim, lags int) (*mat.Dense, []float64) {
	rows := len(diff) - trim
	cols := 2 + lags
	design := mat.NewDense(rows, cols, nil)
	y := make([]float64, rows)
	for r := 0; r < rows; r++ {
		t := trim + r
		y[r] = diff[t]
		design.Set(r, 0, 1)
		design.Set(r, 1, x[t])
		for l := 1; l <= lags; l++ {
			design.Set(r, 1+l, diff[t-l])
		}
	}
	return design, y
}

// MacKinnon (1994, 2010) 근사 p-value, 상수항 모형, 시계열 1개
const (
	tauMaxC  = 2.74
	tauMinC  = -18.83
	tauStarC = -1.61
)

var (
	tauSmallPC = []float64{2.1659, 1.4412, 0.038269}
	tauLargePC = []float64{1.7339, 0.93202, -0.12745, -0.010368}
)

// MacKinnonP returns the approximate p-value of an ADF statistic.
// NaN statistics yield NaN.
func MacKinnonP(stat float64) float64 {
	switch {
	case math.IsNaN(stat):
		return math.NaN()
	case stat > tauMaxC:
		return 1
	case stat < tauMinC:
		return 0
	}

	coef := tauLargePC
	if stat <= tauStarC {
		coef = tauSmallPC
	}
	return distuv.UnitNormal.CDF(polyval(coef, stat))
}

// polyval evaluates c[0] + c[1]·x + c[2]·x² + ...
func polyval(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}
