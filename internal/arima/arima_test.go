package arima

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolyMul(t *testing.T) {
	// (1 - 0.5B)(1 - B) = 1 - 1.5B + 0.5B²
	got := polyMul(arPoly([]float64{0.5}, 1), diffPoly(1, 1))
	assert.InDeltaSlice(t, []float64{1, -1.5, 0.5}, got, 1e-12)

	assert.Equal(t, []float64{1, 0, 0, 0, -1}, diffPoly(1, 4))
	assert.Equal(t, []float64{1}, diffPoly(0, 12))
}

func TestStableRecursion(t *testing.T) {
	tests := []struct {
		name string
		coef []float64
		want bool
	}{
		{"empty", nil, true},
		{"ar1 stationary", []float64{0.5}, true},
		{"ar1 explosive", []float64{1.2}, false},
		{"unit root", []float64{1}, false},
		{"ar2 stationary", []float64{0.5, 0.3}, true},
		{"ar2 explosive", []float64{0.5, 0.6}, false},
		{"trailing zero", []float64{0.4, 0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stableRecursion(tt.coef))
		})
	}
}

func TestInvertible(t *testing.T) {
	assert.True(t, invertible([]float64{0.5}))
	assert.True(t, invertible([]float64{-0.5}))
	assert.False(t, invertible([]float64{-1.5}))
	assert.False(t, invertible([]float64{1}))
}

func TestOrderString(t *testing.T) {
	assert.Equal(t, "ARIMA(1,1,1)", Order{P: 1, D: 1, Q: 1}.String())
	assert.Equal(t, "ARIMA(0,1,1)(0,1,1)[12]", Order{D: 1, Q: 1, SD: 1, SQ: 1, M: 12}.String())
	assert.Equal(t, "ARIMA(0,0,0) intercept", Order{Intercept: true}.String())
}

func TestFitInvalidOrder(t *testing.T) {
	_, err := Fit([]float64{1, 2, 3, 4}, Order{SP: 1})
	assert.True(t, errors.Is(err, ErrInvalidOrder))

	_, err = Fit([]float64{1, 2, 3, 4}, Order{P: -1})
	assert.True(t, errors.Is(err, ErrInvalidOrder))
}

func TestFitTooFewObservations(t *testing.T) {
	_, err := Fit([]float64{1, 2}, Order{P: 2})
	assert.True(t, errors.Is(err, ErrTooFewObservations))

	_, err = Fit([]float64{5}, Order{D: 1})
	assert.True(t, errors.Is(err, ErrTooFewObservations))
}

func TestRandomWalkForecast(t *testing.T) {
	y := []float64{10, 12, 11, 15, 14, 16}
	m, err := Fit(y, Order{D: 1})
	require.NoError(t, err)

	fc := m.Forecast(4, 0.05)
	require.Len(t, fc.Mean, 4)

	// 랜덤워크: 점 예측 = 마지막 값, 구간은 점점 넓어짐
	prevWidth := 0.0
	for k := range fc.Mean {
		assert.InDelta(t, 16, fc.Mean[k], 1e-9)
		assert.Less(t, fc.Lower[k], fc.Mean[k])
		assert.Greater(t, fc.Upper[k], fc.Mean[k])
		width := fc.Upper[k] - fc.Lower[k]
		assert.Greater(t, width, prevWidth)
		prevWidth = width
	}

	for _, p := range m.psiWeights(5) {
		assert.InDelta(t, 1, p, 1e-12)
	}
}

func TestDriftRecoversLinearTrend(t *testing.T) {
	y := make([]float64, 20)
	for i := range y {
		y[i] = 10 + 2*float64(i)
	}

	m, err := Fit(y, Order{D: 1, Intercept: true})
	require.NoError(t, err)
	assert.InDelta(t, 2, m.Coefficients()["intercept"], 1e-9)
	assert.InDelta(t, 0, m.Sigma2(), 1e-12)

	fc := m.Forecast(3, 0.05)
	for k, v := range fc.Mean {
		assert.InDelta(t, 10+2*float64(len(y)+k), v, 1e-6)
	}
}

func TestFitRecoversAR1(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	y := make([]float64, 300)
	for i := 1; i < len(y); i++ {
		y[i] = 0.6*y[i-1] + rng.NormFloat64()
	}

	m, err := Fit(y, Order{P: 1})
	require.NoError(t, err)

	phi := m.Coefficients()["ar.L1"]
	assert.InDelta(t, 0.6, phi, 0.15)
	assert.True(t, stableRecursion([]float64{phi}))
	assert.Equal(t, 299, m.NEff())
	assert.False(t, math.IsNaN(m.AIC()))
}

func TestFittedAlignment(t *testing.T) {
	y := []float64{3, 5, 4, 6, 8, 7, 9, 11}
	m, err := Fit(y, Order{P: 1, D: 1})
	require.NoError(t, err)

	fitted := m.Fitted()
	require.Len(t, fitted, len(y))
	// 차분 1 + AR 조건화 1 → 앞의 두 값은 정의되지 않음
	assert.True(t, math.IsNaN(fitted[0]))
	assert.True(t, math.IsNaN(fitted[1]))
	for _, v := range fitted[2:] {
		assert.False(t, math.IsNaN(v))
	}
}

func TestAutoTinySeries(t *testing.T) {
	res, err := Auto([]float64{100, 120, 130}, DefaultSearchConfig())
	require.NoError(t, err)
	require.NotNil(t, res.Best)

	fc := res.Best.Forecast(2, 0.05)
	for _, v := range fc.Mean {
		assert.False(t, math.IsNaN(v))
	}
}

func TestAutoSeasonal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	y := make([]float64, 48)
	for i := range y {
		y[i] = 1000 + 300*math.Sin(2*math.Pi*float64(i)/12) + rng.NormFloat64()
	}

	cfg := DefaultSearchConfig()
	cfg.M = 12
	res, err := Auto(y, cfg)
	require.NoError(t, err)

	order := res.Best.Order()
	assert.Equal(t, 1, order.SD)
	assert.Equal(t, 12, order.M)
	assert.Greater(t, res.Evaluated, 0)
}

func TestAutoNonSeasonalIgnoresSeasonalTerms(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	y := make([]float64, 40)
	level := 500.0
	for i := range y {
		level += 5 + rng.NormFloat64()*3
		y[i] = level
	}

	res, err := Auto(y, DefaultSearchConfig())
	require.NoError(t, err)

	order := res.Best.Order()
	assert.Zero(t, order.SP)
	assert.Zero(t, order.SD)
	assert.Zero(t, order.SQ)
	assert.LessOrEqual(t, order.P+order.Q, 5)
}
