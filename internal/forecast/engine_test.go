package forecast

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// noisyTrend 완만한 상승 추세 + 결정적 잡음
func noisyTrend(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 1000 + 25*float64(i) + 40*math.Sin(1.7*float64(i))
	}
	return out
}

func TestEngineARIMA(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	req := request(noisyTrend(12), contracts.ModelARIMA, month(2025, time.January), month(2025, time.March))

	out, err := engine.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "auto_arima", out.Strategy)
	require.Len(t, out.Predictions, 3)
	for i, p := range out.Predictions {
		assert.Equal(t, month(2025, time.January).AddDate(0, i, 0), p.Date)
		assert.GreaterOrEqual(t, p.PredictedSales, 0.0)
		assert.Equal(t, 95.0, p.ConfidenceLevel)
		require.NotNil(t, p.ConfidenceLower)
		require.NotNil(t, p.ConfidenceUpper)
		assert.LessOrEqual(t, *p.ConfidenceLower, p.PredictedSales)
		assert.GreaterOrEqual(t, *p.ConfidenceUpper, p.PredictedSales)
		assert.GreaterOrEqual(t, *p.ConfidenceLower, 0.0)
	}
	assert.NotEmpty(t, out.BacktestPairs)
	assert.LessOrEqual(t, len(out.BacktestPairs), 11)
}

func TestEngineFixedARIMA(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AutoOrder = false
	engine := NewEngineWithConfig(cfg, zerolog.Nop())

	req := request(noisyTrend(10), contracts.ModelARIMA, month(2024, time.November), month(2024, time.December))
	out, err := engine.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "fixed_arima", out.Strategy)
	assert.Len(t, out.Predictions, 2)
}

func TestEngineRandomForest(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	req := request(noisyTrend(12), contracts.ModelRandomForest, month(2025, time.January), month(2025, time.June))

	out, err := engine.Run(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "random_forest", out.Strategy)
	require.Len(t, out.Predictions, 6)
	for _, p := range out.Predictions {
		assert.GreaterOrEqual(t, p.PredictedSales, 0.0)
		assert.GreaterOrEqual(t, p.ConfidenceLevel, 0.0)
		assert.LessOrEqual(t, p.ConfidenceLevel, 100.0)
		assert.Nil(t, p.ConfidenceLower)
		assert.Nil(t, p.ConfidenceUpper)
	}
	assert.Len(t, out.BacktestPairs, 11)
}

func TestEngineRandomForestSkipsToRequestedStart(t *testing.T) {
	engine := NewEngine(zerolog.Nop())
	totals := noisyTrend(12)

	full, err := engine.Run(context.Background(), request(totals, contracts.ModelRandomForest, month(2025, time.January), month(2025, time.April)))
	require.NoError(t, err)

	later, err := engine.Run(context.Background(), request(totals, contracts.ModelRandomForest, month(2025, time.March), month(2025, time.April)))
	require.NoError(t, err)

	// 건너뛴 기간도 재귀에 반영되므로 같은 날짜는 같은 예측
	require.Len(t, later.Predictions, 2)
	assert.Equal(t, full.Predictions[2:], later.Predictions)
}

func TestEngineIsDeterministic(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	for _, modelType := range []contracts.ModelType{contracts.ModelARIMA, contracts.ModelRandomForest} {
		t.Run(string(modelType), func(t *testing.T) {
			req := request(noisyTrend(12), modelType, month(2025, time.January), month(2025, time.March))

			a, err := engine.Run(context.Background(), req)
			require.NoError(t, err)
			b, err := engine.Run(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, a, b)
		})
	}
}

func TestEngineErrors(t *testing.T) {
	engine := NewEngine(zerolog.Nop())

	t.Run("zero training target", func(t *testing.T) {
		req := request([]float64{0, 0, 0, 5}, contracts.ModelRandomForest, month(2024, time.May), month(2024, time.June))
		_, err := engine.Run(context.Background(), req)
		assert.ErrorIs(t, err, ErrZeroTarget)
	})

	t.Run("insufficient data", func(t *testing.T) {
		req := request([]float64{10, 20}, contracts.ModelARIMA, month(2024, time.March), month(2024, time.June))
		_, err := engine.Run(context.Background(), req)
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("invalid range", func(t *testing.T) {
		req := request([]float64{10, 20, 30}, contracts.ModelARIMA, month(2024, time.June), month(2024, time.May))
		_, err := engine.Run(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
}

func TestRecursor(t *testing.T) {
	lagPlusOne := func(v []float64) float64 { return v[2] + 1 }
	r := NewRecursor([]float64{10, 20}, false, lagPlusOne)

	v, err := r.Step(month(2024, time.March))
	require.NoError(t, err)
	assert.Equal(t, 21.0, v)

	v, err = r.Step(month(2024, time.April))
	require.NoError(t, err)
	assert.Equal(t, 22.0, v)

	assert.Equal(t, []float64{10, 20, 21, 22}, r.Values())
}

func TestRecursorClampsAndRejects(t *testing.T) {
	negative := NewRecursor([]float64{1, 2, 3}, true, func([]float64) float64 { return -5 })
	v, err := negative.Step(month(2024, time.April))
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	promoSeen := 0.0
	promo := NewRecursor([]float64{1, 2, 3}, true, func(row []float64) float64 {
		promoSeen = row[6]
		return 1
	})
	_, err = promo.Step(month(2024, time.April))
	require.NoError(t, err)
	assert.Equal(t, 1.0, promoSeen)

	bad := NewRecursor([]float64{1, 2, 3}, false, func([]float64) float64 { return math.NaN() })
	_, err = bad.Step(month(2024, time.April))
	assert.ErrorIs(t, err, ErrNonFinite)
}
