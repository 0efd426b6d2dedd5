package metrics

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// ErrNonFinite 지표 입력 또는 결과가 유한하지 않음
var ErrNonFinite = errors.New("non-finite value in backtest pairs")

// Calculator S4 백테스트 지표 계산기
type Calculator struct {
	log zerolog.Logger
}

// NewCalculator 새 지표 계산기 생성
func NewCalculator(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("component", "metrics.calculator").Logger(),
	}
}

// Calculate returns RMSE, MAE and MAPE (percent) over the pairs.
// MAPE only averages pairs with a non-zero actual. No pairs or all-zero
// actuals give zero for every metric.
func (c *Calculator) Calculate(pairs []contracts.BacktestPair) (contracts.Metrics, error) {
	if len(pairs) == 0 {
		c.log.Debug().Msg("no backtest pairs, metrics degrade to zero")
		return contracts.Metrics{}, nil
	}

	absErr := make([]float64, len(pairs))
	sqErr := make([]float64, len(pairs))
	var pctErr []float64
	allZero := true
	for i, p := range pairs {
		if !finite(p.Actual) || !finite(p.Predicted) {
			return contracts.Metrics{}, fmt.Errorf("%w: pair %d", ErrNonFinite, i)
		}
		e := p.Actual - p.Predicted
		absErr[i] = math.Abs(e)
		sqErr[i] = e * e
		if p.Actual != 0 {
			allZero = false
			pctErr = append(pctErr, math.Abs(e/p.Actual))
		}
	}
	if allZero {
		c.log.Debug().Msg("all actuals zero, metrics degrade to zero")
		return contracts.Metrics{}, nil
	}

	m := contracts.Metrics{
		RMSE: math.Sqrt(stat.Mean(sqErr, nil)),
		MAE:  stat.Mean(absErr, nil),
		MAPE: floats.Sum(pctErr) / float64(len(pctErr)) * 100,
	}
	if !finite(m.RMSE) || !finite(m.MAE) || !finite(m.MAPE) {
		return contracts.Metrics{}, fmt.Errorf("%w: rmse=%v mae=%v mape=%v", ErrNonFinite, m.RMSE, m.MAE, m.MAPE)
	}

	c.log.Debug().
		Int("pairs", len(pairs)).
		Int("mape_pairs", len(pctErr)).
		Float64("rmse", m.RMSE).
		Float64("mae", m.MAE).
		Float64("mape", m.MAPE).
		Msg("metrics calculated")

	return m, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
