package forecast

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/features"
	"github.com/BOLT4L/SaleForecast/internal/forest"
)

// Ensemble 랜덤 포레스트 회귀 전략
type Ensemble struct {
	config forest.Config
	log    zerolog.Logger
}

// NewEnsemble 새 앙상블 전략 생성
func NewEnsemble(config forest.Config, log zerolog.Logger) *Ensemble {
	return &Ensemble{
		config: config,
		log:    log.With().Str("component", "forecast.ensemble").Logger(),
	}
}

// Name returns the strategy name
func (s *Ensemble) Name() string { return "random_forest" }

// Available is always true
func (s *Ensemble) Available() bool { return true }

// Fit trains the forest on the training feature rows
func (s *Ensemble) Fit(ctx context.Context, training *Training) (Model, error) {
	n := len(training.Features)
	x := make([][]float64, n)
	y := make([]float64, n)
	allZero := true
	for i, row := range training.Features {
		x[i] = row.Vector()
		y[i] = row.TotalAmount
		if y[i] != 0 {
			allZero = false
		}
	}
	if allZero {
		return nil, ErrZeroTarget
	}

	f, err := forest.Fit(x, y, s.config)
	if err != nil {
		return nil, fmt.Errorf("random forest: %w", err)
	}

	r2 := f.Score(x, y)
	confidence := math.Min(math.Max(r2, 0), 1) * 100
	if !finite(confidence) {
		confidence = 0
	}

	fitted := f.PredictAll(x)
	pairs := make([]contracts.BacktestPair, n)
	for i := range pairs {
		pairs[i] = contracts.BacktestPair{Actual: y[i], Predicted: fitted[i]}
	}

	history := training.History
	s.log.Info().
		Int("trees", f.Trees()).
		Int("max_depth", f.MaxTreeDepth()).
		Float64("r2", r2).
		Int("samples", n).
		Msg("forest fitted")

	return &ensembleModel{
		forest:       f,
		confidence:   confidence,
		pairs:        pairs,
		granularity:  history.Granularity,
		lastObserved: history.Last().PeriodStart,
		totals:       history.Totals(),
		promotion:    history.Last().Promotion,
	}, nil
}

// ensembleModel 학습된 포레스트와 재귀 예측 상태의 시작점
type ensembleModel struct {
	forest       *forest.Forest
	confidence   float64
	pairs        []contracts.BacktestPair
	granularity  contracts.Granularity
	lastObserved time.Time
	totals       []float64
	promotion    bool
}

// Forecast walks period by period from the one after the last observation.
// Periods between history and the horizon are predicted and fed back but
// not emitted.
func (m *ensembleModel) Forecast(horizon Horizon) ([]contracts.ForecastPoint, error) {
	r := NewRecursor(m.totals, m.promotion, m.forest.Predict)

	points := make([]contracts.ForecastPoint, 0, horizon.Len())
	next := 0
	for p := m.granularity.Next(m.lastObserved); next < horizon.Len(); p = m.granularity.Next(p) {
		v, err := r.Step(p)
		if err != nil {
			return nil, err
		}
		if !p.Equal(horizon.Dates[next]) {
			continue
		}
		points = append(points, contracts.ForecastPoint{
			Date:            p,
			PredictedSales:  v,
			ConfidenceLevel: m.confidence,
		})
		next++
	}
	return points, nil
}

// BacktestPairs returns the in-sample predictions on the training rows
func (m *ensembleModel) BacktestPairs() []contracts.BacktestPair {
	return m.pairs
}

// Recursor 재귀 예측 누산기
// 각 단계의 예측이 다음 단계의 래그/롤링 입력이 됨
type Recursor struct {
	values    []float64
	promotion bool
	predict   func([]float64) float64
}

// NewRecursor starts an accumulator from the known totals.
// promotion is carried unchanged into every synthesized row.
func NewRecursor(known []float64, promotion bool, predict func([]float64) float64) *Recursor {
	return &Recursor{
		values:    append([]float64(nil), known...),
		promotion: promotion,
		predict:   predict,
	}
}

// Step predicts the period starting at period, clamps it at zero and
// appends it to the accumulator.
func (r *Recursor) Step(period time.Time) (float64, error) {
	row := features.NextRow(period, r.values, r.promotion)
	v := r.predict(row.Vector())
	if !finite(v) {
		return 0, fmt.Errorf("%w at %s", ErrNonFinite, period.Format(contracts.DateLayout))
	}
	v = math.Max(v, 0)
	r.values = append(r.values, v)
	return v, nil
}

// Values returns the accumulated series (known followed by predicted)
func (r *Recursor) Values() []float64 {
	return append([]float64(nil), r.values...)
}
