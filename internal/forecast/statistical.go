package forecast

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/BOLT4L/SaleForecast/internal/arima"
	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// seasonalMinObs 계절 성분을 고려하는 최소 학습 길이
const seasonalMinObs = 12

// AutoARIMA 단계적 차수 탐색 ARIMA
type AutoARIMA struct {
	enabled bool
	search  arima.SearchConfig
	alpha   float64
	log     zerolog.Logger
}

// NewAutoARIMA 새 auto ARIMA 전략 생성
func NewAutoARIMA(enabled bool, search arima.SearchConfig, alpha float64, log zerolog.Logger) *AutoARIMA {
	return &AutoARIMA{
		enabled: enabled,
		search:  search,
		alpha:   alpha,
		log:     log.With().Str("component", "forecast.auto_arima").Logger(),
	}
}

// Name returns the strategy name
func (s *AutoARIMA) Name() string { return "auto_arima" }

// Available is false when the order search is switched off by configuration
func (s *AutoARIMA) Available() bool { return s.enabled }

// Fit runs the order search on the training totals
func (s *AutoARIMA) Fit(ctx context.Context, training *Training) (Model, error) {
	y := training.Series.Totals()
	if len(y) < MinTrainingARIMA {
		return nil, ErrARIMATooShort
	}

	cfg := s.search
	cfg.M = 0
	if m := training.Series.Granularity.SeasonalPeriod(); m > 1 && len(y) >= seasonalMinObs {
		cfg.M = m
	}

	res, err := arima.Auto(y, cfg)
	if err != nil {
		return nil, fmt.Errorf("auto arima: %w", err)
	}

	s.log.Info().
		Str("order", res.Best.Order().String()).
		Float64("aic", res.Best.AIC()).
		Int("evaluated", res.Evaluated).
		Bool("fallback", res.Fallback).
		Msg("order selected")

	return newARIMAModel(res.Best, y, s.alpha), nil
}

// FixedARIMA ARIMA(1,1,1) 고정 차수 (탐색 비활성 시)
type FixedARIMA struct {
	order arima.Order
	alpha float64
	log   zerolog.Logger
}

// NewFixedARIMA 새 고정 ARIMA(1,1,1) 전략 생성
func NewFixedARIMA(alpha float64, log zerolog.Logger) *FixedARIMA {
	return &FixedARIMA{
		order: arima.Order{P: 1, D: 1, Q: 1},
		alpha: alpha,
		log:   log.With().Str("component", "forecast.fixed_arima").Logger(),
	}
}

// Name returns the strategy name
func (s *FixedARIMA) Name() string { return "fixed_arima" }

// Available is always true
func (s *FixedARIMA) Available() bool { return true }

// Fit estimates ARIMA(1,1,1) on the training totals
func (s *FixedARIMA) Fit(ctx context.Context, training *Training) (Model, error) {
	y := training.Series.Totals()
	if len(y) < MinTrainingARIMA {
		return nil, ErrARIMATooShort
	}

	m, err := arima.Fit(y, s.order)
	if err != nil {
		return nil, fmt.Errorf("fixed arima: %w", err)
	}

	s.log.Info().
		Str("order", s.order.String()).
		Float64("sigma2", m.Sigma2()).
		Msg("model fitted")

	return newARIMAModel(m, y, s.alpha), nil
}

// arimaModel 두 ARIMA 전략이 공유하는 예측/백테스트 형식
type arimaModel struct {
	model *arima.Model
	y     []float64
	alpha float64
}

func newARIMAModel(m *arima.Model, y []float64, alpha float64) *arimaModel {
	return &arimaModel{model: m, y: y, alpha: alpha}
}

// Forecast projects to the horizon's furthest step and keeps the requested steps.
// Point, lower and upper are each clamped at zero.
func (m *arimaModel) Forecast(horizon Horizon) ([]contracts.ForecastPoint, error) {
	fc := m.model.Forecast(horizon.MaxStep(), m.alpha)
	level := (1 - m.alpha) * 100

	points := make([]contracts.ForecastPoint, horizon.Len())
	for i, step := range horizon.Steps {
		mean, lower, upper := fc.Mean[step-1], fc.Lower[step-1], fc.Upper[step-1]
		if !finite(mean) || !finite(lower) || !finite(upper) {
			return nil, fmt.Errorf("%w at %s", ErrNonFinite, horizon.Dates[i].Format(contracts.DateLayout))
		}
		lo, hi := math.Max(lower, 0), math.Max(upper, 0)
		points[i] = contracts.ForecastPoint{
			Date:            horizon.Dates[i],
			PredictedSales:  math.Max(mean, 0),
			ConfidenceLevel: level,
			ConfidenceLower: &lo,
			ConfidenceUpper: &hi,
		}
	}
	return points, nil
}

// BacktestPairs pairs the training totals with the defined fitted values
func (m *arimaModel) BacktestPairs() []contracts.BacktestPair {
	fitted := m.model.Fitted()
	var pairs []contracts.BacktestPair
	for t, f := range fitted {
		if !finite(f) {
			continue
		}
		pairs = append(pairs, contracts.BacktestPair{Actual: m.y[t], Predicted: f})
	}
	return pairs
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
