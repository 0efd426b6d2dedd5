package forecast

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/BOLT4L/SaleForecast/internal/arima"
	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/forest"
)

// Config 예측 엔진 설정
type Config struct {
	AutoOrder     bool               // false → ARIMA(1,1,1) 고정
	Search        arima.SearchConfig // auto ARIMA 탐색 범위
	IntervalAlpha float64            // 0.05 → 95% 구간
	Forest        forest.Config
}

// DefaultConfig 기본 엔진 설정
func DefaultConfig() Config {
	return Config{
		AutoOrder:     true,
		Search:        arima.DefaultSearchConfig(),
		IntervalAlpha: 0.05,
		Forest:        forest.DefaultConfig(),
	}
}

// Engine S3 예측 엔진
// ⭐ SSOT: 전략 선택과 학습/예측 구간 분할은 여기서만
type Engine struct {
	statistical []Strategy
	ensemble    Strategy
	log         zerolog.Logger
}

// NewEngine 기본 설정으로 엔진 생성
func NewEngine(log zerolog.Logger) *Engine {
	return NewEngineWithConfig(DefaultConfig(), log)
}

// NewEngineWithConfig 커스텀 설정으로 엔진 생성
func NewEngineWithConfig(config Config, log zerolog.Logger) *Engine {
	return &Engine{
		statistical: []Strategy{
			NewAutoARIMA(config.AutoOrder, config.Search, config.IntervalAlpha, log),
			NewFixedARIMA(config.IntervalAlpha, log),
		},
		ensemble: NewEnsemble(config.Forest, log),
		log:      log.With().Str("component", "forecast.engine").Logger(),
	}
}

// Run fits the requested strategy on the training window and projects the horizon
func (e *Engine) Run(ctx context.Context, req contracts.ForecastRequest) (*contracts.ForecastOutput, error) {
	plan, err := NewPlan(req)
	if err != nil {
		return nil, err
	}

	strategy, err := SelectStrategy(req.ModelType, e.statistical, e.ensemble)
	if err != nil {
		return nil, err
	}

	e.log.Debug().
		Str("strategy", strategy.Name()).
		Int("training", plan.Training.Series.Len()).
		Int("horizon", plan.Horizon.Len()).
		Str("forecast_start", plan.Horizon.Dates[0].Format(contracts.DateLayout)).
		Msg("forecast plan")

	model, err := strategy.Fit(ctx, plan.Training)
	if err != nil {
		return nil, err
	}

	points, err := model.Forecast(plan.Horizon)
	if err != nil {
		return nil, fmt.Errorf("%s forecast: %w", strategy.Name(), err)
	}

	pairs := model.BacktestPairs()

	e.log.Info().
		Str("strategy", strategy.Name()).
		Int("predictions", len(points)).
		Int("backtest_pairs", len(pairs)).
		Msg("forecast complete")

	return &contracts.ForecastOutput{
		Strategy:      strategy.Name(),
		Predictions:   points,
		BacktestPairs: pairs,
	}, nil
}
