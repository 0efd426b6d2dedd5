package forecast

import (
	"context"
	"fmt"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// Strategy 예측 전략 (통계 모델 / 앙상블 회귀)
type Strategy interface {
	// Name identifies the strategy in logs
	Name() string
	// Available reports whether the strategy can be selected in this run
	Available() bool
	// Fit trains on the training window
	Fit(ctx context.Context, training *Training) (Model, error)
}

// Model 학습된 전략
type Model interface {
	// Forecast projects every period of the horizon
	Forecast(horizon Horizon) ([]contracts.ForecastPoint, error)
	// BacktestPairs returns in-sample (actual, predicted) pairs on the training window
	BacktestPairs() []contracts.BacktestPair
}

// SelectStrategy picks the strategy for a model type.
// Statistical model types take the first available statistical strategy;
// every other model type takes the ensemble.
func SelectStrategy(modelType contracts.ModelType, statistical []Strategy, ensemble Strategy) (Strategy, error) {
	if !modelType.IsStatistical() {
		if ensemble == nil || !ensemble.Available() {
			return nil, fmt.Errorf("no ensemble strategy available")
		}
		return ensemble, nil
	}

	for _, s := range statistical {
		if s.Available() {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no statistical strategy available for %s", modelType)
}
