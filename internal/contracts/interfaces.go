package contracts

import (
	"context"
	"time"
)

// SeriesBuilder validates and aggregates raw records (S1)
// ⭐ SSOT: S1 집계 인터페이스
type SeriesBuilder interface {
	Build(ctx context.Context, records []RawRecord, granularity Granularity) (*AggregatedSeries, error)
}

// FeatureExtractor derives per-period features (S2)
// ⭐ SSOT: S2 특성 추출 인터페이스
type FeatureExtractor interface {
	Extract(ctx context.Context, series *AggregatedSeries) ([]FeatureRow, FeatureSummary, error)
}

// ForecastRequest is the input to the forecast engine (S3)
type ForecastRequest struct {
	Series    *AggregatedSeries
	Features  []FeatureRow
	ModelType ModelType
	StartDate time.Time
	EndDate   time.Time
}

// ForecastOutput is what the engine hands to S4 and S5
type ForecastOutput struct {
	Strategy      string
	Predictions   []ForecastPoint
	BacktestPairs []BacktestPair
}

// ForecastEngine fits a model and projects the horizon (S3)
// ⭐ SSOT: S3 예측 인터페이스
type ForecastEngine interface {
	Run(ctx context.Context, req ForecastRequest) (*ForecastOutput, error)
}

// MetricCalculator scores backtest pairs (S4)
// ⭐ SSOT: S4 지표 인터페이스
type MetricCalculator interface {
	Calculate(pairs []BacktestPair) (Metrics, error)
}
