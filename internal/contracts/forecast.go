package contracts

import (
	"math"
	"time"
)

// ModelType 호출자가 요청한 모델 종류
type ModelType string

const (
	// ModelARIMA 통계 모델 (auto ARIMA, 폴백 ARIMA(1,1,1))
	ModelARIMA ModelType = "ARIMA"
	// ModelRandomForest ARIMA 이외의 모든 값은 앙상블 회귀로 처리
	ModelRandomForest ModelType = "RandomForest"
)

// IsStatistical reports whether the statistical strategy was requested
func (m ModelType) IsStatistical() bool {
	return m == ModelARIMA
}

// FeatureRow 기간별 파생 특성
// 이력이 부족한 값은 NaN으로 두고 모델 입력 시점에만 0으로 채움
type FeatureRow struct {
	PeriodStart  time.Time
	TotalAmount  float64
	Month        int
	Quarter      int
	Lag1         float64
	Lag2         float64
	RollingMean3 float64
	RollingStd3  float64
	Promotion    int
}

// FeatureNames is the model input column order
var FeatureNames = []string{"month", "quarter", "lag_1", "lag_2", "rolling_mean_3", "rolling_std_3", "promotion"}

// Vector returns the model input for this row with missing values filled as 0
func (r FeatureRow) Vector() []float64 {
	return []float64{
		float64(r.Month),
		float64(r.Quarter),
		fillNaN(r.Lag1),
		fillNaN(r.Lag2),
		fillNaN(r.RollingMean3),
		fillNaN(r.RollingStd3),
		float64(r.Promotion),
	}
}

func fillNaN(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// FeatureSummary 결과에 포함되는 특성 요약
type FeatureSummary struct {
	Seasonality   string  `json:"seasonality"`
	Promotion     bool    `json:"promotion"`
	LaggedSales   float64 `json:"laggedSales"`
	EconomicTrend string  `json:"economicTrend"`
}

const (
	SeasonalityNone      = "None"
	SeasonalityPotential = "Potential seasonality"
	EconomicTrendStable  = "Stable"
)

// ForecastPoint 한 기간의 예측
// 신뢰 구간은 통계 모델에서만 채워짐
type ForecastPoint struct {
	Date            time.Time `json:"-"`
	PredictedSales  float64   `json:"predictedSales"`  // >= 0
	ConfidenceLevel float64   `json:"confidenceLevel"` // 0~100
	ConfidenceLower *float64  `json:"confidenceLower,omitempty"`
	ConfidenceUpper *float64  `json:"confidenceUpper,omitempty"`
}

// BacktestPair 과거 구간의 (실제, 예측) 쌍
type BacktestPair struct {
	Actual    float64
	Predicted float64
}

// Metrics 백테스트 정확도 지표
type Metrics struct {
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	MAPE float64 `json:"mape"` // percent
}

// ForecastResult 외부로 나가는 유일한 결과물
type ForecastResult struct {
	Predictions []PredictionOutput `json:"predictions"`
	Features    FeatureSummary     `json:"features"`
	Metrics     Metrics            `json:"metrics"`
}

// PredictionOutput is ForecastPoint with its date rendered as YYYY-MM-DD
type PredictionOutput struct {
	Date            string   `json:"date"`
	PredictedSales  float64  `json:"predictedSales"`
	ConfidenceLevel float64  `json:"confidenceLevel"`
	ConfidenceLower *float64 `json:"confidenceLower,omitempty"`
	ConfidenceUpper *float64 `json:"confidenceUpper,omitempty"`
}

// DateLayout is the wire format for all dates in the result
const DateLayout = "2006-01-02"
