package pipeline

import (
	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// Assemble S5: 예측, 특성 요약, 지표를 단일 결과로 묶음 (계산 없음)
func Assemble(points []contracts.ForecastPoint, summary contracts.FeatureSummary, metrics contracts.Metrics) *contracts.ForecastResult {
	predictions := make([]contracts.PredictionOutput, len(points))
	for i, p := range points {
		predictions[i] = contracts.PredictionOutput{
			Date:            p.Date.Format(contracts.DateLayout),
			PredictedSales:  p.PredictedSales,
			ConfidenceLevel: p.ConfidenceLevel,
			ConfidenceLower: p.ConfidenceLower,
			ConfidenceUpper: p.ConfidenceUpper,
		}
	}

	return &contracts.ForecastResult{
		Predictions: predictions,
		Features:    summary,
		Metrics:     metrics,
	}
}
