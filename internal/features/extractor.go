package features

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/stattest"
)

const (
	// RollingWindow 롤링 통계 창 크기
	RollingWindow = 3
	// minSeasonalityObs ADF 실행 최소 관측치
	minSeasonalityObs = 4
	// stationarityAlpha ADF 유의수준
	stationarityAlpha = 0.05
)

// Extractor 집계 시계열에서 특성 추출
// ⭐ SSOT: S2 특성 정의는 여기서만
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor 새 추출기 생성
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{
		log: log.With().Str("component", "features.extractor").Logger(),
	}
}

// Extract derives one FeatureRow per period plus the scalar summary
func (e *Extractor) Extract(ctx context.Context, series *contracts.AggregatedSeries) ([]contracts.FeatureRow, contracts.FeatureSummary, error) {
	if series == nil || series.Len() == 0 {
		return nil, contracts.FeatureSummary{}, fmt.Errorf("empty series")
	}

	totals := series.Totals()
	seasonality := e.DetectSeasonality(totals)

	rows := make([]contracts.FeatureRow, series.Len())
	anyPromotion := false
	for i, p := range series.Points {
		rows[i] = BuildRow(p.PeriodStart, totals[:i+1], p.Promotion)
		if p.Promotion {
			anyPromotion = true
		}
	}

	lagged := 0.0
	if len(rows) > 1 {
		lagged = rows[len(rows)-1].Lag1
	}
	if math.IsNaN(lagged) || math.IsInf(lagged, 0) {
		return nil, contracts.FeatureSummary{}, fmt.Errorf("non-finite lagged sales")
	}

	summary := contracts.FeatureSummary{
		Seasonality:   seasonality,
		Promotion:     anyPromotion,
		LaggedSales:   lagged,
		EconomicTrend: contracts.EconomicTrendStable,
	}

	e.log.Debug().
		Int("rows", len(rows)).
		Str("seasonality", seasonality).
		Bool("promotion", anyPromotion).
		Float64("lagged_sales", lagged).
		Msg("features extracted")

	return rows, summary, nil
}

// DetectSeasonality reports "None" when the ADF test rejects a unit root
// (or there are fewer than 4 points), otherwise "Potential seasonality".
func (e *Extractor) DetectSeasonality(totals []float64) string {
	if len(totals) < minSeasonalityObs {
		return contracts.SeasonalityNone
	}

	res, err := stattest.ADF(totals)
	switch {
	case errors.Is(err, stattest.ErrConstant):
		// 상수 시계열은 자명하게 정상
		return contracts.SeasonalityNone
	case err != nil:
		e.log.Debug().Err(err).Msg("adf inconclusive")
		return contracts.SeasonalityPotential
	}

	e.log.Debug().
		Float64("adf_stat", res.Statistic).
		Float64("p_value", res.PValue).
		Int("used_lag", res.UsedLag).
		Msg("adf test")

	if res.Stationary(stationarityAlpha) {
		return contracts.SeasonalityNone
	}
	return contracts.SeasonalityPotential
}

// BuildRow derives the feature row for the last value of history.
// history holds every known total up to and including this period.
func BuildRow(periodStart time.Time, history []float64, promotion bool) contracts.FeatureRow {
	n := len(history)
	row := contracts.FeatureRow{
		PeriodStart:  periodStart,
		TotalAmount:  history[n-1],
		Month:        int(periodStart.Month()),
		Quarter:      (int(periodStart.Month())-1)/3 + 1,
		Lag1:         math.NaN(),
		Lag2:         math.NaN(),
		RollingMean3: math.NaN(),
		RollingStd3:  math.NaN(),
	}
	if n >= 2 {
		row.Lag1 = history[n-2]
	}
	if n >= 3 {
		row.Lag2 = history[n-3]
	}
	if n >= RollingWindow {
		mean, std := Rolling(history[n-RollingWindow:])
		row.RollingMean3 = mean
		row.RollingStd3 = std
	}
	if promotion {
		row.Promotion = 1
	}
	return row
}

// NextRow synthesizes the feature row for a period that follows history.
// history holds every known or predicted total before the period; the
// promotion flag is carried forward by the caller.
func NextRow(periodStart time.Time, history []float64, promotion bool) contracts.FeatureRow {
	n := len(history)
	row := contracts.FeatureRow{
		PeriodStart:  periodStart,
		TotalAmount:  math.NaN(),
		Month:        int(periodStart.Month()),
		Quarter:      (int(periodStart.Month())-1)/3 + 1,
		Lag1:         math.NaN(),
		Lag2:         math.NaN(),
		RollingMean3: math.NaN(),
		RollingStd3:  math.NaN(),
	}
	if n >= 1 {
		row.Lag1 = history[n-1]
	}
	if n >= 2 {
		row.Lag2 = history[n-2]
	}
	if n >= RollingWindow {
		row.RollingMean3, row.RollingStd3 = Rolling(history[n-RollingWindow:])
	}
	if promotion {
		row.Promotion = 1
	}
	return row
}

// Rolling returns the mean and sample standard deviation of window
func Rolling(window []float64) (mean, std float64) {
	mean = stat.Mean(window, nil)
	if len(window) < 2 {
		return mean, math.NaN()
	}
	return mean, stat.StdDev(window, nil)
}
