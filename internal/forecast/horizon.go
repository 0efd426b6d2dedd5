package forecast

import (
	"errors"
	"time"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

const (
	// MinPeriods 예측에 필요한 최소 집계 기간 수
	MinPeriods = 3
	// MinTrainingARIMA ARIMA 학습 최소 길이
	MinTrainingARIMA = 3
)

var (
	ErrInsufficientData = errors.New("At least 3 data points required for forecasting")
	ErrInvalidDateRange = errors.New("Invalid date range: endDate must be after startDate and after the last available data point")
	ErrARIMATooShort    = errors.New("ARIMA requires at least 3 data points")
	ErrZeroTarget       = errors.New("RandomForest training data contains only zeros")
	ErrNonFinite        = errors.New("model produced a non-finite prediction")
)

// Horizon 예측 대상 기간
// Steps[i] = 학습 구간 마지막 기간으로부터 Dates[i]까지의 기간 수
type Horizon struct {
	Dates []time.Time
	Steps []int
}

// Len returns the number of periods to forecast
func (h Horizon) Len() int {
	return len(h.Dates)
}

// MaxStep returns the furthest step past the training end
func (h Horizon) MaxStep() int {
	if len(h.Steps) == 0 {
		return 0
	}
	return h.Steps[len(h.Steps)-1]
}

// Training 학습 입력
type Training struct {
	Series   *contracts.AggregatedSeries // 홀드아웃 제외
	Features []contracts.FeatureRow      // Series와 정렬
	History  *contracts.AggregatedSeries // 관측 전체 (홀드아웃 포함)
}

// Plan 학습/예측 구간 분할
type Plan struct {
	Training *Training
	Horizon  Horizon
}

// NewPlan holds out the last observed period, keeps the rest for training
// and lays out the forecast horizon.
// ⭐ SSOT: 예측 시작 = max(마지막 관측 다음 기간, 요청 시작일 이후 첫 기간)
func NewPlan(req contracts.ForecastRequest) (*Plan, error) {
	series := req.Series
	if series == nil || series.Len() < MinPeriods {
		return nil, ErrInsufficientData
	}
	n := series.Len()
	if len(req.Features) != n {
		return nil, errors.New("feature rows do not match series length")
	}

	g := series.Granularity
	dates := HorizonDates(g, series.Last().PeriodStart, req.StartDate, req.EndDate)
	if len(dates) == 0 {
		return nil, ErrInvalidDateRange
	}

	trainEnd := series.Points[n-2].PeriodStart
	steps := make([]int, len(dates))
	p, k := trainEnd, 0
	for i, d := range dates {
		for p.Before(d) {
			p = g.Next(p)
			k++
		}
		steps[i] = k
	}

	return &Plan{
		Training: &Training{
			Series:   series.Head(n - 1),
			Features: append([]contracts.FeatureRow(nil), req.Features[:n-1]...),
			History:  series,
		},
		Horizon: Horizon{Dates: dates, Steps: steps},
	}, nil
}

// HorizonDates lists period starts p with forecastStart <= p <= end
func HorizonDates(g contracts.Granularity, lastObserved, start, end time.Time) []time.Time {
	first := g.Next(lastObserved)
	if requested := g.CeilPeriodStart(start); requested.After(first) {
		first = requested
	}

	var out []time.Time
	for p := first; !p.After(end); p = g.Next(p) {
		out = append(out, p)
	}
	return out
}
