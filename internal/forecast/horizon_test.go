package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/features"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

// request builds a monthly request starting January 2024
func request(totals []float64, modelType contracts.ModelType, start, end time.Time) contracts.ForecastRequest {
	series := &contracts.AggregatedSeries{Granularity: contracts.GranularityMonthly}
	rows := make([]contracts.FeatureRow, len(totals))
	for i, v := range totals {
		p := month(2024, time.January).AddDate(0, i, 0)
		series.Points = append(series.Points, contracts.AggregatedPoint{PeriodStart: p, TotalAmount: v})
		rows[i] = features.BuildRow(p, totals[:i+1], false)
	}
	return contracts.ForecastRequest{
		Series:    series,
		Features:  rows,
		ModelType: modelType,
		StartDate: start,
		EndDate:   end,
	}
}

func TestNewPlan(t *testing.T) {
	totals := []float64{100, 110, 120, 130, 140, 150} // Jan..Jun

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		wantDates []time.Time
		wantSteps []int
	}{
		{
			name:      "contiguous horizon",
			start:     month(2024, time.July),
			end:       month(2024, time.September),
			wantDates: []time.Time{month(2024, time.July), month(2024, time.August), month(2024, time.September)},
			wantSteps: []int{2, 3, 4},
		},
		{
			name:      "start inside history",
			start:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			end:       time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
			wantDates: []time.Time{month(2024, time.July), month(2024, time.August)},
			wantSteps: []int{2, 3},
		},
		{
			name:      "start after a gap",
			start:     time.Date(2024, 9, 10, 0, 0, 0, 0, time.UTC),
			end:       month(2024, time.December),
			wantDates: []time.Time{month(2024, time.October), month(2024, time.November), month(2024, time.December)},
			wantSteps: []int{5, 6, 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := NewPlan(request(totals, contracts.ModelARIMA, tt.start, tt.end))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDates, plan.Horizon.Dates)
			assert.Equal(t, tt.wantSteps, plan.Horizon.Steps)
			assert.Equal(t, tt.wantSteps[len(tt.wantSteps)-1], plan.Horizon.MaxStep())

			assert.Equal(t, 5, plan.Training.Series.Len())
			assert.Len(t, plan.Training.Features, 5)
			assert.Equal(t, 6, plan.Training.History.Len())
		})
	}
}

func TestNewPlanErrors(t *testing.T) {
	t.Run("too few periods", func(t *testing.T) {
		_, err := NewPlan(request([]float64{1, 2}, contracts.ModelARIMA, month(2024, time.March), month(2024, time.May)))
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("nil series", func(t *testing.T) {
		_, err := NewPlan(contracts.ForecastRequest{})
		assert.ErrorIs(t, err, ErrInsufficientData)
	})

	t.Run("end before forecast start", func(t *testing.T) {
		_, err := NewPlan(request([]float64{1, 2, 3, 4}, contracts.ModelARIMA, month(2024, time.May), month(2024, time.April)))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("end inside history", func(t *testing.T) {
		_, err := NewPlan(request([]float64{1, 2, 3, 4}, contracts.ModelARIMA, month(2024, time.January), month(2024, time.March)))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})

	t.Run("feature rows misaligned", func(t *testing.T) {
		req := request([]float64{1, 2, 3, 4}, contracts.ModelARIMA, month(2024, time.May), month(2024, time.June))
		req.Features = req.Features[:2]
		_, err := NewPlan(req)
		assert.Error(t, err)
	})
}

func TestHorizonDatesWeekly(t *testing.T) {
	g := contracts.GranularityWeekly
	last := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC) // Monday

	dates := HorizonDates(g, last, time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []time.Time{
		time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC),
	}, dates)
}
