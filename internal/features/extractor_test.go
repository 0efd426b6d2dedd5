package features

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

func monthly(totals []float64, promos ...int) *contracts.AggregatedSeries {
	s := &contracts.AggregatedSeries{Granularity: contracts.GranularityMonthly}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, v := range totals {
		s.Points = append(s.Points, contracts.AggregatedPoint{
			PeriodStart: start.AddDate(0, i, 0),
			TotalAmount: v,
		})
	}
	for _, i := range promos {
		s.Points[i].Promotion = true
	}
	return s
}

func TestExtract(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	rows, summary, err := e.Extract(context.Background(), monthly([]float64{100, 110, 120}, 1))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 1, first.Quarter)
	assert.True(t, math.IsNaN(first.Lag1))
	assert.True(t, math.IsNaN(first.Lag2))
	assert.True(t, math.IsNaN(first.RollingMean3))

	last := rows[2]
	assert.Equal(t, 3, last.Month)
	assert.Equal(t, 110.0, last.Lag1)
	assert.Equal(t, 100.0, last.Lag2)
	assert.InDelta(t, 110, last.RollingMean3, 1e-9)
	assert.InDelta(t, 10, last.RollingStd3, 1e-9)
	assert.Equal(t, 0, last.Promotion)
	assert.Equal(t, 1, rows[1].Promotion)

	assert.Equal(t, contracts.FeatureSummary{
		Seasonality:   contracts.SeasonalityNone,
		Promotion:     true,
		LaggedSales:   110,
		EconomicTrend: contracts.EconomicTrendStable,
	}, summary)
}

func TestExtractSinglePeriod(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	rows, summary, err := e.Extract(context.Background(), monthly([]float64{42}))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 0.0, summary.LaggedSales)
	assert.False(t, summary.Promotion)
}

func TestExtractEmpty(t *testing.T) {
	e := NewExtractor(zerolog.Nop())

	_, _, err := e.Extract(context.Background(), &contracts.AggregatedSeries{})
	assert.Error(t, err)
}

func TestDetectSeasonality(t *testing.T) {
	growth := make([]float64, 60)
	for i := range growth {
		growth[i] = 100*math.Pow(1.03, float64(i)) + 5*math.Sin(float64(i))
	}

	tests := []struct {
		name   string
		totals []float64
		want   string
	}{
		{"too short", []float64{1, 2, 3}, contracts.SeasonalityNone},
		{"constant", []float64{5, 5, 5, 5, 5, 5}, contracts.SeasonalityNone},
		{"growing", growth, contracts.SeasonalityPotential},
	}

	e := NewExtractor(zerolog.Nop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.DetectSeasonality(tt.totals))
		})
	}
}

func TestNextRow(t *testing.T) {
	april := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	row := NextRow(april, []float64{100, 110, 120}, true)
	assert.Equal(t, 4, row.Month)
	assert.Equal(t, 2, row.Quarter)
	assert.Equal(t, 120.0, row.Lag1)
	assert.Equal(t, 110.0, row.Lag2)
	assert.InDelta(t, 110, row.RollingMean3, 1e-9)
	assert.InDelta(t, 10, row.RollingStd3, 1e-9)
	assert.Equal(t, 1, row.Promotion)
	assert.True(t, math.IsNaN(row.TotalAmount))

	sparse := NextRow(april, []float64{100}, false)
	assert.Equal(t, 100.0, sparse.Lag1)
	assert.True(t, math.IsNaN(sparse.Lag2))
	assert.Equal(t, []float64{4, 2, 100, 0, 0, 0, 0}, sparse.Vector())
}

func TestRolling(t *testing.T) {
	mean, std := Rolling([]float64{2, 4, 6})
	assert.Equal(t, 4.0, mean)
	assert.Equal(t, 2.0, std)

	mean, std = Rolling([]float64{7})
	assert.Equal(t, 7.0, mean)
	assert.True(t, math.IsNaN(std))
}
