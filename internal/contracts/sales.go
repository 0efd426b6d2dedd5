package contracts

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// RawRecord 원본 판매 레코드 (입력 순서 무관)
// 금액/날짜 파싱은 S1에서 수행하므로 여기서는 원문 그대로 보관
type RawRecord struct {
	Date        string `json:"date"`
	TotalAmount Amount `json:"totalAmount"`
	Promotion   Flag   `json:"promotion"`
}

// Amount is a sales amount kept as the literal text from the payload.
// Valid is false when the key was absent or null.
type Amount struct {
	Raw   string
	Valid bool
}

// UnmarshalJSON accepts JSON numbers and numeric strings
func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = Amount{}
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unquoted)
	}
	*a = Amount{Raw: s, Valid: true}
	return nil
}

// Flag 프로모션 여부
// bool, 0/1, "true"/"false" 모두 허용. 누락/null은 false
type Flag bool

// UnmarshalJSON decodes permissive boolean values
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "false", "0", "no":
		*f = false
		return nil
	case "true", "1", "yes":
		*f = true
		return nil
	}

	// 그 외 숫자는 0이 아니면 true
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*f = v != 0
		return nil
	}
	return &FlagError{Value: s}
}

// FlagError reports an unparseable promotion value
type FlagError struct {
	Value string
}

func (e *FlagError) Error() string {
	return "invalid promotion flag: " + strconv.Quote(e.Value)
}

// Granularity 집계 기간 단위
type Granularity string

const (
	GranularityDaily   Granularity = "Daily"
	GranularityWeekly  Granularity = "Weekly"
	GranularityMonthly Granularity = "Monthly"
)

// ParseGranularity maps the CLI value to a Granularity.
// ok is false for unknown values, which fall back to Monthly.
func ParseGranularity(s string) (g Granularity, ok bool) {
	switch Granularity(s) {
	case GranularityDaily, GranularityWeekly, GranularityMonthly:
		return Granularity(s), true
	default:
		return GranularityMonthly, false
	}
}

// PeriodStart truncates t to the start of its calendar period (UTC midnight).
// 주간은 월요일 시작
func (g Granularity) PeriodStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	switch g {
	case GranularityDaily:
		return day
	case GranularityWeekly:
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	default:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
}

// Next returns the start of the period following the one starting at start
func (g Granularity) Next(start time.Time) time.Time {
	switch g {
	case GranularityDaily:
		return start.AddDate(0, 0, 1)
	case GranularityWeekly:
		return start.AddDate(0, 0, 7)
	default:
		return start.AddDate(0, 1, 0)
	}
}

// CeilPeriodStart returns the first period start on or after t
func (g Granularity) CeilPeriodStart(t time.Time) time.Time {
	start := g.PeriodStart(t)
	if start.Before(t) {
		return g.Next(start)
	}
	return start
}

// SeasonalPeriod returns the seasonal cycle length used by the ARIMA search.
// 0 means no seasonal component.
func (g Granularity) SeasonalPeriod() int {
	switch g {
	case GranularityWeekly:
		return 7
	case GranularityMonthly:
		return 12
	default:
		return 0
	}
}

// AggregatedPoint 집계된 한 기간
type AggregatedPoint struct {
	PeriodStart time.Time `json:"periodStart"`
	TotalAmount float64   `json:"totalAmount"` // >= 0
	Promotion   bool      `json:"promotion"`
}

// AggregatedSeries 기간 시작 기준 오름차순, 연속된 기간
type AggregatedSeries struct {
	Granularity Granularity       `json:"granularity"`
	Points      []AggregatedPoint `json:"points"`
}

// Len returns the number of periods
func (s *AggregatedSeries) Len() int {
	return len(s.Points)
}

// Totals returns a copy of the per-period totals
func (s *AggregatedSeries) Totals() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.TotalAmount
	}
	return out
}

// Last returns the final period
func (s *AggregatedSeries) Last() AggregatedPoint {
	return s.Points[len(s.Points)-1]
}

// Head returns a copy of the first n periods
func (s *AggregatedSeries) Head(n int) *AggregatedSeries {
	points := make([]AggregatedPoint, n)
	copy(points, s.Points[:n])
	return &AggregatedSeries{Granularity: s.Granularity, Points: points}
}
