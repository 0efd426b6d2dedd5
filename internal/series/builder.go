package series

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

var (
	// ErrEmptyInput no records were supplied
	ErrEmptyInput = errors.New("Invalid sales data: empty input")
	// ErrMissingColumn no record carries a date or an amount
	ErrMissingColumn = errors.New("Invalid sales data: missing date or totalAmount")
	// ErrNullAmount at least one record has a null amount
	ErrNullAmount = errors.New("Invalid totalAmount: contains null")
	// ErrNonFiniteAmount an amount overflows float64
	ErrNonFiniteAmount = errors.New("Invalid totalAmount: not a finite number")
	// ErrNonPositive every amount is <= 0
	ErrNonPositive = errors.New("Invalid totalAmount: all amounts are zero or negative")

	// ErrNoPeriods aggregation produced nothing
	ErrNoPeriods = errors.New("No data after aggregation")
	// ErrAllZero every aggregated period is zero
	ErrAllZero = errors.New("Aggregated series contains only zeros")
)

// ValidationError S1 검증 실패 (data preparation)
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// ResampleError S1 집계 실패 (resampling)
type ResampleError struct {
	Err error
}

func (e *ResampleError) Error() string { return e.Err.Error() }
func (e *ResampleError) Unwrap() error { return e.Err }

// Builder 판매 레코드를 기간별 시계열로 집계
// ⭐ SSOT: S1 검증 + 집계는 여기서만
type Builder struct {
	log zerolog.Logger
}

// NewBuilder 새 빌더 생성
func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		log: log.With().Str("component", "series.builder").Logger(),
	}
}

type record struct {
	date      time.Time
	amount    decimal.Decimal
	promotion bool
}

type bucket struct {
	total     decimal.Decimal
	promotion bool
}

// Build validates records and aggregates them to the requested granularity.
// Validation failures are *ValidationError, aggregation failures *ResampleError.
func (b *Builder) Build(ctx context.Context, raw []contracts.RawRecord, granularity contracts.Granularity) (*contracts.AggregatedSeries, error) {
	records, err := b.validate(raw)
	if err != nil {
		return nil, &ValidationError{Err: err}
	}

	series, err := b.aggregate(records, granularity)
	if err != nil {
		return nil, &ResampleError{Err: err}
	}

	b.log.Debug().
		Str("granularity", string(granularity)).
		Int("records", len(records)).
		Int("periods", series.Len()).
		Time("first_period", series.Points[0].PeriodStart).
		Time("last_period", series.Last().PeriodStart).
		Msg("series built")

	return series, nil
}

// validate 필수 컬럼, null 금액, 전부 비양수 금액 검사
func (b *Builder) validate(raw []contracts.RawRecord) ([]record, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyInput
	}

	var hasDate, hasAmount bool
	for _, r := range raw {
		if r.Date != "" {
			hasDate = true
		}
		if r.TotalAmount.Valid {
			hasAmount = true
		}
	}
	if !hasDate || !hasAmount {
		return nil, ErrMissingColumn
	}

	records := make([]record, 0, len(raw))
	anyPositive := false
	for i, r := range raw {
		if !r.TotalAmount.Valid {
			return nil, fmt.Errorf("%w (record %d)", ErrNullAmount, i)
		}
		amount, err := decimal.NewFromString(r.TotalAmount.Raw)
		if err != nil {
			return nil, fmt.Errorf("invalid totalAmount %q at record %d: %w", r.TotalAmount.Raw, i, err)
		}
		if f := amount.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: %q at record %d", ErrNonFiniteAmount, r.TotalAmount.Raw, i)
		}
		date, err := contracts.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid date at record %d: %w", i, err)
		}
		if amount.IsPositive() {
			anyPositive = true
		}
		records = append(records, record{
			date:      date,
			amount:    amount,
			promotion: bool(r.Promotion),
		})
	}

	if !anyPositive {
		return nil, ErrNonPositive
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].date.Before(records[j].date)
	})

	return records, nil
}

// aggregate 기간별 합계 + 프로모션 OR, 중간 공백 기간은 0으로 채움
func (b *Builder) aggregate(records []record, granularity contracts.Granularity) (*contracts.AggregatedSeries, error) {
	buckets := make(map[time.Time]*bucket)
	for _, r := range records {
		key := granularity.PeriodStart(r.date)
		bk, ok := buckets[key]
		if !ok {
			bk = &bucket{}
			buckets[key] = bk
		}
		bk.total = bk.total.Add(r.amount)
		bk.promotion = bk.promotion || r.promotion
	}

	if len(buckets) == 0 {
		return nil, ErrNoPeriods
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	first, last := keys[0], keys[len(keys)-1]
	points := make([]contracts.AggregatedPoint, 0, len(keys))
	allZero := true
	for p := first; !p.After(last); p = granularity.Next(p) {
		point := contracts.AggregatedPoint{PeriodStart: p}
		if bk, ok := buckets[p]; ok {
			total := bk.total
			if total.IsNegative() {
				b.log.Warn().
					Time("period", p).
					Str("total", total.String()).
					Msg("negative period total clamped to zero")
				total = decimal.Zero
			}
			point.TotalAmount = total.InexactFloat64()
			if math.IsInf(point.TotalAmount, 0) {
				return nil, fmt.Errorf("%w: period %s", ErrNonFiniteAmount, p.Format(contracts.DateLayout))
			}
			point.Promotion = bk.promotion
		}
		if point.TotalAmount != 0 {
			allZero = false
		}
		points = append(points, point)
	}

	if allZero {
		return nil, ErrAllZero
	}

	return &contracts.AggregatedSeries{
		Granularity: granularity,
		Points:      points,
	}, nil
}
