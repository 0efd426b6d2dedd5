package modelconfig

import (
	"fmt"
)

// ValidationError 검증 실패 (실행 중단)
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(cfg *Config) error {
	// === ARIMA ===
	a := cfg.ARIMA
	for _, f := range []struct {
		name  string
		value int
		max   int
	}{
		{"arima.max_p", a.MaxP, 5},
		{"arima.max_q", a.MaxQ, 5},
		{"arima.max_d", a.MaxD, 2},
		{"arima.max_P", a.MaxSP, 2},
		{"arima.max_Q", a.MaxSQ, 2},
		{"arima.max_D", a.MaxSD, 1},
	} {
		if f.value < 0 || f.value > f.max {
			return ValidationError{f.name, fmt.Sprintf("must be in [0, %d]", f.max)}
		}
	}
	if a.MaxOrder < 0 {
		return ValidationError{"arima.max_order", "must be >= 0"}
	}
	if a.Alpha <= 0 || a.Alpha >= 1 {
		return ValidationError{"arima.alpha", "must be in (0, 1)"}
	}

	// === Forest ===
	f := cfg.Forest
	if f.NEstimators < 1 {
		return ValidationError{"forest.n_estimators", "must be >= 1"}
	}
	if f.MaxDepth < 1 {
		return ValidationError{"forest.max_depth", "must be >= 1"}
	}
	if f.MinSamplesSplit < 2 {
		return ValidationError{"forest.min_samples_split", "must be >= 2"}
	}
	if f.MinSamplesLeaf < 1 {
		return ValidationError{"forest.min_samples_leaf", "must be >= 1"}
	}

	return nil
}
