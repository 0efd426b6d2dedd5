package pipeline

import (
	"errors"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
)

// Kind 에러 분류 (stderr JSON의 "type")
type Kind string

const (
	KindArgumentParsing   Kind = "argument_parsing"
	KindDataPreparation   Kind = "data_preparation"
	KindResampling        Kind = "resampling"
	KindFeatureExtraction Kind = "feature_extraction"
	KindModelTraining     Kind = "model_training"
	KindMetricCalculation Kind = "metric_calculation"
	KindInternal          Kind = "internal"
)

// Prefix returns the message prefix reported for the kind
func (k Kind) Prefix() string {
	switch k {
	case KindArgumentParsing:
		return "Failed to parse arguments"
	case KindDataPreparation:
		return "Data preparation error"
	case KindResampling:
		return "Resampling error"
	case KindFeatureExtraction:
		return "Feature extraction error"
	case KindModelTraining:
		return "Model training error"
	case KindMetricCalculation:
		return "Metric calculation error"
	default:
		return ""
	}
}

// Stage returns the pipeline stage the kind belongs to
func (k Kind) Stage() contracts.Stage {
	switch k {
	case KindArgumentParsing:
		return contracts.StageArguments
	case KindDataPreparation, KindResampling:
		return contracts.StageSeries
	case KindFeatureExtraction:
		return contracts.StageFeatures
	case KindModelTraining:
		return contracts.StageModel
	case KindMetricCalculation:
		return contracts.StageMetrics
	default:
		return contracts.StageResult
	}
}

// kindForStage maps a pipeline stage to the kind its failures report.
// S1 panics count as data preparation.
func kindForStage(stage contracts.Stage) Kind {
	switch stage {
	case contracts.StageArguments:
		return KindArgumentParsing
	case contracts.StageSeries:
		return KindDataPreparation
	case contracts.StageFeatures:
		return KindFeatureExtraction
	case contracts.StageModel:
		return KindModelTraining
	case contracts.StageMetrics:
		return KindMetricCalculation
	default:
		return KindInternal
	}
}

// StageError 단계별로 분류된 치명적 에러
// 어떤 단계도 로컬에서 복구하지 않음
type StageError struct {
	Kind Kind
	Err  error
}

// NewStageError wraps err with its kind
func NewStageError(kind Kind, err error) *StageError {
	return &StageError{Kind: kind, Err: err}
}

// Error renders "<prefix>: <message>"
func (e *StageError) Error() string {
	if p := e.Kind.Prefix(); p != "" {
		return p + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *StageError) Unwrap() error { return e.Err }

// KindOf classifies err; unclassified errors are internal
func KindOf(err error) Kind {
	var se *StageError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
