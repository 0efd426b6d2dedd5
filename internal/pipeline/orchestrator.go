package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/features"
	"github.com/BOLT4L/SaleForecast/internal/forecast"
	"github.com/BOLT4L/SaleForecast/internal/metrics"
	"github.com/BOLT4L/SaleForecast/internal/series"
	"github.com/BOLT4L/SaleForecast/pkg/logger"
)

// Orchestrator coordinates the forecasting pipeline
// ⭐ SSOT: 파이프라인 조율은 여기서만
type Orchestrator struct {
	seriesBuilder    contracts.SeriesBuilder
	featureExtractor contracts.FeatureExtractor
	engine           contracts.ForecastEngine
	calculator       contracts.MetricCalculator

	logger *logger.Logger
}

// RunConfig holds the inputs of one forecast run
type RunConfig struct {
	RunID       string
	Records     []contracts.RawRecord
	Granularity contracts.Granularity
	ModelType   contracts.ModelType
	StartDate   time.Time
	EndDate     time.Time
}

// RunResult holds the outcome of a complete run
type RunResult struct {
	RunID           string
	Strategy        string
	Result          *contracts.ForecastResult
	CompletedStages []contracts.Stage
	Duration        time.Duration
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	seriesBuilder contracts.SeriesBuilder,
	featureExtractor contracts.FeatureExtractor,
	engine contracts.ForecastEngine,
	calculator contracts.MetricCalculator,
	logger *logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		seriesBuilder:    seriesBuilder,
		featureExtractor: featureExtractor,
		engine:           engine,
		calculator:       calculator,
		logger:           logger,
	}
}

// NewDefault wires the standard stage components
func NewDefault(engineConfig forecast.Config, log *logger.Logger) *Orchestrator {
	zlog := log.Zerolog()
	return NewOrchestrator(
		series.NewBuilder(zlog),
		features.NewExtractor(zlog),
		forecast.NewEngineWithConfig(engineConfig, zlog),
		metrics.NewCalculator(zlog),
		log,
	)
}

// Run executes the pipeline
// S1 → S2 → S3 → S4 → S5
// Every returned error is a *StageError.
func (o *Orchestrator) Run(ctx context.Context, config RunConfig) (result *RunResult, err error) {
	startTime := time.Now()

	// 패닉은 발생한 단계의 에러로 분류
	stage := contracts.StageSeries
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = NewStageError(kindForStage(stage), fmt.Errorf("panic: %v", r))
		}
	}()

	result = &RunResult{
		RunID:           config.RunID,
		CompletedStages: make([]contracts.Stage, 0, 5),
	}

	o.logger.WithFields(map[string]interface{}{
		"run_id":      config.RunID,
		"records":     len(config.Records),
		"granularity": string(config.Granularity),
		"model_type":  string(config.ModelType),
		"start_date":  config.StartDate.Format(contracts.DateLayout),
		"end_date":    config.EndDate.Format(contracts.DateLayout),
	}).Info("Starting forecast run")

	// S1: Series
	aggregated, err := o.runS1(ctx, config)
	if err != nil {
		return nil, err
	}
	result.CompletedStages = append(result.CompletedStages, contracts.StageSeries)

	// S2: Features
	stage = contracts.StageFeatures
	rows, summary, err := o.runS2(ctx, aggregated)
	if err != nil {
		return nil, err
	}
	result.CompletedStages = append(result.CompletedStages, contracts.StageFeatures)

	// S3: Model
	stage = contracts.StageModel
	output, err := o.runS3(ctx, config, aggregated, rows)
	if err != nil {
		return nil, err
	}
	result.Strategy = output.Strategy
	result.CompletedStages = append(result.CompletedStages, contracts.StageModel)

	// S4: Metrics
	stage = contracts.StageMetrics
	scores, err := o.runS4(output.BacktestPairs)
	if err != nil {
		return nil, err
	}
	result.CompletedStages = append(result.CompletedStages, contracts.StageMetrics)

	// S5: Result
	stage = contracts.StageResult
	result.Result = Assemble(output.Predictions, summary, scores)
	result.CompletedStages = append(result.CompletedStages, contracts.StageResult)
	result.Duration = time.Since(startTime)

	o.logger.WithFields(map[string]interface{}{
		"run_id":      config.RunID,
		"strategy":    output.Strategy,
		"predictions": len(output.Predictions),
		"duration":    result.Duration.Seconds(),
	}).Info("Forecast run completed")

	return result, nil
}

// runS1 executes S1: validation and aggregation
func (o *Orchestrator) runS1(ctx context.Context, config RunConfig) (*contracts.AggregatedSeries, error) {
	aggregated, err := o.seriesBuilder.Build(ctx, config.Records, config.Granularity)
	if err != nil {
		var resampleErr *series.ResampleError
		if errors.As(err, &resampleErr) {
			return nil, NewStageError(KindResampling, err)
		}
		return nil, NewStageError(KindDataPreparation, err)
	}

	o.logger.WithFields(map[string]interface{}{
		"stage":   contracts.StageSeries.String(),
		"periods": aggregated.Len(),
	}).Debug("S1 completed")

	return aggregated, nil
}

// runS2 executes S2: feature derivation
func (o *Orchestrator) runS2(ctx context.Context, aggregated *contracts.AggregatedSeries) ([]contracts.FeatureRow, contracts.FeatureSummary, error) {
	rows, summary, err := o.featureExtractor.Extract(ctx, aggregated)
	if err != nil {
		return nil, contracts.FeatureSummary{}, NewStageError(KindFeatureExtraction, err)
	}

	o.logger.WithFields(map[string]interface{}{
		"stage":       contracts.StageFeatures.String(),
		"seasonality": summary.Seasonality,
	}).Debug("S2 completed")

	return rows, summary, nil
}

// runS3 executes S3: model fitting and projection
func (o *Orchestrator) runS3(ctx context.Context, config RunConfig, aggregated *contracts.AggregatedSeries, rows []contracts.FeatureRow) (*contracts.ForecastOutput, error) {
	output, err := o.engine.Run(ctx, contracts.ForecastRequest{
		Series:    aggregated,
		Features:  rows,
		ModelType: config.ModelType,
		StartDate: config.StartDate,
		EndDate:   config.EndDate,
	})
	if err != nil {
		return nil, NewStageError(KindModelTraining, err)
	}

	o.logger.WithFields(map[string]interface{}{
		"stage":    contracts.StageModel.String(),
		"strategy": output.Strategy,
	}).Debug("S3 completed")

	return output, nil
}

// runS4 executes S4: backtest metrics
func (o *Orchestrator) runS4(pairs []contracts.BacktestPair) (contracts.Metrics, error) {
	scores, err := o.calculator.Calculate(pairs)
	if err != nil {
		return contracts.Metrics{}, NewStageError(KindMetricCalculation, err)
	}
	return scores, nil
}
