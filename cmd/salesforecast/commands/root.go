package commands

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/BOLT4L/SaleForecast/internal/forecast"
	"github.com/BOLT4L/SaleForecast/internal/modelconfig"
	"github.com/BOLT4L/SaleForecast/internal/pipeline"
	"github.com/BOLT4L/SaleForecast/pkg/config"
	"github.com/BOLT4L/SaleForecast/pkg/logger"
)

// rootOptions global flags
type rootOptions struct {
	configFile string
	envFile    string
	env        string
	verbose    bool
}

// NewRootCmd builds the forecast command with its subcommands
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "salesforecast <salesRecordsJSON> <Daily|Weekly|Monthly> <ARIMA|RandomForest> <startDate> <endDate>",
		Short: "판매 예측 - 집계, 특성, 모델 학습, 백테스트 지표",
		Long: `Sales Forecast CLI

판매 레코드를 기간별로 집계하고 ARIMA 또는 랜덤 포레스트로
다기간 예측을 생성합니다. 결과는 stdout에 JSON 한 줄로,
에러는 stderr에 {"error": ..., "type": ...} 로 출력됩니다.

salesRecordsJSON:
  '[{"date":"2024-01-15","totalAmount":120.5,"promotion":false}, ...]'
  -            stdin에서 읽기
  @path        파일에서 읽기

Examples:
  salesforecast @sales.json Monthly ARIMA 2024-07-01 2024-12-31
  cat sales.json | salesforecast - Weekly RandomForest 2024-07-01 2024-09-30 -v`,
		Args:          exactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForecast(cmd.Context(), opts, args, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return pipeline.NewStageError(pipeline.KindArgumentParsing, err)
	})

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "model config file (YAML, default MODEL_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "env file (default is .env)")
	cmd.PersistentFlags().StringVar(&opts.env, "env", "", "environment (development|staging|production)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose output (debug logs on stderr)")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command and reports any failure as JSON on stderr.
// This is called by main.main().
func Execute() error {
	return executeCmd(NewRootCmd())
}

// executeCmd runs cmd; the error document is the last line on stderr
func executeCmd(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err != nil {
		writeError(cmd.ErrOrStderr(), err)
	}
	return err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return pipeline.NewStageError(pipeline.KindArgumentParsing, err)
		}
		return nil
	}
}

func runForecast(ctx context.Context, opts *rootOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	log := logger.New(cfg, stderr).WithRunID(runID)

	engineConfig, err := loadEngineConfig(opts, cfg, log)
	if err != nil {
		return err
	}

	input, err := parseInput(args, stdin, log)
	if err != nil {
		return pipeline.NewStageError(pipeline.KindArgumentParsing, err)
	}

	orchestrator := pipeline.NewDefault(engineConfig, log)
	result, err := orchestrator.Run(ctx, pipeline.RunConfig{
		RunID:       runID,
		Records:     input.Records,
		Granularity: input.Granularity,
		ModelType:   input.ModelType,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
	})
	if err != nil {
		log.WithError(err).
			WithField("type", string(pipeline.KindOf(err))).
			Debug("Forecast run failed")
		return err
	}

	return writeResult(stdout, result.Result)
}

// loadConfig reads env configuration and applies flag overrides
func loadConfig(opts *rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.envFile != "" {
		cfg, err = config.LoadFrom(opts.envFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.env != "" {
		cfg.Env = opts.env
	}
	if opts.verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// loadEngineConfig resolves the model configuration.
// A YAML file is authoritative; without one the defaults take the env overrides.
func loadEngineConfig(opts *rootOptions, cfg *config.Config, log *logger.Logger) (forecast.Config, error) {
	path := opts.configFile
	if path == "" {
		path = cfg.Model.ConfigPath
	}

	var mc *modelconfig.Config
	if path != "" {
		loaded, _, err := modelconfig.Load(path)
		if err != nil {
			return forecast.Config{}, err
		}
		mc = loaded
	} else {
		mc = modelconfig.Default()
		mc.ARIMA.AutoOrder = cfg.Model.AutoOrder
		mc.Forest.Seed = cfg.Model.ForestSeed
	}

	hash, err := modelconfig.Hash(mc)
	if err != nil {
		return forecast.Config{}, err
	}
	log.WithFields(map[string]interface{}{
		"config_path": path,
		"config_hash": hash,
		"auto_order":  mc.ARIMA.AutoOrder,
		"forest_seed": mc.Forest.Seed,
	}).Debug("Model configuration loaded")

	return mc.Engine(), nil
}
