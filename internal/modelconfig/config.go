package modelconfig

import (
	"github.com/BOLT4L/SaleForecast/internal/arima"
	"github.com/BOLT4L/SaleForecast/internal/forecast"
	"github.com/BOLT4L/SaleForecast/internal/forest"
)

// Config 모델 설정 (YAML)
type Config struct {
	ARIMA  ARIMA  `yaml:"arima" json:"arima"`
	Forest Forest `yaml:"forest" json:"forest"`
}

// ARIMA 통계 전략: 차수 탐색 범위
type ARIMA struct {
	AutoOrder bool    `yaml:"auto_order" json:"auto_order"` // false → ARIMA(1,1,1)
	MaxP      int     `yaml:"max_p" json:"max_p"`
	MaxQ      int     `yaml:"max_q" json:"max_q"`
	MaxD      int     `yaml:"max_d" json:"max_d"`
	MaxSP     int     `yaml:"max_P" json:"max_P"`
	MaxSQ     int     `yaml:"max_Q" json:"max_Q"`
	MaxSD     int     `yaml:"max_D" json:"max_D"`
	MaxOrder  int     `yaml:"max_order" json:"max_order"`
	Alpha     float64 `yaml:"alpha" json:"alpha"` // 단위근 검정 유의수준
}

// Forest 앙상블 전략: 랜덤 포레스트 하이퍼파라미터
type Forest struct {
	NEstimators     int   `yaml:"n_estimators" json:"n_estimators"`
	MaxDepth        int   `yaml:"max_depth" json:"max_depth"`
	MinSamplesSplit int   `yaml:"min_samples_split" json:"min_samples_split"`
	MinSamplesLeaf  int   `yaml:"min_samples_leaf" json:"min_samples_leaf"`
	Seed            int64 `yaml:"seed" json:"seed"`
}

// Default 고정 기본값
func Default() *Config {
	search := arima.DefaultSearchConfig()
	rf := forest.DefaultConfig()
	return &Config{
		ARIMA: ARIMA{
			AutoOrder: true,
			MaxP:      search.MaxP,
			MaxQ:      search.MaxQ,
			MaxD:      search.MaxD,
			MaxSP:     search.MaxSP,
			MaxSQ:     search.MaxSQ,
			MaxSD:     search.MaxSD,
			MaxOrder:  search.MaxOrder,
			Alpha:     search.Alpha,
		},
		Forest: Forest{
			NEstimators:     rf.NEstimators,
			MaxDepth:        rf.MaxDepth,
			MinSamplesSplit: rf.MinSamplesSplit,
			MinSamplesLeaf:  rf.MinSamplesLeaf,
			Seed:            rf.Seed,
		},
	}
}

// Engine converts the model configuration into the forecast engine configuration
func (c *Config) Engine() forecast.Config {
	out := forecast.DefaultConfig()
	out.AutoOrder = c.ARIMA.AutoOrder
	out.Search.MaxP = c.ARIMA.MaxP
	out.Search.MaxQ = c.ARIMA.MaxQ
	out.Search.MaxD = c.ARIMA.MaxD
	out.Search.MaxSP = c.ARIMA.MaxSP
	out.Search.MaxSQ = c.ARIMA.MaxSQ
	out.Search.MaxSD = c.ARIMA.MaxSD
	out.Search.MaxOrder = c.ARIMA.MaxOrder
	out.Search.Alpha = c.ARIMA.Alpha
	out.Forest = forest.Config{
		NEstimators:     c.Forest.NEstimators,
		MaxDepth:        c.Forest.MaxDepth,
		MinSamplesSplit: c.Forest.MinSamplesSplit,
		MinSamplesLeaf:  c.Forest.MinSamplesLeaf,
		Seed:            c.Forest.Seed,
	}
	return out
}
