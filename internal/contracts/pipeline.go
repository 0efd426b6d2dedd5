package contracts

// Pipeline Stage 정의 (SSOT)
// 모든 로그와 에러 응답에서 이 상수를 사용해야 함
//
// 파이프라인 흐름:
//   S0 → S1 → S2 → S3 → S4 → S5
//   Args  Series  Features  Model  Metrics  Result

// Stage represents a pipeline stage
type Stage string

const (
	// StageArguments S0: 입력 인자 파싱
	// 책임: 위치 인자 5개, 판매 레코드 JSON 디코딩, 날짜 파싱
	// 위치: cmd/salesforecast/commands/
	StageArguments Stage = "S0_ARGUMENTS"

	// StageSeries S1: 레코드 검증 및 기간 집계
	// 책임: 필수 컬럼/금액 검증, 일/주/월 집계, 공백 기간 채우기
	// 위치: internal/series/
	StageSeries Stage = "S1_SERIES"

	// StageFeatures S2: 특성 추출
	// 책임: 달력/래그/롤링 특성, ADF 기반 계절성 신호
	// 위치: internal/features/
	StageFeatures Stage = "S2_FEATURES"

	// StageModel S3: 모델 학습 및 예측
	// 책임: ARIMA / 랜덤 포레스트 학습, 예측 구간, 재귀 예측
	// 위치: internal/forecast/
	StageModel Stage = "S3_MODEL"

	// StageMetrics S4: 백테스트 지표
	// 책임: RMSE, MAE, MAPE
	// 위치: internal/metrics/
	StageMetrics Stage = "S4_METRICS"

	// StageResult S5: 결과 조립
	// 책임: 예측, 특성 요약, 지표를 단일 결과로 묶기
	// 위치: internal/pipeline/assembler.go
	StageResult Stage = "S5_RESULT"
)

// String returns the string representation of the stage
func (s Stage) String() string {
	return string(s)
}

// AllStages returns all pipeline stages in order
func AllStages() []Stage {
	return []Stage{
		StageArguments,
		StageSeries,
		StageFeatures,
		StageModel,
		StageMetrics,
		StageResult,
	}
}
