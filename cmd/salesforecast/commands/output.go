package commands

import (
	"encoding/json"
	"io"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/internal/pipeline"
)

// ═══════════════════════════════════════════════════════════
// Output
// stdout: 결과 JSON 한 줄, stderr: 에러 JSON 한 줄 + 로그
// ═══════════════════════════════════════════════════════════

// errorOutput is the failure document written to stderr
type errorOutput struct {
	Error string `json:"error"`
	Type  string `json:"type"`
}

// writeResult writes the forecast result as a single JSON line
func writeResult(w io.Writer, result *contracts.ForecastResult) error {
	if result.Predictions == nil {
		result.Predictions = []contracts.PredictionOutput{}
	}
	return json.NewEncoder(w).Encode(result)
}

// writeError writes {"error": ..., "type": ...} as a single JSON line
func writeError(w io.Writer, err error) {
	_ = json.NewEncoder(w).Encode(errorOutput{
		Error: err.Error(),
		Type:  string(pipeline.KindOf(err)),
	})
}
