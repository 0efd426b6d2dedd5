package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/pkg/logger"
)

// forecastInput S0: 위치 인자 파싱 결과
type forecastInput struct {
	Records     []contracts.RawRecord
	Granularity contracts.Granularity
	ModelType   contracts.ModelType
	StartDate   time.Time
	EndDate     time.Time
}

// parseInput decodes the five positional arguments
func parseInput(args []string, stdin io.Reader, log *logger.Logger) (*forecastInput, error) {
	if len(args) != 5 {
		return nil, fmt.Errorf("expected 5 arguments, got %d", len(args))
	}

	raw, err := readSalesArg(args[0], stdin)
	if err != nil {
		return nil, err
	}

	var records []contracts.RawRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("sales records: %w", err)
	}

	granularity, ok := contracts.ParseGranularity(args[1])
	if !ok {
		log.Warnf("Unknown forecast period %q, using %s", args[1], granularity)
	}

	startDate, err := contracts.ParseDate(args[3])
	if err != nil {
		return nil, fmt.Errorf("startDate: %w", err)
	}
	endDate, err := contracts.ParseDate(args[4])
	if err != nil {
		return nil, fmt.Errorf("endDate: %w", err)
	}

	return &forecastInput{
		Records:     records,
		Granularity: granularity,
		ModelType:   contracts.ModelType(args[2]),
		StartDate:   startDate,
		EndDate:     endDate,
	}, nil
}

// readSalesArg resolves "-" (stdin) and "@path" (file) references
func readSalesArg(arg string, stdin io.Reader) ([]byte, error) {
	switch {
	case arg == "-":
		if stdin == nil {
			return nil, errors.New("sales records: no stdin")
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("sales records: read stdin: %w", err)
		}
		return data, nil
	case strings.HasPrefix(arg, "@"):
		data, err := os.ReadFile(arg[1:])
		if err != nil {
			return nil, fmt.Errorf("sales records: %w", err)
		}
		return data, nil
	default:
		return []byte(arg), nil
	}
}
