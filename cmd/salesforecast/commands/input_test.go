package commands

import (
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BOLT4L/SaleForecast/internal/contracts"
	"github.com/BOLT4L/SaleForecast/pkg/config"
	"github.com/BOLT4L/SaleForecast/pkg/logger"
)

func TestParseInput(t *testing.T) {
	log := logger.New(&config.Config{LogLevel: "error", LogFormat: "json"}, io.Discard)

	in, err := parseInput([]string{
		`[{"date":"2024-01-10","totalAmount":"12.5","promotion":1}]`,
		"Weekly",
		"Prophet",
		"2024-04-01",
		"2024-04-30T00:00:00Z",
	}, nil, log)
	require.NoError(t, err)

	require.Len(t, in.Records, 1)
	assert.Equal(t, "12.5", in.Records[0].TotalAmount.Raw)
	assert.True(t, bool(in.Records[0].Promotion))
	assert.Equal(t, contracts.GranularityWeekly, in.Granularity)
	assert.Equal(t, contracts.ModelType("Prophet"), in.ModelType)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), in.StartDate)
	assert.Equal(t, time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC), in.EndDate)
}

func TestReadSalesArg(t *testing.T) {
	data, err := readSalesArg("-", strings.NewReader("[]"))
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = readSalesArg("-", nil)
	assert.Error(t, err)

	_, err = readSalesArg("@/definitely/missing.json", nil)
	assert.Error(t, err)

	data, err = readSalesArg(`[{"date":"2024-01-01"}]`, nil)
	require.NoError(t, err)
	assert.Equal(t, `[{"date":"2024-01-01"}]`, string(data))
}
