package usecase

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartFixture = `{
  "chart": {
    "result": [
      {
        "meta": {"symbol": "005930.KS", "currency": "KRW"},
        "timestamp": [100, 200, 300],
        "indicators": {
          "quote": [
            {"close": [10.5, 20.5, 30.5], "volume": [1000, 2000, 3000]}
          ],
          "adjclose": [
            {"adjclose": [10.1, 20.1, 30.1]}
          ]
        }
      }
    ],
    "error": null
  }
}`

type slicedChart struct {
	Chart struct {
		Result []struct {
			Meta       map[string]any `json:"meta"`
			Timestamp  []int64        `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
				Adjclose []struct {
					Adjclose []float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
	} `json:"chart"`
}

func decodeSliced(t *testing.T, raw json.RawMessage) slicedChart {
	t.Helper()
	var out slicedChart
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Chart.Result, 1)
	return out
}

func TestSliceChartPayload_Identity(t *testing.T) {
	t.Parallel()

	sliced, err := SliceChartPayload(json.RawMessage(chartFixture), 0, math.MaxInt64)
	require.NoError(t, err)

	out := decodeSliced(t, sliced)
	assert.Equal(t, []int64{100, 200, 300}, out.Chart.Result[0].Timestamp)
	assert.Equal(t, []float64{10.5, 20.5, 30.5}, out.Chart.Result[0].Indicators.Quote[0].Close)
	assert.Equal(t, []int64{1000, 2000, 3000}, out.Chart.Result[0].Indicators.Quote[0].Volume)
	assert.Equal(t, "005930.KS", out.Chart.Result[0].Meta["symbol"])
}

func TestSliceChartPayload_Window(t *testing.T) {
	t.Parallel()

	sliced, err := SliceChartPayload(json.RawMessage(chartFixture), 150, 300)
	require.NoError(t, err)

	out := decodeSliced(t, sliced)
	assert.Equal(t, []int64{200, 300}, out.Chart.Result[0].Timestamp)
	assert.Equal(t, []float64{20.5, 30.5}, out.Chart.Result[0].Indicators.Quote[0].Close)
	assert.Equal(t, []int64{2000, 3000}, out.Chart.Result[0].Indicators.Quote[0].Volume)
	assert.Equal(t, []float64{20.1, 30.1}, out.Chart.Result[0].Indicators.Adjclose[0].Adjclose)
}

func TestSliceChartPayload_InclusiveBounds(t *testing.T) {
	t.Parallel()

	sliced, err := SliceChartPayload(json.RawMessage(chartFixture), 100, 300)
	require.NoError(t, err)

	out := decodeSliced(t, sliced)
	assert.Equal(t, []int64{100, 200, 300}, out.Chart.Result[0].Timestamp)
}

func TestSliceChartPayload_EmptyWindow(t *testing.T) {
	t.Parallel()

	// from > to selects nothing; aligned series must shrink with the
	// timestamps.
	sliced, err := SliceChartPayload(json.RawMessage(chartFixture), 400, 100)
	require.NoError(t, err)

	out := decodeSliced(t, sliced)
	assert.Empty(t, out.Chart.Result[0].Timestamp)
	assert.Empty(t, out.Chart.Result[0].Indicators.Quote[0].Close)
	assert.Empty(t, out.Chart.Result[0].Indicators.Adjclose[0].Adjclose)
}

func TestSliceChartPayload_UnalignedSeriesPassThrough(t *testing.T) {
	t.Parallel()

	payload := `{
	  "chart": {
	    "result": [
	      {
	        "timestamp": [100, 200, 300],
	        "indicators": {
	          "quote": [
	            {"close": [1, 2, 3], "partial": [7, 8]}
	          ]
	        }
	      }
	    ]
	  }
	}`

	sliced, err := SliceChartPayload(json.RawMessage(payload), 150, 300)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(sliced, &out))
	quote := out["chart"].(map[string]any)["result"].([]any)[0].(map[string]any)["indicators"].(map[string]any)["quote"].([]any)[0].(map[string]any)

	assert.Len(t, quote["close"], 2, "aligned series must be filtered")
	assert.Len(t, quote["partial"], 2, "unaligned series must pass through unchanged")
	assert.Equal(t, []any{7.0, 8.0}, quote["partial"])
}

func TestSliceChartPayload_ShapelessPayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{name: "no chart key", payload: `{"ok": true}`},
		{name: "empty result", payload: `{"chart": {"result": []}}`},
		{name: "no timestamps", payload: `{"chart": {"result": [{"meta": {}}]}}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sliced, err := SliceChartPayload(json.RawMessage(tt.payload), 0, 1000)
			require.NoError(t, err)
			assert.JSONEq(t, tt.payload, string(sliced))
		})
	}
}

func TestSliceChartPayload_InvalidJSON(t *testing.T) {
	t.Parallel()

	_, err := SliceChartPayload(json.RawMessage(`{broken`), 0, 1000)
	assert.Error(t, err)
}

// TestSliceChartPayload_DoesNotMutateInput verifies the projection leaves the
// original payload bytes usable for the next request's window.
func TestSliceChartPayload_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	payload := json.RawMessage(chartFixture)
	_, err := SliceChartPayload(payload, 150, 250)
	require.NoError(t, err)

	again, err := SliceChartPayload(payload, 0, math.MaxInt64)
	require.NoError(t, err)

	out := decodeSliced(t, again)
	assert.Equal(t, []int64{100, 200, 300}, out.Chart.Result[0].Timestamp)
}
