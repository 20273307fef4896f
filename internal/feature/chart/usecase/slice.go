package usecase

import (
	"bytes"
	"encoding/json"
)

// SliceChartPayload projects a full-history chart payload down to the
// inclusive [from, to] timestamp window. The timestamp sequence of
// chart.result[0] is filtered, and every indicator series whose length
// equals the original timestamp count is filtered by the same index
// selection; series of a different length are not time-aligned and pass
// through untouched. Order is preserved. The input is never mutated; the
// result is a fresh document.
//
// Payloads without the expected chart/result/timestamp structure are
// returned as-is (re-encoded): slicing is a projection, not a validation.
func SliceChartPayload(payload json.RawMessage, from, to int64) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber() // keep numbers verbatim through the round trip

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}

	result, ok := firstChartResult(doc)
	if !ok {
		return json.Marshal(doc)
	}
	timestamps, ok := result["timestamp"].([]any)
	if !ok || len(timestamps) == 0 {
		return json.Marshal(doc)
	}

	indices := make([]int, 0, len(timestamps))
	for i, v := range timestamps {
		if ts := asInt64(v); ts >= from && ts <= to {
			indices = append(indices, i)
		}
	}

	result["timestamp"] = pick(timestamps, indices)

	if indicators, ok := result["indicators"].(map[string]any); ok {
		for groupKey, groupVal := range indicators {
			group, ok := groupVal.([]any)
			if !ok {
				continue
			}
			for gi, seriesVal := range group {
				series, ok := seriesVal.(map[string]any)
				if !ok {
					continue
				}
				for k, v := range series {
					if arr, ok := v.([]any); ok && len(arr) == len(timestamps) {
						series[k] = pick(arr, indices)
					}
				}
				group[gi] = series
			}
			indicators[groupKey] = group
		}
	}

	return json.Marshal(doc)
}

func firstChartResult(doc map[string]any) (map[string]any, bool) {
	chart, ok := doc["chart"].(map[string]any)
	if !ok {
		return nil, false
	}
	results, ok := chart["result"].([]any)
	if !ok || len(results) == 0 {
		return nil, false
	}
	result, ok := results[0].(map[string]any)
	return result, ok
}

func asInt64(v any) int64 {
	n, ok := v.(json.Number)
	if !ok {
		return 0
	}
	i, err := n.Int64()
	if err != nil {
		return 0
	}
	return i
}

func pick(arr []any, indices []int) []any {
	out := make([]any, 0, len(indices))
	for _, i := range indices {
		out = append(out, arr[i])
	}
	return out
}
