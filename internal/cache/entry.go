package cache

import (
	"encoding/json"

	"github.com/rohmanhakim/newsguard/internal/analysis"
)

// entry is the persisted form of one cached analysis:
//
//	{"data": <analysis.Result>, "timestamp": <ms since epoch>}
//
// Both fields are pointers so a record missing either one is detectable.
type entry struct {
	Data      *analysis.Result `json:"data"`
	Timestamp *int64           `json:"timestamp"`
}

func encodeEntry(data analysis.Result, timestampMs int64) (string, error) {
	raw, err := json.Marshal(entry{
		Data:      &data,
		Timestamp: &timestampMs,
	})
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeEntry(raw string) (analysis.Result, int64, error) {
	var e entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return analysis.Result{}, 0, err
	}
	if e.Data == nil {
		return analysis.Result{}, 0, errMissingData
	}
	if e.Timestamp == nil {
		return analysis.Result{}, 0, errMissingTimestamp
	}
	return *e.Data, *e.Timestamp, nil
}
