package render

import (
	"encoding/json"
	"io"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/scan"
)

type jsonResult struct {
	ScanID    string          `json:"scan_id"`
	URL       string          `json:"url"`
	FromCache bool            `json:"from_cache"`
	CacheSize int             `json:"cache_size"`
	Data      analysis.Result `json:"data"`
}

type jsonError struct {
	ScanID string `json:"scan_id,omitempty"`
	URL    string `json:"url"`
	Cause  string `json:"cause"`
	Error  string `json:"error"`
}

type JSONRenderer struct{}

func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (j *JSONRenderer) Result(w io.Writer, res scan.Result) error {
	return encode(w, jsonResult{
		ScanID:    res.ScanID,
		URL:       res.URL,
		FromCache: res.FromCache,
		CacheSize: res.CacheSize,
		Data:      res.Data,
	})
}

func (j *JSONRenderer) Error(w io.Writer, url string, err *scan.ScanError) error {
	out := jsonError{
		URL:   url,
		Error: ErrorMessage(err),
	}
	if err != nil {
		out.ScanID = err.ScanID
		out.Cause = string(err.Cause)
	}
	return encode(w, out)
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return &RenderError{
			Message: err.Error(),
			Cause:   ErrCauseEncode,
		}
	}
	return nil
}
