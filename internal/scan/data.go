package scan

import (
	"time"

	"github.com/rohmanhakim/newsguard/internal/analysis"
)

// Result is a successful scan.
type Result struct {
	ScanID    string
	URL       string
	Data      analysis.Result
	FromCache bool
	// CacheSize is the number of cached analyses after the scan.
	CacheSize int
	Duration  time.Duration
}
