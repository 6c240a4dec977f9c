package scan_test

import (
	"context"
	"testing"
	"time"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/cache"
	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/internal/scan"
	"github.com/rohmanhakim/newsguard/pkg/limiter"
	"github.com/rohmanhakim/newsguard/pkg/timeutil"
	"github.com/stretchr/testify/mock"
)

const apiBaseURL = "http://localhost:8000"

// analyserMock is a testify mock for analysis.Analyser
type analyserMock struct {
	mock.Mock
}

func (a *analyserMock) AnalyseArticleURL(ctx context.Context, articleURL string) analysis.Response {
	args := a.Called(ctx, articleURL)
	return args.Get(0).(analysis.Response)
}

// rateLimiterMock is a testify mock for the RateLimiter
type rateLimiterMock struct {
	mock.Mock
}

func (r *rateLimiterMock) SetBaseDelay(baseDelay time.Duration) { r.Called(baseDelay) }
func (r *rateLimiterMock) SetJitter(jitter time.Duration)       { r.Called(jitter) }
func (r *rateLimiterMock) SetRandomSeed(randomSeed int64)       { r.Called(randomSeed) }
func (r *rateLimiterMock) MarkLastFetchAsNow(host string)       { r.Called(host) }
func (r *rateLimiterMock) ResolveDelay(host string) time.Duration {
	args := r.Called(host)
	return args.Get(0).(time.Duration)
}

// scanSink captures scan outcomes for assertions
type scanSink struct {
	metadata.NoopSink
	outcomes []metadata.ScanOutcome
	scanIDs  []string
}

func (s *scanSink) RecordScan(scanID string, _ string, outcome metadata.ScanOutcome, _ time.Duration) {
	s.outcomes = append(s.outcomes, outcome)
	s.scanIDs = append(s.scanIDs, scanID)
}

type fixture struct {
	scanner  *scan.Scanner
	analyser *analyserMock
	cache    *cache.Manager
	store    *kvstore.MemoryStore
	clock    *timeutil.FakeClock
	sink     *scanSink
}

func newFixture(t *testing.T, opts ...scan.Option) *fixture {
	t.Helper()
	clock := timeutil.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	store := kvstore.NewMemoryStore()
	sink := &scanSink{}
	manager := cache.NewManager(store, sink, cache.WithClock(clock))
	analyser := new(analyserMock)
	rl := limiter.NewConcurrentRateLimiterWithClock(clock)

	opts = append([]scan.Option{scan.WithClock(clock)}, opts...)
	return &fixture{
		scanner:  scan.NewScanner(sink, manager, analyser, rl, apiBaseURL, opts...),
		analyser: analyser,
		cache:    manager,
		store:    store,
		clock:    clock,
		sink:     sink,
	}
}

func resultFor(title string) analysis.Result {
	return analysis.Result{
		Title:   analysis.StringPtr(title),
		Summary: analysis.StringPtr("summary of " + title),
		Sentiment: analysis.Sentiment{
			Label: analysis.StringPtr("positive"),
			Score: analysis.FloatPtr(0.9),
		},
	}
}
