package scan

import (
	"context"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/semaphore"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/limiter"
	"github.com/rohmanhakim/newsguard/pkg/timeutil"
	"github.com/rohmanhakim/newsguard/pkg/urlutil"
)

/*
Responsibilities

- Validate the article URL before anything else happens
- Allow a single outstanding scan per Scanner
- Serve from the cache when possible
- Pace and perform one analysis request otherwise
- Write successful results through to the cache

Ordering

Within one scan: cache read, then the network call, then the cache write.
Scans on the same Scanner never interleave; a second scan started while one
is outstanding is rejected, not queued.

Cache failures never surface here; the cache degrades to a miss on its own.
*/

// ResultCache is the part of the cache manager a Scanner needs.
type ResultCache interface {
	GetCachedResult(url string) (analysis.Result, bool)
	SetCachedResult(url string, data analysis.Result)
	GetCacheSize() int
}

type Scanner struct {
	metadataSink metadata.MetadataSink
	cache        ResultCache
	analyser     analysis.Analyser
	rateLimiter  limiter.RateLimiter
	apiHost      string
	clock        timeutil.Clock
	gate         *semaphore.Weighted
	bypassCache  bool
}

type Option func(*Scanner)

// WithCacheBypass skips the cache lookup. Successful results are still
// written through, which refreshes the cached entry.
func WithCacheBypass(bypass bool) Option {
	return func(s *Scanner) {
		s.bypassCache = bypass
	}
}

func WithClock(clock timeutil.Clock) Option {
	return func(s *Scanner) {
		s.clock = clock
	}
}

func NewScanner(
	metadataSink metadata.MetadataSink,
	cache ResultCache,
	analyser analysis.Analyser,
	rateLimiter limiter.RateLimiter,
	apiBaseURL string,
	opts ...Option,
) *Scanner {
	s := &Scanner{
		metadataSink: metadataSink,
		cache:        cache,
		analyser:     analyser,
		rateLimiter:  rateLimiter,
		apiHost:      urlutil.HostKey(apiBaseURL),
		clock:        timeutil.SystemClock{},
		gate:         semaphore.NewWeighted(1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Scanner) Scan(ctx context.Context, rawURL string) (Result, *ScanError) {
	startTime := s.clock.Now()
	scanID := ulid.MustNew(ulid.Timestamp(startTime), ulid.DefaultEntropy()).String()

	result, err := s.scan(ctx, scanID, rawURL)

	duration := s.clock.Now().Sub(startTime)
	if err != nil {
		s.metadataSink.RecordError(
			s.clock.Now(),
			"scan",
			"Scanner.Scan",
			mapScanErrorToMetadataCause(err),
			err.Message,
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrScanID, scanID),
				metadata.NewAttr(metadata.AttrURL, rawURL),
			},
		)
		s.metadataSink.RecordScan(scanID, rawURL, err.Cause.outcome(), duration)
		return Result{}, err
	}

	result.Duration = duration
	outcome := metadata.OutcomeSuccess
	if result.FromCache {
		outcome = metadata.OutcomeCached
	}
	s.metadataSink.RecordScan(scanID, rawURL, outcome, duration)
	return result, nil
}

func (s *Scanner) scan(ctx context.Context, scanID string, rawURL string) (Result, *ScanError) {
	if !urlutil.IsAnalysable(rawURL) {
		return Result{}, &ScanError{
			Message: MsgInvalidURL,
			Cause:   ErrCauseValidation,
			ScanID:  scanID,
		}
	}

	if !s.gate.TryAcquire(1) {
		return Result{}, &ScanError{
			Message:   MsgScanInProgress,
			Retryable: true,
			Cause:     ErrCauseBusy,
			ScanID:    scanID,
		}
	}
	defer s.gate.Release(1)

	if !s.bypassCache {
		if cached, found := s.cache.GetCachedResult(rawURL); found {
			return Result{
				ScanID:    scanID,
				URL:       rawURL,
				Data:      cached,
				FromCache: true,
				CacheSize: s.cache.GetCacheSize(),
			}, nil
		}
	}

	if err := limiter.Wait(ctx, s.rateLimiter, s.apiHost); err != nil {
		return Result{}, cancelled(scanID, err)
	}
	s.rateLimiter.MarkLastFetchAsNow(s.apiHost)

	resp := s.analyser.AnalyseArticleURL(ctx, rawURL)

	switch resp.Outcome() {
	case analysis.OutcomeSuccess:
		s.cache.SetCachedResult(rawURL, *resp.Data)
		return Result{
			ScanID:    scanID,
			URL:       rawURL,
			Data:      *resp.Data,
			CacheSize: s.cache.GetCacheSize(),
		}, nil

	case analysis.OutcomeFailure:
		if ctx.Err() != nil {
			return Result{}, cancelled(scanID, resp.Err)
		}
		message := MsgAnalysisFailed
		if resp.Err.Detail != "" {
			message = resp.Err.Detail
		}
		return Result{}, &ScanError{
			Message:   message,
			Retryable: resp.Err.Retryable,
			Cause:     ErrCauseAnalysis,
			ScanID:    scanID,
			Err:       resp.Err,
		}

	default:
		return Result{}, &ScanError{
			Message:   MsgEmptyResponse,
			Retryable: true,
			Cause:     ErrCauseEmptyResponse,
			ScanID:    scanID,
		}
	}
}

func cancelled(scanID string, err error) *ScanError {
	return &ScanError{
		Message: MsgScanCancelled,
		Cause:   ErrCauseCancelled,
		ScanID:  scanID,
		Err:     err,
	}
}
