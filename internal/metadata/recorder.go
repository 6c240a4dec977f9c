package metadata

import (
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

/*
Metadata Collected
- Outbound analysis requests (status, duration, content type)
- Cache events per key (hit, miss, expiry, corruption, writes, clears)
- Scan outcomes
- Errors, classified by ErrorCause

Metadata is write-only.
No component may read metadata to influence scan or cache decisions.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordRequest(
		requestURL string,
		httpStatus int,
		duration time.Duration,
		contentType string,
	)

	RecordCacheEvent(kind CacheEventKind, key string, attrs []Attribute)

	RecordScan(
		scanID string,
		articleURL string,
		outcome ScanOutcome,
		duration time.Duration,
	)
}

/*
Recorder writes structured events through zerolog.
It must not:
- perform I/O decisions
- affect control flow
Events are written synchronously in the order they are received.
*/
type Recorder struct {
	logger zerolog.Logger
}

func NewRecorder(logger zerolog.Logger) *Recorder {
	return &Recorder{
		logger: logger,
	}
}

// NewLogger builds the process logger. format is "json" or "console";
// anything else falls back to console. An unparseable level means info.
func NewLogger(out io.Writer, level string, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	writer := out
	if !strings.EqualFold(format, "json") {
		writer = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(writer).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

func (r *Recorder) Logger() zerolog.Logger {
	return r.logger
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	event := r.logger.Error().
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Stringer("cause", cause)
	withAttrs(event, attrs).Msg(details)
}

func (r *Recorder) RecordRequest(
	requestURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
	r.logger.Debug().
		Str("url", requestURL).
		Int("http_status", httpStatus).
		Dur("duration", duration).
		Str("content_type", contentType).
		Msg("analysis request")
}

func (r *Recorder) RecordCacheEvent(kind CacheEventKind, key string, attrs []Attribute) {
	event := r.logger.Debug().
		Str("event", string(kind)).
		Str("key", key)
	withAttrs(event, attrs).Msg("cache")
}

func (r *Recorder) RecordScan(
	scanID string,
	articleURL string,
	outcome ScanOutcome,
	duration time.Duration,
) {
	r.logger.Info().
		Str("scan_id", scanID).
		Str("url", articleURL).
		Str("outcome", string(outcome)).
		Dur("duration", duration).
		Msg("scan finished")
}

func withAttrs(event *zerolog.Event, attrs []Attribute) *zerolog.Event {
	for _, attr := range attrs {
		event = event.Str(string(attr.Key), attr.Value)
	}
	return event
}

// MultiSink fans every event out to each sink in order.
type MultiSink []MetadataSink

func (m MultiSink) RecordError(observedAt time.Time, packageName string, action string, cause ErrorCause, details string, attrs []Attribute) {
	for _, s := range m {
		s.RecordError(observedAt, packageName, action, cause, details, attrs)
	}
}

func (m MultiSink) RecordRequest(requestURL string, httpStatus int, duration time.Duration, contentType string) {
	for _, s := range m {
		s.RecordRequest(requestURL, httpStatus, duration, contentType)
	}
}

func (m MultiSink) RecordCacheEvent(kind CacheEventKind, key string, attrs []Attribute) {
	for _, s := range m {
		s.RecordCacheEvent(kind, key, attrs)
	}
}

func (m MultiSink) RecordScan(scanID string, articleURL string, outcome ScanOutcome, duration time.Duration) {
	for _, s := range m {
		s.RecordScan(scanID, articleURL, outcome, duration)
	}
}

// NoopSink, struct that implements MetadataSink but does nothing
// Callers (or tests) can decide whether to inject Recorder or NoopSink
// Purpose is to make metadata orthogonal

type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordRequest(
	requestURL string,
	httpStatus int,
	duration time.Duration,
	contentType string,
) {
}

func (n *NoopSink) RecordCacheEvent(kind CacheEventKind, key string, attrs []Attribute) {}

func (n *NoopSink) RecordScan(
	scanID string,
	articleURL string,
	outcome ScanOutcome,
	duration time.Duration,
) {
}
