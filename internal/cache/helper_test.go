package cache_test

import (
	"errors"
	"time"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/rohmanhakim/newsguard/internal/metadata"
)

// recordingSink captures error and cache events for assertions
type recordingSink struct {
	metadata.NoopSink
	errors []metadata.ErrorCause
	events []metadata.CacheEventKind
}

func (r *recordingSink) RecordError(
	_ time.Time,
	_ string,
	_ string,
	cause metadata.ErrorCause,
	_ string,
	_ []metadata.Attribute,
) {
	r.errors = append(r.errors, cause)
}

func (r *recordingSink) RecordCacheEvent(kind metadata.CacheEventKind, _ string, _ []metadata.Attribute) {
	r.events = append(r.events, kind)
}

// faultyStore wraps a MemoryStore and fails selected operations
type faultyStore struct {
	*kvstore.MemoryStore
	failGet    bool
	failSet    bool
	failDelete map[string]bool
	failKeys   bool
}

var errInjected = &kvstore.StoreError{
	Message:   "injected",
	Retryable: true,
	Cause:     kvstore.ErrCauseReadFailure,
}

func newFaultyStore() *faultyStore {
	return &faultyStore{
		MemoryStore: kvstore.NewMemoryStore(),
		failDelete:  map[string]bool{},
	}
}

func (f *faultyStore) Get(key string) (string, bool, error) {
	if f.failGet {
		return "", false, errInjected
	}
	return f.MemoryStore.Get(key)
}

func (f *faultyStore) Set(key, value string) error {
	if f.failSet {
		return errors.New("disk on fire")
	}
	return f.MemoryStore.Set(key, value)
}

func (f *faultyStore) Delete(key string) error {
	if f.failDelete[key] {
		return errInjected
	}
	return f.MemoryStore.Delete(key)
}

func (f *faultyStore) Keys() ([]string, error) {
	if f.failKeys {
		return nil, errInjected
	}
	return f.MemoryStore.Keys()
}

func sampleResult(title string) analysis.Result {
	return analysis.Result{
		Title:       analysis.StringPtr(title),
		Summary:     analysis.StringPtr("A summary."),
		NamedPeople: []string{"Ada Lovelace", "Alan Turing"},
		Sentiment: analysis.Sentiment{
			Label: analysis.StringPtr("neutral"),
			Score: analysis.FloatPtr(0.5),
		},
		BiasClassification: analysis.Classification{
			Labels: analysis.StringPtr("left"),
			Scores: analysis.FloatPtr(0.734),
		},
		TopicClassification: analysis.Classification{
			Labels: analysis.StringPtr("politics"),
			Scores: analysis.FloatPtr(0.25),
		},
	}
}
