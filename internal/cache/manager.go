package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/rohmanhakim/newsguard/internal/analysis"
	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/timeutil"
)

/*
Responsibilities

- Map an article URL to a prefixed store key
- Persist analysis results with the time they were written
- Serve results younger than the TTL, evicting older ones on access
- Enumerate and clear only the keys it owns

Failure Semantics

- No method returns an error
- Store and codec failures are recorded and degrade to a miss, a no-op or 0
- The cache is never the reason a scan fails

Expiry is lazy: an entry is checked and evicted only when it is read.
*/

const (
	DefaultPrefix = "newsguard_analysis_"
	DefaultTTL    = 24 * time.Hour
)

type Manager struct {
	store        kvstore.Store
	metadataSink metadata.MetadataSink
	clock        timeutil.Clock
	prefix       string
	ttl          time.Duration
	stats        counters
}

type Option func(*Manager)

func WithPrefix(prefix string) Option {
	return func(m *Manager) {
		m.prefix = prefix
	}
}

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

func WithClock(clock timeutil.Clock) Option {
	return func(m *Manager) {
		m.clock = clock
	}
}

func NewManager(
	store kvstore.Store,
	metadataSink metadata.MetadataSink,
	opts ...Option,
) *Manager {
	m := &Manager{
		store:        store,
		metadataSink: metadataSink,
		clock:        timeutil.SystemClock{},
		prefix:       DefaultPrefix,
		ttl:          DefaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key returns the store key for url. The URL is used verbatim.
func (m *Manager) Key(url string) string {
	return m.prefix + url
}

func (m *Manager) Prefix() string {
	return m.prefix
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// GetCachedResult returns the cached analysis for url, or false when there
// is none, it is unreadable, or it has outlived the TTL.
func (m *Manager) GetCachedResult(url string) (analysis.Result, bool) {
	callerMethod := "Manager.GetCachedResult"
	key := m.Key(url)

	raw, found, err := m.store.Get(key)
	if err != nil {
		m.recordError(callerMethod, storeFailure(key, err))
		m.stats.misses.Add(1)
		return analysis.Result{}, false
	}
	if !found {
		m.stats.misses.Add(1)
		m.metadataSink.RecordCacheEvent(metadata.CacheMiss, key, nil)
		return analysis.Result{}, false
	}

	data, timestampMs, err := decodeEntry(raw)
	if err != nil {
		m.stats.corrupt.Add(1)
		m.recordError(callerMethod, &CacheError{
			Message:   err.Error(),
			Retryable: false,
			Cause:     ErrCauseCorruptEntry,
			Key:       key,
			Err:       err,
		})
		m.metadataSink.RecordCacheEvent(metadata.CacheCorrupt, key, nil)
		return analysis.Result{}, false
	}

	age := m.clock.Now().Sub(timeutil.FromUnixMillis(timestampMs))
	if age > m.ttl {
		m.stats.expired.Add(1)
		if err := m.store.Delete(key); err != nil {
			m.recordError(callerMethod, storeFailure(key, err))
		}
		m.metadataSink.RecordCacheEvent(metadata.CacheExpired, key, []metadata.Attribute{
			metadata.NewAttr(metadata.AttrAgeMs, fmt.Sprint(age.Milliseconds())),
		})
		return analysis.Result{}, false
	}

	m.stats.hits.Add(1)
	m.metadataSink.RecordCacheEvent(metadata.CacheHit, key, nil)
	return data, true
}

// SetCachedResult stores data for url stamped with the current time,
// replacing any previous entry. Failures (including a full store) are
// recorded and otherwise ignored.
func (m *Manager) SetCachedResult(url string, data analysis.Result) {
	callerMethod := "Manager.SetCachedResult"
	key := m.Key(url)

	raw, err := encodeEntry(data, timeutil.UnixMillis(m.clock.Now()))
	if err != nil {
		m.recordError(callerMethod, &CacheError{
			Message: err.Error(),
			Cause:   ErrCauseEncode,
			Key:     key,
			Err:     err,
		})
		return
	}

	if err := m.store.Set(key, raw); err != nil {
		m.recordError(callerMethod, storeFailure(key, err))
		return
	}
	m.stats.writes.Add(1)
	m.metadataSink.RecordCacheEvent(metadata.CacheWrite, key, nil)
}

// ClearCache removes every key carrying the prefix and leaves all other
// keys untouched. A failed delete does not stop the remaining ones.
func (m *Manager) ClearCache() {
	callerMethod := "Manager.ClearCache"

	keys, err := m.ownedKeys()
	if err != nil {
		m.recordError(callerMethod, storeFailure("", err))
		return
	}

	removed := 0
	for _, key := range keys {
		if err := m.store.Delete(key); err != nil {
			m.recordError(callerMethod, storeFailure(key, err))
			continue
		}
		removed++
	}
	m.metadataSink.RecordCacheEvent(metadata.CacheClear, m.prefix, []metadata.Attribute{
		metadata.NewAttr(metadata.AttrCount, fmt.Sprint(removed)),
	})
}

// GetCacheSize counts the keys carrying the prefix, expired ones included.
// It returns 0 when the store cannot be enumerated.
func (m *Manager) GetCacheSize() int {
	keys, err := m.ownedKeys()
	if err != nil {
		m.recordError("Manager.GetCacheSize", storeFailure("", err))
		return 0
	}
	return len(keys)
}

func (m *Manager) ownedKeys() ([]string, error) {
	all, err := m.store.Keys()
	if err != nil {
		return nil, err
	}
	owned := make([]string, 0, len(all))
	for _, key := range all {
		if strings.HasPrefix(key, m.prefix) {
			owned = append(owned, key)
		}
	}
	return owned, nil
}

func (m *Manager) recordError(callerMethod string, err *CacheError) {
	attrs := []metadata.Attribute{}
	if err.Key != "" {
		attrs = append(attrs, metadata.NewAttr(metadata.AttrKey, err.Key))
	}
	m.metadataSink.RecordError(
		m.clock.Now(),
		"cache",
		callerMethod,
		mapCacheErrorToMetadataCause(err),
		err.Message,
		attrs,
	)
}
