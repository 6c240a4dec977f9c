package cache

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/newsguard/internal/kvstore"
	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/failure"
)

var (
	errMissingData      = errors.New("cache entry has no data")
	errMissingTimestamp = errors.New("cache entry has no timestamp")
)

type CacheErrorCause string

const (
	ErrCauseCorruptEntry CacheErrorCause = "corrupt entry"
	ErrCauseEncode       CacheErrorCause = "failed to encode entry"
	ErrCauseStore        CacheErrorCause = "store failure"
)

// CacheError never leaves the package through the Manager API; it exists
// so failures are classified consistently before being recorded.
type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
	Key       string
	Err       error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s", e.Cause)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func storeFailure(key string, err error) *CacheError {
	return &CacheError{
		Message:   err.Error(),
		Retryable: failure.IsRecoverable(err),
		Cause:     ErrCauseStore,
		Key:       key,
		Err:       err,
	}
}

// mapCacheErrorToMetadataCause maps cache-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseCorruptEntry:
		return metadata.CauseContentInvalid
	case ErrCauseEncode:
		return metadata.CauseInvariantViolation
	case ErrCauseStore:
		var storeErr *kvstore.StoreError
		if errors.As(err.Err, &storeErr) {
			return kvstore.MapStoreErrorToMetadataCause(storeErr)
		}
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
