package kvstore

import (
	"fmt"

	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCauseQuotaExceeded StoreErrorCause = "quota exceeded"
	ErrCauseWriteFailure  StoreErrorCause = "write failed"
	ErrCauseReadFailure   StoreErrorCause = "read failed"
	ErrCauseDeleteFailure StoreErrorCause = "delete failed"
)

type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
	Key       string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("kvstore error: %s", e.Cause)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// MapStoreErrorToMetadataCause maps store-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func MapStoreErrorToMetadataCause(err *StoreError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseQuotaExceeded,
		ErrCauseWriteFailure,
		ErrCauseReadFailure,
		ErrCauseDeleteFailure:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
