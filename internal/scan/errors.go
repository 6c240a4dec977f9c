package scan

import (
	"fmt"

	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/failure"
)

const (
	MsgInvalidURL      = "Invalid URL."
	MsgAnalysisFailed  = "An error occurred during analysis."
	MsgEmptyResponse   = "The analysis service returned an empty response."
	MsgScanInProgress  = "A scan is already in progress."
	MsgScanCancelled   = "The scan was cancelled."
	MsgUnexpectedError = "An unexpected error occurred. Please try again."
)

type ScanErrorCause string

const (
	ErrCauseValidation    ScanErrorCause = "validation"
	ErrCauseAnalysis      ScanErrorCause = "analysis"
	ErrCauseEmptyResponse ScanErrorCause = "empty response"
	ErrCauseBusy          ScanErrorCause = "busy"
	ErrCauseCancelled     ScanErrorCause = "cancelled"
)

// ScanError is the only error a caller of Scan observes. Message is the
// text meant for display.
type ScanError struct {
	Message   string
	Retryable bool
	Cause     ScanErrorCause
	ScanID    string
	Err       error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan error: %s", e.Cause)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func (e *ScanError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// DisplayMessage returns the message to show for err, falling back to a
// generic one when err carries none.
func DisplayMessage(err *ScanError) string {
	if err == nil {
		return ""
	}
	if err.Message == "" {
		return MsgUnexpectedError
	}
	return err.Message
}

func (c ScanErrorCause) outcome() metadata.ScanOutcome {
	switch c {
	case ErrCauseValidation:
		return metadata.OutcomeInvalid
	case ErrCauseEmptyResponse:
		return metadata.OutcomeEmpty
	case ErrCauseBusy:
		return metadata.OutcomeBusy
	case ErrCauseCancelled:
		return metadata.OutcomeCancelled
	default:
		return metadata.OutcomeFailed
	}
}

// mapScanErrorToMetadataCause maps scan-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapScanErrorToMetadataCause(err *ScanError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseValidation, ErrCauseBusy:
		return metadata.CausePolicyDisallow
	case ErrCauseEmptyResponse:
		return metadata.CauseContentInvalid
	case ErrCauseAnalysis:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
