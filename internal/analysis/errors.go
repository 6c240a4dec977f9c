package analysis

import (
	"fmt"

	"github.com/rohmanhakim/newsguard/internal/metadata"
	"github.com/rohmanhakim/newsguard/pkg/failure"
)

type AnalysisErrorCause string

const (
	ErrCauseRequestBuild    AnalysisErrorCause = "failed to build request"
	ErrCauseNetworkFailure  AnalysisErrorCause = "network issues"
	ErrCauseReadBody        AnalysisErrorCause = "failed to read response body"
	ErrCauseRequestRejected AnalysisErrorCause = "4xx"
	ErrCauseRequest5xx      AnalysisErrorCause = "5xx"
	ErrCauseUnexpectedCode  AnalysisErrorCause = "unexpected status"
	ErrCauseDecode          AnalysisErrorCause = "undecodable response"
)

type AnalysisError struct {
	Message   string
	Retryable bool
	Cause     AnalysisErrorCause
	// StatusCode is zero when no response was received.
	StatusCode int
	// Detail is the plain-string error payload the service sent, if any.
	Detail string
	Err    error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis error: %s", e.Cause)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

func (e *AnalysisError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapAnalysisErrorToMetadataCause maps adapter-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapAnalysisErrorToMetadataCause(err *AnalysisError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNetworkFailure, ErrCauseReadBody, ErrCauseRequest5xx:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestRejected:
		return metadata.CausePolicyDisallow
	case ErrCauseDecode:
		return metadata.CauseContentInvalid
	case ErrCauseRequestBuild:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
