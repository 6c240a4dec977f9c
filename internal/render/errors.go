package render

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/newsguard/pkg/failure"
)

var ErrUnknownFormat = errors.New("unknown output format")

type RenderErrorCause string

const (
	ErrCauseTemplate   RenderErrorCause = "template execution failed"
	ErrCauseConversion RenderErrorCause = "markdown conversion failed"
	ErrCauseEncode     RenderErrorCause = "encoding failed"
	ErrCauseWrite      RenderErrorCause = "write failed"
)

type RenderError struct {
	Message   string
	Retryable bool
	Cause     RenderErrorCause
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render error: %s", e.Cause)
}

func (e *RenderError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
