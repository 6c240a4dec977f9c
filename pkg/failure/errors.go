package failure

import "errors"

type Severity int

// caller control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

type ClassifiedError interface {
	error
	Severity() Severity
}

// SeverityOf reports the severity of err. Errors that do not carry a
// classification are treated as fatal.
func SeverityOf(err error) Severity {
	var classified ClassifiedError
	if errors.As(err, &classified) {
		return classified.Severity()
	}
	return SeverityFatal
}

// IsRecoverable is shorthand for SeverityOf(err) == SeverityRecoverable.
func IsRecoverable(err error) bool {
	return err != nil && SeverityOf(err) == SeverityRecoverable
}
