package summarizer

import (
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
)

type SummarizeErrorCause string

const (
	ErrCauseTimeout           SummarizeErrorCause = "timeout"
	ErrCauseCanceled          SummarizeErrorCause = "canceled"
	ErrCauseNetworkFailure    SummarizeErrorCause = "network issues"
	ErrCauseRequestTooMany    SummarizeErrorCause = "too many requests"
	ErrCauseRequest5xx        SummarizeErrorCause = "5xx"
	ErrCauseUnauthorized      SummarizeErrorCause = "unauthorized"
	ErrCauseRequestRejected   SummarizeErrorCause = "request rejected"
	ErrCauseMalformedResponse SummarizeErrorCause = "malformed response"
	ErrCauseInvalidOptions    SummarizeErrorCause = "invalid options"
)

type SummarizeError struct {
	Message    string
	Retryable  bool
	Cause      SummarizeErrorCause
	StatusCode int
}

func (e *SummarizeError) Error() string {
	return fmt.Sprintf("summarizer error: %s: %s", e.Cause, e.Message)
}

func (e *SummarizeError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *SummarizeError) IsRetryable() bool {
	return e.Retryable
}

// MapErrorToMetadataCause maps summarizer-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func MapErrorToMetadataCause(err *SummarizeError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure, ErrCauseRequest5xx:
		return metadata.CauseNetworkFailure
	case ErrCauseRequestTooMany, ErrCauseUnauthorized, ErrCauseRequestRejected:
		return metadata.CausePolicyDisallow
	case ErrCauseMalformedResponse:
		return metadata.CauseContentInvalid
	case ErrCauseInvalidOptions:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
