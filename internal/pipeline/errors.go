package pipeline

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/internal/summarizer"
	"github.com/rohmanhakim/docuprism/pkg/failure"
	"github.com/rohmanhakim/docuprism/pkg/retry"
)

type PipelineErrorCause string

const (
	ErrCauseEmptyInput      PipelineErrorCause = "please provide text to summarize"
	ErrCauseInvalidOptions  PipelineErrorCause = "invalid options"
	ErrCauseSummarizeFailed PipelineErrorCause = "failed to summarize text"
	ErrCauseNoResult        PipelineErrorCause = "no summary was generated"
)

type PipelineError struct {
	Message   string
	Retryable bool
	Cause     PipelineErrorCause
	Err       error
}

func (e *PipelineError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pipeline error: %s", e.Cause)
	}
	return fmt.Sprintf("pipeline error: %s: %s", e.Cause, e.Message)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func (e *PipelineError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapPipelineErrorToMetadataCause maps pipeline-local error semantics
// to the canonical metadata.ErrorCause table. Summarizer failures keep
// the cause of the underlying summarizer error.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapPipelineErrorToMetadataCause(err *PipelineError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseEmptyInput, ErrCauseNoResult:
		return metadata.CauseContentInvalid
	case ErrCauseInvalidOptions:
		return metadata.CauseInvariantViolation
	case ErrCauseSummarizeFailed:
		var se *summarizer.SummarizeError
		if errors.As(err.Err, &se) {
			return summarizer.MapErrorToMetadataCause(se)
		}
		var re *retry.RetryError
		if errors.As(err.Err, &re) {
			return metadata.CauseNetworkFailure
		}
		return metadata.CauseUnknown
	default:
		return metadata.CauseUnknown
	}
}
