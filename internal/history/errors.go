package history

import (
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
)

type HistoryErrorCause string

const (
	ErrCauseLoadFailed  HistoryErrorCause = "failed to load stored analyses"
	ErrCauseCorrupt     HistoryErrorCause = "history file is corrupt"
	ErrCauseSaveFailed  HistoryErrorCause = "failed to save analysis"
	ErrCauseClearFailed HistoryErrorCause = "failed to clear analyses"
)

type HistoryError struct {
	Message   string
	Retryable bool
	Cause     HistoryErrorCause
	Path      string
}

func (e *HistoryError) Error() string {
	return fmt.Sprintf("history error: %s: %s", e.Cause, e.Message)
}

func (e *HistoryError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapHistoryErrorToMetadataCause maps history-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapHistoryErrorToMetadataCause(err *HistoryError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseLoadFailed, ErrCauseSaveFailed, ErrCauseClearFailed:
		return metadata.CauseStorageFailure
	case ErrCauseCorrupt:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseUnknown
	}
}
