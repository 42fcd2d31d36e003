package document

import (
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
)

type DocumentErrorCause string

const (
	ErrCauseTooLarge          DocumentErrorCause = "file too large"
	ErrCauseUnsupportedFormat DocumentErrorCause = "unsupported format"
	ErrCauseTooShort          DocumentErrorCause = "text too short"
	ErrCauseTooLong           DocumentErrorCause = "text too long"
	ErrCauseEmpty             DocumentErrorCause = "empty document"
	ErrCauseReadFailed        DocumentErrorCause = "read failed"
	ErrCauseConversionFailed  DocumentErrorCause = "conversion failed"
)

type DocumentError struct {
	Message   string
	Retryable bool
	Cause     DocumentErrorCause
	Path      string
}

func (e *DocumentError) Error() string {
	return e.Message
}

func (e *DocumentError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func newDocumentError(cause DocumentErrorCause, format string, args ...any) *DocumentError {
	return &DocumentError{
		Message:   fmt.Sprintf(format, args...),
		Retryable: false,
		Cause:     cause,
	}
}

// mapDocumentErrorToMetadataCause maps document-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapDocumentErrorToMetadataCause(err *DocumentError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTooLarge, ErrCauseUnsupportedFormat, ErrCauseTooShort, ErrCauseTooLong:
		return metadata.CausePolicyDisallow
	case ErrCauseEmpty, ErrCauseConversionFailed:
		return metadata.CauseContentInvalid
	case ErrCauseReadFailed:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
