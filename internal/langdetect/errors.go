package langdetect

import (
	"fmt"

	"github.com/rohmanhakim/docuprism/internal/metadata"
	"github.com/rohmanhakim/docuprism/pkg/failure"
)

type DetectionErrorCause string

const (
	ErrCauseTimeout        DetectionErrorCause = "detection timed out"
	ErrCauseDetectorFailed DetectionErrorCause = "detector failed"
)

type DetectionError struct {
	Message   string
	Retryable bool
	Cause     DetectionErrorCause
	Err       error
}

func (e *DetectionError) Error() string {
	return fmt.Sprintf("language detection error: %s: %s", e.Cause, e.Message)
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

func (e *DetectionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapDetectionErrorToMetadataCause maps detection errors to metadata.ErrorCause.
func mapDetectionErrorToMetadataCause(err *DetectionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout:
		return metadata.CauseNetworkFailure
	default:
		return metadata.CauseUnknown
	}
}
