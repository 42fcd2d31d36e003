package summarizer

import (
	"context"

	"github.com/rohmanhakim/docuprism/pkg/failure"
)

// Summarizer produces a summary of text shaped by req.
// Implementations return classified errors so callers can retry
// transient failures.
type Summarizer interface {
	Summarize(ctx context.Context, text string, req Request) (string, failure.ClassifiedError)
}

var _ Summarizer = (*HTTPClient)(nil)
