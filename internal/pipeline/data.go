package pipeline

import (
	"time"

	"github.com/rohmanhakim/docuprism/pkg/retry"
)

const DefaultSummarizeTimeout = 30 * time.Second

// Param holds the per-call limits. It comes from config.
type Param struct {
	SummarizeTimeout time.Duration
	RetryParam       retry.RetryParam
}

// Result is the outcome of a successful Summarize call. Language is empty
// when the summary came from the cache. AnalysisID is set only when the
// analysis was saved to history.
type Result struct {
	Summary    string
	Language   string
	FromCache  bool
	Attempts   int
	AnalysisID string
}

// Outcome labels used for metrics.
const (
	OutcomeSuccess = "success"
	OutcomeCached  = "cached"
	OutcomeFailed  = "failed"
)
