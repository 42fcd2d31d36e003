package metadata

import (
	"time"
)

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, metrics, reporting).

	Rules:
	 - ErrorCause is for observability only.
	 - It must never be used to derive retry, continuation, or abort decisions.
	 - Any use of metadata.ErrorCause outside logging, metrics, or reporting is a design violation.
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used for retry, continuation, or abort decisions.
	 - ErrorCause values MUST have stable, package-agnostic semantics.
	 - Pipeline packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.
	Non-goals:
	 - ErrorCause does not encode severity.
	 - ErrorCause does not imply retryability.
	 - ErrorCause does not imply that the run is aborted.
	 - ErrorCause does not imply correctness of downstream behavior.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown

Meaning:
  - The failure does not map cleanly to any known category.
  - Used as a safe fallback.

Examples:
  - Unexpected internal errors
  - Unclassified third-party library failures

# CauseNetworkFailure

Meaning:
  - Failure caused by network transport or remote availability.

Examples:
  - TCP timeouts
  - DNS resolution failures
  - Connection resets
  - summarization endpoint timeout

# CausePolicyDisallow

Meaning:
  - The request was refused by an explicit policy or rule.

Examples:
  - HTTP 403 / 401 interpreted as access denial
  - HTTP 429 rate-limit enforcement
  - Unsupported input formats

# CauseContentInvalid

Meaning:
  - Content was loaded but could not be processed meaningfully.

Examples:
  - Empty or whitespace-only documents
  - Empty summaries returned by the model
  - Malformed responses from the summarization endpoint

# CauseStorageFailure

Meaning:
  - Failure while persisting history or exported artifacts.

Examples:
  - Disk full
  - Write permission errors
  - Filesystem I/O failures

# CauseInvariantViolation

Meaning:
  - A system-level invariant was violated.

Examples:
  - Corrupt history file
  - Internal consistency checks failing
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

var causeNames = map[ErrorCause]string{
	CauseUnknown:            "unknown",
	CauseNetworkFailure:     "network_failure",
	CausePolicyDisallow:     "policy_disallow",
	CauseContentInvalid:     "content_invalid",
	CauseStorageFailure:     "storage_failure",
	CauseInvariantViolation: "invariant_violation",
}

func (c ErrorCause) String() string {
	if name, ok := causeNames[c]; ok {
		return name
	}
	return causeNames[CauseUnknown]
}

// ArtifactKind names what was written to disk.
type ArtifactKind string

const (
	ArtifactHistory  ArtifactKind = "history"
	ArtifactMetrics  ArtifactKind = "metrics"
	ArtifactRendered ArtifactKind = "rendered_html"
	ArtifactSummary  ArtifactKind = "summary"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrPath       AttributeKey = "path"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrURL        AttributeKey = "url"
	AttrModel      AttributeKey = "model"
	AttrLanguage   AttributeKey = "language"
	AttrAnalysisID AttributeKey = "analysis_id"
	AttrWritePath  AttributeKey = "write_path"
)

// SummarizeEvent describes one completed summarization request.
type SummarizeEvent struct {
	Language  string
	FromCache bool
	Attempts  int
	Duration  time.Duration
	InputLen  int
	OutputLen int
}
