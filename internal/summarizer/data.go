package summarizer

import (
	"fmt"
	"strings"
)

type Type string

const (
	TypeKeyPoints Type = "key-points"
	TypeTLDR      Type = "tldr"
	TypeTeaser    Type = "teaser"
	TypeHeadline  Type = "headline"
)

type Format string

const (
	FormatMarkdown  Format = "markdown"
	FormatPlainText Format = "plain-text"
)

type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Options are the user-facing generation options. Context is optional
// free text appended to the language instruction.
type Options struct {
	Type    Type
	Format  Format
	Length  Length
	Context string
}

// DefaultOptions mirrors what the CLI uses when no flags are given.
func DefaultOptions() Options {
	return Options{
		Type:   TypeKeyPoints,
		Format: FormatMarkdown,
		Length: LengthMedium,
	}
}

// Validate rejects values outside the supported enums.
func (o Options) Validate() error {
	var problems []string
	switch o.Type {
	case TypeKeyPoints, TypeTLDR, TypeTeaser, TypeHeadline:
	default:
		problems = append(problems, fmt.Sprintf("type %q", o.Type))
	}
	switch o.Format {
	case FormatMarkdown, FormatPlainText:
	default:
		problems = append(problems, fmt.Sprintf("format %q", o.Format))
	}
	switch o.Length {
	case LengthShort, LengthMedium, LengthLong:
	default:
		problems = append(problems, fmt.Sprintf("length %q", o.Length))
	}
	if len(problems) == 0 {
		return nil
	}
	return &SummarizeError{
		Message:   "unsupported " + strings.Join(problems, ", "),
		Retryable: false,
		Cause:     ErrCauseInvalidOptions,
	}
}

// Request is what a Summarizer receives: the generation options plus the
// shared context built from the detected language and the user context.
type Request struct {
	Type          Type
	Format        Format
	Length        Length
	SharedContext string
}

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
