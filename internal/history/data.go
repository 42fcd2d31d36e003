package history

import "time"

const (
	FileName             = "docuprism-analyses.json"
	DefaultMaxAnalyses   = 10
	DefaultPreviewLength = 1000
	// EstimatedQuota is the nominal storage budget used for Info percentages.
	EstimatedQuota = 5 * 1024 * 1024
)

// Options are the generation options an analysis was produced with.
type Options struct {
	Type    string `json:"type"`
	Format  string `json:"format"`
	Length  string `json:"length"`
	Context string `json:"context,omitempty"`
}

// Analysis is one saved summarization. Timestamp is in milliseconds since
// the Unix epoch. InputText holds only a preview of the source text.
type Analysis struct {
	ID        string  `json:"id"`
	Timestamp int64   `json:"timestamp"`
	InputText string  `json:"inputText"`
	Summary   string  `json:"summary"`
	Options   Options `json:"options"`
	Checksum  string  `json:"checksum,omitempty"`
}

func (a Analysis) Time() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// Info describes how much of EstimatedQuota the history file uses.
type Info struct {
	Used       int64
	Available  int64
	Percentage float64
}

// Param configures a Store.
type Param struct {
	MaxAnalyses   int
	PreviewLength int
}

func DefaultParam() Param {
	return Param{
		MaxAnalyses:   DefaultMaxAnalyses,
		PreviewLength: DefaultPreviewLength,
	}
}
