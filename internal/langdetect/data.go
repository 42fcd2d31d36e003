package langdetect

import "time"

const (
	// DefaultTimeout bounds a single Detector call.
	DefaultTimeout = 3 * time.Second
	// MinConfidence is the confidence a detection must exceed to be used.
	MinConfidence = 0.5
	// DefaultLanguage is returned whenever detection is impossible.
	DefaultLanguage = "English"

	detectSampleLength    = 1000
	heuristicSampleLength = 500
)

// Detection is one candidate language for a text. Language is a BCP 47
// code such as "fr" or "pt-BR".
type Detection struct {
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}
