package langdetect

import "context"

// Detector identifies the language of a text.
// Results are ordered by descending confidence.
type Detector interface {
	Detect(ctx context.Context, text string) ([]Detection, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(ctx context.Context, text string) ([]Detection, error)

func (f DetectorFunc) Detect(ctx context.Context, text string) ([]Detection, error) {
	return f(ctx, text)
}
